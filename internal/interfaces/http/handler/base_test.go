package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopstack/backend/internal/domain/shared"
	"github.com/shopstack/backend/internal/interfaces/http/dto"
	"github.com/shopstack/backend/internal/interfaces/http/middleware"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.RequestID())
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	var body dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHandleError(t *testing.T) {
	var h BaseHandler

	t.Run("domain errors map to their status and code", func(t *testing.T) {
		engine := newTestEngine()
		engine.GET("/conflict", func(c *gin.Context) {
			h.HandleError(c, shared.NewInvalidStateError("Cannot cancel a received order"))
		})

		rec, body := doRequest(t, engine, http.MethodGet, "/conflict")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.False(t, body.Success)
		require.NotNil(t, body.Error)
		assert.Equal(t, shared.CodeInvalidStateTransition, body.Error.Code)
		assert.Equal(t, "Cannot cancel a received order", body.Error.Message)
		assert.NotEmpty(t, body.Error.RequestID)
		assert.Equal(t, rec.Header().Get("X-Request-ID"), body.Error.RequestID)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		engine := newTestEngine()
		engine.GET("/missing", func(c *gin.Context) {
			h.HandleError(c, shared.ErrNotFound)
		})

		rec, body := doRequest(t, engine, http.MethodGet, "/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, shared.CodeNotFound, body.Error.Code)
	})

	t.Run("unknown errors become opaque 500s", func(t *testing.T) {
		engine := newTestEngine()
		engine.GET("/boom", func(c *gin.Context) {
			h.HandleError(c, errors.New("pq: connection refused"))
		})

		rec, body := doRequest(t, engine, http.MethodGet, "/boom")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, dto.CodeInternalError, body.Error.Code)
		// Internals stay out of the response body
		assert.NotContains(t, body.Error.Message, "pq:")
	})
}

func TestParseUUIDParam(t *testing.T) {
	var h BaseHandler
	engine := newTestEngine()
	engine.GET("/orders/:id", func(c *gin.Context) {
		id, ok := h.ParseUUIDParam(c, "id")
		if !ok {
			return
		}
		h.Success(c, id.String())
	})

	rec, body := doRequest(t, engine, http.MethodGet, "/orders/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, dto.CodeBadRequest, body.Error.Code)

	rec, body = doRequest(t, engine, http.MethodGet, "/orders/b5ad2a3e-7b8c-4f8e-9f0a-1c2d3e4f5a6b")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "b5ad2a3e-7b8c-4f8e-9f0a-1c2d3e4f5a6b", body.Data)
}
