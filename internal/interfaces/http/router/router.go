package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by every handler that mounts routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registered handlers under a versioned API prefix
type Router struct {
	engine     *gin.Engine
	version    string
	registrars []RouteRegistrar
}

// New creates a router on the given engine
func New(engine *gin.Engine, version string) *Router {
	return &Router{engine: engine, version: version}
}

// Register adds handlers to mount on Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup mounts all registered handlers
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.version)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
