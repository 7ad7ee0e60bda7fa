package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	cashbookapp "github.com/shopstack/backend/internal/application/cashbook"
	catalogapp "github.com/shopstack/backend/internal/application/catalog"
	debtapp "github.com/shopstack/backend/internal/application/debt"
	inventoryapp "github.com/shopstack/backend/internal/application/inventory"
	partnerapp "github.com/shopstack/backend/internal/application/partner"
	tradeapp "github.com/shopstack/backend/internal/application/trade"
	"github.com/shopstack/backend/internal/domain/debt"
	"github.com/shopstack/backend/internal/domain/inventory"
	"github.com/shopstack/backend/internal/infrastructure/config"
	"github.com/shopstack/backend/internal/infrastructure/logger"
	"github.com/shopstack/backend/internal/infrastructure/persistence"
	"github.com/shopstack/backend/internal/interfaces/http/handler"
	"github.com/shopstack/backend/internal/interfaces/http/middleware"
	"github.com/shopstack/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("Starting shopstack backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Production schemas come from SQL migrations; sqlite and development
	// environments migrate in-process.
	if cfg.Database.Driver == "sqlite" || cfg.App.Env == "development" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	// Repositories
	uow := persistence.NewGormUnitOfWork(db.DB)
	codes := persistence.NewGormCodeGenerator(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	conversionRepo := persistence.NewGormProductUnitConversionRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB)
	stockRepo := persistence.NewGormStockRepository(db.DB)
	batchRepo := persistence.NewGormStockBatchRepository(db.DB)
	stockTxRepo := persistence.NewGormStockTransactionRepository(db.DB)
	debtTxRepo := persistence.NewGormDebtTransactionRepository(db.DB)
	entryRepo := persistence.NewGormCashbookEntryRepository(db.DB)
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	salesOrderRepo := persistence.NewGormSalesOrderRepository(db.DB)
	returnOrderRepo := persistence.NewGormReturnOrderRepository(db.DB)

	// Domain ledgers
	stockLedger := inventory.NewLedger(stockRepo, batchRepo, stockTxRepo)
	payableLedger := debt.NewLedger(debt.SidePayable, debtTxRepo)
	receivableLedger := debt.NewLedger(debt.SideReceivable, debtTxRepo)

	// Application services
	catalogService := catalogapp.NewService(uow, productRepo, unitRepo, conversionRepo, log)
	partnerService := partnerapp.NewService(uow, supplierRepo, customerRepo, warehouseRepo, log)
	inventoryService := inventoryapp.NewService(uow, stockLedger, stockRepo, batchRepo, stockTxRepo, productRepo, log)
	cashbookService := cashbookapp.NewService(uow, entryRepo, log)
	debtService := debtapp.NewService(uow, supplierRepo, customerRepo, payableLedger, receivableLedger, debtTxRepo, entryRepo, log)
	purchaseOrderService := tradeapp.NewPurchaseOrderService(
		uow, purchaseOrderRepo, codes, productRepo, unitRepo,
		supplierRepo, warehouseRepo, stockLedger, payableLedger, entryRepo, log,
	)
	salesOrderService := tradeapp.NewSalesOrderService(
		uow, salesOrderRepo, codes, productRepo, unitRepo,
		customerRepo, warehouseRepo, stockLedger, receivableLedger, entryRepo, log,
	)
	returnOrderService := tradeapp.NewReturnOrderService(
		uow, returnOrderRepo, salesOrderRepo, codes, productRepo, unitRepo,
		customerRepo, warehouseRepo, stockLedger, receivableLedger, entryRepo, log,
	)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(cfg.HTTP.AllowedOrigins))

	engine.GET("/health", healthHandler(db))

	router.New(engine, "v1").Register(
		handler.NewCatalogHandler(catalogService),
		handler.NewPartnerHandler(partnerService),
		handler.NewDebtHandler(debtService),
		handler.NewInventoryHandler(inventoryService),
		handler.NewCashbookHandler(cashbookService),
		handler.NewPurchaseOrderHandler(purchaseOrderService),
		handler.NewSalesOrderHandler(salesOrderService),
		handler.NewReturnOrderHandler(returnOrderService),
	).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited gracefully")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.FromGin(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
