package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cartapp "github.com/factorydirect/backend/internal/application/cart"
	inventoryapp "github.com/factorydirect/backend/internal/application/inventory"
	orderapp "github.com/factorydirect/backend/internal/application/order"
	partnerapp "github.com/factorydirect/backend/internal/application/partner"
	"github.com/factorydirect/backend/internal/domain/shared"
	"github.com/factorydirect/backend/internal/infrastructure/auth"
	"github.com/factorydirect/backend/internal/infrastructure/cache"
	"github.com/factorydirect/backend/internal/infrastructure/config"
	"github.com/factorydirect/backend/internal/infrastructure/logger"
	"github.com/factorydirect/backend/internal/infrastructure/persistence"
	"github.com/factorydirect/backend/internal/interfaces/http/handler"
	"github.com/factorydirect/backend/internal/interfaces/http/middleware"
	"github.com/factorydirect/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting FactoryDirect Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection. SQL logging is on in development only.
	gormLogLevel := gormlogger.Silent
	if cfg.App.Env == "development" {
		gormLogLevel = gormlogger.Warn
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	stockLogRepo := persistence.NewGormStockLogRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Transaction scopes
	inventoryScope := persistence.NewGormInventoryTransactionScope(db.DB)
	orderScope := persistence.NewGormOrderTransactionScope(db.DB)

	// Application services
	stockService := inventoryapp.NewStockService(inventoryScope, productRepo, stockLogRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	cartService := cartapp.NewCartService(cartRepo, productRepo)
	orderService := orderapp.NewOrderService(orderScope, orderRepo, customerRepo, customerService)

	// Duplicate-submission protection for order placement. Redis is shared
	// across instances; the in-memory store only covers a single process.
	if cfg.Idempotency.Enabled {
		var idemStore shared.IdempotencyStore
		if cfg.Redis.Enabled {
			idemStore, err = cache.NewRedisIdempotencyStore(cache.RedisConfig{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			if err != nil {
				log.Fatal("Failed to connect to Redis", zap.Error(err))
			}
			log.Info("Idempotency store: redis",
				zap.String("host", cfg.Redis.Host),
				zap.Int("port", cfg.Redis.Port),
			)
		} else {
			idemStore = cache.NewInMemoryIdempotencyStore()
			log.Info("Idempotency store: in-memory")
		}
		defer func() {
			_ = idemStore.Close()
		}()
		orderService.SetIdempotencyStore(idemStore, shared.IdempotencyConfig{
			Enabled: true,
			TTL:     cfg.Idempotency.TTL,
		})
	}

	// Token verification
	verifier := auth.NewTokenVerifier(cfg.JWT)

	// HTTP handlers
	productHandler := handler.NewProductHandler(stockService)
	customerHandler := handler.NewCustomerHandler(customerService)
	cartHandler := handler.NewCartHandler(cartService)
	orderHandler := handler.NewOrderHandler(orderService)

	// Gin engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	// Global middleware, ordered: request ID first so every log line and
	// error response carries one, recovery before logging.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning, unauthenticated)
	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	staffOnly := middleware.RequireStaff()

	// Inventory domain (products, stock ledger). Reads are open to any
	// authenticated account; writes are staff operations.
	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.Use(middleware.JWTAuth(verifier))
	inventoryRoutes.GET("/products", productHandler.List)
	inventoryRoutes.GET("/products/:id", productHandler.GetByID)
	inventoryRoutes.GET("/products/:id/availability", productHandler.CheckAvailability)
	inventoryRoutes.POST("/products", staffOnly, productHandler.Create)
	inventoryRoutes.PUT("/products/:id", staffOnly, productHandler.Update)
	inventoryRoutes.DELETE("/products/:id", staffOnly, productHandler.Delete)
	inventoryRoutes.PUT("/products/:id/stock", staffOnly, productHandler.AdjustStock)
	inventoryRoutes.GET("/products/:id/logs", staffOnly, productHandler.ListLogs)

	// Cart domain, always scoped to the calling account
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.Use(middleware.JWTAuth(verifier))
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.DELETE("", cartHandler.Clear)
	cartRoutes.POST("/items", cartHandler.AddItem)
	cartRoutes.PUT("/items/:productId", cartHandler.SetQuantity)
	cartRoutes.DELETE("/items/:productId", cartHandler.RemoveItem)
	cartRoutes.POST("/sync", cartHandler.Sync)

	// Order domain. Shoppers see their own orders; staff see all and
	// drive the fulfillment status machine.
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(middleware.JWTAuth(verifier))
	orderRoutes.POST("", orderHandler.Create)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.GetByID)
	orderRoutes.PUT("/:id/status", staffOnly, orderHandler.UpdateStatus)
	orderRoutes.PUT("/:id/pay", orderHandler.MarkPaid)

	// Customer directory
	customerRoutes := router.NewDomainGroup("customers", "/customers")
	customerRoutes.Use(middleware.JWTAuth(verifier))
	customerRoutes.GET("/me", customerHandler.GetProfile)
	customerRoutes.PUT("/me", customerHandler.UpdateProfile)
	customerRoutes.GET("/:id", staffOnly, customerHandler.GetByID)

	r.Register(inventoryRoutes).
		Register(cartRoutes).
		Register(orderRoutes).
		Register(customerRoutes)

	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// healthHandler returns a handler for health check endpoints
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
