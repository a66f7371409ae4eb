package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/velocore/backend/internal/application/catalog"
	identityapp "github.com/velocore/backend/internal/application/identity"
	inventoryapp "github.com/velocore/backend/internal/application/inventory"
	manufacturingapp "github.com/velocore/backend/internal/application/manufacturing"
	procurementapp "github.com/velocore/backend/internal/application/procurement"
	qualityapp "github.com/velocore/backend/internal/application/quality"
	rentalapp "github.com/velocore/backend/internal/application/rental"
	repairapp "github.com/velocore/backend/internal/application/repair"
	"github.com/velocore/backend/internal/infrastructure/auth"
	"github.com/velocore/backend/internal/infrastructure/config"
	"github.com/velocore/backend/internal/infrastructure/logger"
	"github.com/velocore/backend/internal/infrastructure/persistence"
	"github.com/velocore/backend/internal/interfaces/http/handler"
	"github.com/velocore/backend/internal/interfaces/http/middleware"
	"github.com/velocore/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting VeloCore backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.HTTP.Port),
	)

	// Database with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
	db, err := persistence.NewDatabase(cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Token blacklist backed by Redis, falling back to process memory when
	// Redis is unreachable so a cache outage does not block logins
	var blacklist auth.TokenBlacklist
	if redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		blacklist = redisBlacklist
		log.Info("Redis token blacklist connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db.DB())
	warehouseRepo := persistence.NewGormWarehouseRepository(db.DB())
	balanceRepo := persistence.NewGormStockBalanceRepository(db.DB())
	ledgerRepo := persistence.NewGormInventoryTransactionRepository(db.DB())
	requisitionRepo := persistence.NewGormPurchaseRequisitionRepository(db.DB())
	purchaseOrderRepo := persistence.NewGormPurchaseOrderRepository(db.DB())
	goodsReceiptRepo := persistence.NewGormGoodsReceiptRepository(db.DB())
	bomRepo := persistence.NewGormBillOfMaterialRepository(db.DB())
	productionOrderRepo := persistence.NewGormProductionOrderRepository(db.DB())
	materialIssueRepo := persistence.NewGormMaterialIssueRepository(db.DB())
	productionReceiptRepo := persistence.NewGormProductionReceiptRepository(db.DB())
	qualityCheckRepo := persistence.NewGormQualityCheckRepository(db.DB())
	assetRepo := persistence.NewGormAssetRepository(db.DB())
	contractRepo := persistence.NewGormRentalContractRepository(db.DB())
	repairOrderRepo := persistence.NewGormRepairOrderRepository(db.DB())
	userRepo := persistence.NewGormUserRepository(db.DB())
	roleRepo := persistence.NewGormRoleRepository(db.DB())

	scope := persistence.NewGormTransactionScope(db.DB())

	// Identity services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(
		userRepo, roleRepo, jwtService, blacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, roleRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, log)

	// Domain services
	itemService := catalogapp.NewItemService(itemRepo, balanceRepo, log)
	warehouseService := catalogapp.NewWarehouseService(warehouseRepo, balanceRepo, log)
	stockService := inventoryapp.NewStockService(scope, balanceRepo, ledgerRepo)
	requisitionService := procurementapp.NewRequisitionService(scope, requisitionRepo)
	purchaseOrderService := procurementapp.NewPurchaseOrderService(scope, purchaseOrderRepo)
	goodsReceiptService := procurementapp.NewGoodsReceiptService(scope, goodsReceiptRepo)
	bomService := manufacturingapp.NewBOMService(scope, bomRepo)
	productionOrderService := manufacturingapp.NewProductionOrderService(scope, productionOrderRepo)
	materialIssueService := manufacturingapp.NewMaterialIssueService(scope, materialIssueRepo)
	productionReceiptService := manufacturingapp.NewProductionReceiptService(scope, productionReceiptRepo)
	qualityService := qualityapp.NewQualityService(scope, qualityCheckRepo)
	rentalService := rentalapp.NewRentalService(scope, assetRepo, contractRepo)
	repairService := repairapp.NewRepairService(scope, repairOrderRepo)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Logger: log,
	}))

	r.Register(
		handler.NewAuthHandler(authService),
		handler.NewUserHandler(userService),
		handler.NewRoleHandler(roleService),
		handler.NewItemHandler(itemService),
		handler.NewWarehouseHandler(warehouseService),
		handler.NewInventoryHandler(stockService),
		handler.NewRequisitionHandler(requisitionService),
		handler.NewPurchaseOrderHandler(purchaseOrderService),
		handler.NewGoodsReceiptHandler(goodsReceiptService),
		handler.NewBOMHandler(bomService),
		handler.NewProductionOrderHandler(productionOrderService),
		handler.NewMaterialIssueHandler(materialIssueService),
		handler.NewProductionReceiptHandler(productionReceiptService),
		handler.NewQualityCheckHandler(qualityService),
		handler.NewAssetHandler(rentalService),
		handler.NewRentalContractHandler(rentalService),
		handler.NewRepairOrderHandler(repairService),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(c.Request.Context()); err != nil {
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
