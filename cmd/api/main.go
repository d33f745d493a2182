package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"courier-bridge/internal/core/cache"
	"courier-bridge/internal/core/config"
	"courier-bridge/internal/core/courier"
	"courier-bridge/internal/core/database"
	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/core/metastore"
	"courier-bridge/internal/core/server"
	"courier-bridge/internal/core/woocommerce"
	orderadapter "courier-bridge/internal/features/orders/adapters"
	orderdomain "courier-bridge/internal/features/orders/domain"
	orderhandler "courier-bridge/internal/features/orders/handler"
	orderservice "courier-bridge/internal/features/orders/service"
	productadapters "courier-bridge/internal/features/products/adapters"
	producthandler "courier-bridge/internal/features/products/handler"
	productservice "courier-bridge/internal/features/products/service"
	reconcilehandler "courier-bridge/internal/features/reconcile/handler"
	reconcileservice "courier-bridge/internal/features/reconcile/service"
	shipmenthandler "courier-bridge/internal/features/shipments/handler"
	shipmentservice "courier-bridge/internal/features/shipments/service"
	statusadapters "courier-bridge/internal/features/statuses/adapters"
	statushandler "courier-bridge/internal/features/statuses/handler"
	statusservice "courier-bridge/internal/features/statuses/service"

	"go.uber.org/zap"
)

// @title Courier Bridge API
// @version 1.0
// @description Manual courier actions for WooCommerce orders and products: shipments, vouchers, stock sync and status definitions.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey APIKey
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Metadata store
	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	meta := metastore.New(db.DB)
	if err := meta.Migrate(ctx, metastore.UniqueValue{EntityType: metastore.EntityOrder, Key: orderdomain.MetaVoucher}); err != nil {
		l.Fatal("Metadata migration failed", zap.Error(err))
	}

	// Status definition persistence
	redisCache, err := cache.NewRedisAdapter(cfg.RedisURL, "courier:")
	if err != nil {
		l.Fatal("Redis configuration invalid", zap.Error(err))
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis unreachable", zap.Error(err))
	}

	// WooCommerce store and health check
	wc := woocommerce.NewClient(cfg.WooCommerce)
	wcOrders := orderadapter.NewWooCommerceAdapter(wc)
	if err := wcOrders.HealthCheck(ctx); err != nil {
		l.Fatal("WooCommerce Health Check Failed", zap.Error(err))
	}
	l.Info("WooCommerce connection verified")

	courierClient := courier.NewClient(cfg.Courier)

	orderSvc := orderservice.NewOrderService(wcOrders, orderadapter.NewMetaRepository(meta))
	definitionCache := statusservice.NewCache(courierClient, statusadapters.NewRedisDefinitionRepository(redisCache))
	syncSvc := productservice.NewSyncService(
		productadapters.NewWooCommerceAdapter(wc),
		productadapters.NewMetaRepository(meta),
		courierClient,
	)
	shipmentSvc := shipmentservice.NewShipmentService(
		orderSvc,
		syncSvc,
		courierClient,
		definitionCache,
		cfg.Shipping,
		courierClient.Locale(),
	)

	sweeper := reconcileservice.NewSweeper(orderSvc, shipmentSvc)
	worker := reconcileservice.NewWorker(sweeper, syncSvc, cfg.Scheduler.ReconcileInterval(), cfg.Scheduler.StockSyncInterval())
	go worker.Start(ctx)

	srv := server.New(cfg)

	// Register Routes
	orderhandler.NewOrderHandler(orderSvc).Register(srv.API)
	shipmenthandler.NewShipmentHandler(shipmentSvc).Register(srv.API)
	producthandler.NewProductHandler(syncSvc).Register(srv.API)
	statushandler.NewStatusHandler(definitionCache).Register(srv.API)
	reconcilehandler.NewReconcileHandler(sweeper).Register(srv.API)

	go func() {
		<-ctx.Done()
		l.Info("Shutting down")
		if err := srv.Shutdown(); err != nil {
			l.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
