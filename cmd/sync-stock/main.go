// Command sync-stock runs one stock synchronization against the courier warehouse,
// for hosts that schedule it with cron instead of the API worker.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"courier-bridge/internal/core/config"
	"courier-bridge/internal/core/courier"
	"courier-bridge/internal/core/database"
	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/core/metastore"
	"courier-bridge/internal/core/woocommerce"
	productadapters "courier-bridge/internal/features/products/adapters"
	productservice "courier-bridge/internal/features/products/service"

	"go.uber.org/zap"
)

func main() {
	skuList := flag.String("sku", "", "comma separated SKUs to synchronize (default: every sync-enabled product)")
	configPath := flag.String("config", ".", "directory holding the .env file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	l := logger.Named("sync-stock")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		l.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	meta := metastore.New(db.DB)
	if err := meta.Migrate(ctx); err != nil {
		l.Fatal("Metadata migration failed", zap.Error(err))
	}

	wc := woocommerce.NewClient(cfg.WooCommerce)
	svc := productservice.NewSyncService(
		productadapters.NewWooCommerceAdapter(wc),
		productadapters.NewMetaRepository(meta),
		courier.NewClient(cfg.Courier),
	)

	var report productservice.SyncReport
	if skus := splitSKUs(*skuList); len(skus) > 0 {
		report, err = svc.Synchronize(ctx, skus)
	} else {
		report, err = svc.SynchronizeAll(ctx)
	}
	if err != nil {
		l.Error("Stock synchronization failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	l.Info("Stock synchronization done",
		zap.Int("synced", report.Synced),
		zap.Int("not_synced", report.NotSynced),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
}

func splitSKUs(raw string) []string {
	var skus []string
	for _, sku := range strings.Split(raw, ",") {
		if sku = strings.TrimSpace(sku); sku != "" {
			skus = append(skus, sku)
		}
	}
	return skus
}
