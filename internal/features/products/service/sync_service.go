package service

import (
	"context"
	"fmt"

	"courier-bridge/internal/core/apperrors"
	"courier-bridge/internal/core/logger"
	"courier-bridge/internal/features/products/domain"
	"courier-bridge/internal/features/products/ports"

	"go.uber.org/zap"
)

// enabledValue is stored under domain.MetaSyncEnabled for enabled products.
const enabledValue = "yes"

// SyncReport counts the outcome of a synchronization run.
type SyncReport struct {
	// Synced is the number of products whose stock was set from the warehouse.
	Synced int `json:"synced"`
	// NotSynced is the number of enabled products missing from the warehouse.
	NotSynced int `json:"not_synced"`
	// Skipped is the number of products found for a SKU but not enabled for sync.
	Skipped int `json:"skipped"`
	// Failed is the number of products (or SKUs) that could not be processed.
	Failed int `json:"failed"`
}

// SyncService reconciles local product stock with the courier warehouse and keeps
// the per-product sync flags.
type SyncService struct {
	store  ports.ProductStore
	meta   ports.MetaRepository
	stock  ports.StockSource
	logger *zap.Logger
}

// NewSyncService creates a new instance of SyncService.
func NewSyncService(store ports.ProductStore, meta ports.MetaRepository, stock ports.StockSource) *SyncService {
	return &SyncService{
		store:  store,
		meta:   meta,
		stock:  stock,
		logger: logger.Named("products"),
	}
}

// GetProduct returns a product by id.
func (s *SyncService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.store.GetProduct(ctx, id)
}

// State returns the sync state of a product.
func (s *SyncService) State(ctx context.Context, id string) (domain.SyncState, error) {
	enabled, ok, err := s.meta.Get(ctx, id, domain.MetaSyncEnabled)
	if err != nil {
		return domain.SyncState{}, fmt.Errorf("failed to read sync flag of product %s: %w", id, err)
	}
	if !ok || enabled != enabledValue {
		return domain.SyncState{}, nil
	}

	status, _, err := s.meta.Get(ctx, id, domain.MetaSyncStatus)
	if err != nil {
		return domain.SyncState{}, fmt.Errorf("failed to read sync status of product %s: %w", id, err)
	}
	return domain.SyncState{Enabled: true, Status: domain.SyncStatus(status)}, nil
}

// Enable makes the product take part in the stock sync and resets it to pending.
func (s *SyncService) Enable(ctx context.Context, id string) error {
	if err := s.meta.Set(ctx, id, domain.MetaSyncEnabled, enabledValue); err != nil {
		return &apperrors.PersistenceError{Op: "enable sync of product " + id, Err: err}
	}
	return s.setStatus(ctx, id, domain.SyncStatusPending)
}

// Disable removes the product from the stock sync, dropping both flags.
func (s *SyncService) Disable(ctx context.Context, id string) error {
	for _, key := range []string{domain.MetaSyncEnabled, domain.MetaSyncStatus, domain.MetaSyncedSKU} {
		if err := s.meta.Delete(ctx, id, key); err != nil {
			return &apperrors.PersistenceError{Op: "disable sync of product " + id, Err: err}
		}
	}
	return nil
}

// SKUChanged resets an enabled product to pending after its SKU was edited.
func (s *SyncService) SKUChanged(ctx context.Context, id string) error {
	state, err := s.State(ctx, id)
	if err != nil {
		return err
	}
	if !state.Enabled {
		return nil
	}
	return s.setStatus(ctx, id, domain.SyncStatusPending)
}

// detectSKUChange resets product to pending when its SKU differs from the one
// recorded at its last sync.
func (s *SyncService) detectSKUChange(ctx context.Context, product *domain.Product) error {
	last, ok, err := s.meta.Get(ctx, product.ID, domain.MetaSyncedSKU)
	if err != nil {
		return fmt.Errorf("failed to read synced SKU of product %s: %w", product.ID, err)
	}
	if !ok || last == product.SKU {
		return nil
	}

	s.logger.Info("Product SKU changed since last sync",
		zap.String("product_id", product.ID),
		zap.String("previous_sku", last),
		zap.String("sku", product.SKU),
	)
	return s.SKUChanged(ctx, product.ID)
}

// CompositeStatus summarizes a product together with its variations.
func (s *SyncService) CompositeStatus(ctx context.Context, id string) (domain.CompositeStatus, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return "", err
	}

	parent, err := s.State(ctx, product.ID)
	if err != nil {
		return "", err
	}

	children := make([]domain.SyncState, 0, len(product.Children))
	for _, childID := range product.Children {
		state, err := s.State(ctx, childID)
		if err != nil {
			return "", err
		}
		children = append(children, state)
	}
	return domain.Composite(parent, children), nil
}

// Synchronize sets the local stock of every enabled product carrying one of skus
// from a single warehouse stock query. Enabled products whose SKU is missing from
// the warehouse are marked not-synced. A failure on one product is logged and
// counted without stopping the run; only the stock query itself aborts it.
func (s *SyncService) Synchronize(ctx context.Context, skus []string) (SyncReport, error) {
	var report SyncReport
	if len(skus) == 0 {
		return report, nil
	}

	levels, err := s.stock.QueryStock(ctx)
	if err != nil {
		return report, err
	}

	remote := make(map[string]int, len(levels))
	for _, level := range levels {
		remote[level.SKU] = max(level.Quantity, 0)
	}

	seenSKU := make(map[string]bool, len(skus))
	processed := make(map[string]bool)
	for _, sku := range skus {
		if sku == "" || seenSKU[sku] {
			continue
		}
		seenSKU[sku] = true

		log := s.logger.With(zap.String("sku", sku))
		products, err := s.store.FindBySKU(ctx, sku)
		if err != nil {
			log.Error("Failed to look up products", zap.Error(err))
			report.Failed++
			continue
		}
		if len(products) == 0 {
			log.Debug("No local product carries the SKU")
			continue
		}

		quantity, found := remote[sku]
		for _, product := range products {
			s.syncProduct(ctx, log, product, sku, quantity, found, processed, &report)
		}
	}

	s.logger.Info("Stock synchronization finished",
		zap.Int("skus", len(seenSKU)),
		zap.Int("synced", report.Synced),
		zap.Int("not_synced", report.NotSynced),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, nil
}

// syncProduct applies the warehouse outcome to product and to its enabled
// variations sharing the same SKU.
func (s *SyncService) syncProduct(ctx context.Context, log *zap.Logger, product *domain.Product, sku string, quantity int, found bool, processed map[string]bool, report *SyncReport) {
	if processed[product.ID] {
		return
	}
	processed[product.ID] = true

	log = log.With(zap.String("product_id", product.ID))
	state, err := s.State(ctx, product.ID)
	if err != nil {
		log.Error("Failed to read sync state", zap.Error(err))
		report.Failed++
		return
	}
	if !state.Enabled {
		report.Skipped++
		return
	}

	if err := s.apply(ctx, product, quantity, found); err != nil {
		log.Error("Failed to synchronize product", zap.Error(err))
		report.Failed++
		return
	}
	if found {
		report.Synced++
	} else {
		report.NotSynced++
	}

	for _, childID := range product.Children {
		if processed[childID] {
			continue
		}
		child, err := s.store.GetProduct(ctx, childID)
		if err != nil {
			log.Error("Failed to load variation", zap.String("variation_id", childID), zap.Error(err))
			report.Failed++
			continue
		}
		if child.SKU != sku {
			continue
		}
		s.syncProduct(ctx, log, child, sku, quantity, found, processed, report)
	}
}

func (s *SyncService) apply(ctx context.Context, product *domain.Product, quantity int, found bool) error {
	status := domain.SyncStatusNotSynced
	if found {
		status = domain.SyncStatusSynced
		if !product.StockManaged || product.Stock == nil || *product.Stock != quantity {
			if err := s.store.SetStock(ctx, product, quantity); err != nil {
				return err
			}
		}
	}

	if err := s.setStatus(ctx, product.ID, status); err != nil {
		return err
	}
	if err := s.meta.Set(ctx, product.ID, domain.MetaSyncedSKU, product.SKU); err != nil {
		return &apperrors.PersistenceError{Op: fmt.Sprintf("record synced SKU of product %s", product.ID), Err: err}
	}
	return nil
}

// SynchronizeAll synchronizes every sync-enabled product.
func (s *SyncService) SynchronizeAll(ctx context.Context) (SyncReport, error) {
	ids, err := s.meta.List(ctx, domain.MetaSyncEnabled)
	if err != nil {
		return SyncReport{}, fmt.Errorf("failed to list sync-enabled products: %w", err)
	}

	var (
		skus   []string
		failed int
	)
	for _, id := range ids {
		product, err := s.store.GetProduct(ctx, id)
		if err != nil {
			s.logger.Error("Failed to load sync-enabled product", zap.String("product_id", id), zap.Error(err))
			failed++
			continue
		}
		if err := s.detectSKUChange(ctx, product); err != nil {
			s.logger.Error("Failed to check product SKU", zap.String("product_id", id), zap.Error(err))
			failed++
			continue
		}
		if product.SKU != "" {
			skus = append(skus, product.SKU)
		}
	}

	report, err := s.Synchronize(ctx, skus)
	report.Failed += failed
	return report, err
}

// SynchronizeProduct synchronizes a single product and its variations.
func (s *SyncService) SynchronizeProduct(ctx context.Context, id string) (SyncReport, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return SyncReport{}, err
	}

	family := []*domain.Product{product}
	for _, childID := range product.Children {
		child, err := s.store.GetProduct(ctx, childID)
		if err != nil {
			return SyncReport{}, err
		}
		family = append(family, child)
	}

	var skus []string
	for _, p := range family {
		if err := s.detectSKUChange(ctx, p); err != nil {
			return SyncReport{}, err
		}
		if p.SKU != "" {
			skus = append(skus, p.SKU)
		}
	}
	if len(skus) == 0 {
		return SyncReport{}, &apperrors.ValidationError{Field: "sku", Message: fmt.Sprintf("product %s has no SKU", id)}
	}
	return s.Synchronize(ctx, skus)
}

func (s *SyncService) setStatus(ctx context.Context, id string, status domain.SyncStatus) error {
	if err := s.meta.Set(ctx, id, domain.MetaSyncStatus, string(status)); err != nil {
		return &apperrors.PersistenceError{Op: fmt.Sprintf("set sync status of product %s", id), Err: err}
	}
	return nil
}
