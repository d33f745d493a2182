package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound is returned when the store has no product with the requested id.
var ErrProductNotFound = errors.New("product not found")

// Product metadata keys owned by the courier integration.
const (
	// MetaSyncEnabled marks a product as taking part in the stock sync.
	MetaSyncEnabled = "_courier_sync_enabled"
	// MetaSyncStatus holds the SyncStatus of an enabled product.
	MetaSyncStatus = "_courier_sync_status"
	// MetaSyncedSKU holds the SKU the product carried at its last stock sync.
	MetaSyncedSKU = "_courier_synced_sku"
)

// SyncStatus is the outcome of the last stock sync of an enabled product.
type SyncStatus string

const (
	SyncStatusPending   SyncStatus = "pending"
	SyncStatusSynced    SyncStatus = "synced"
	SyncStatusNotSynced SyncStatus = "not-synced"
)

// SyncState is the sync participation of a single product.
type SyncState struct {
	Enabled bool       `json:"enabled"`
	Status  SyncStatus `json:"status,omitempty"`
}

// IsSynced reports whether the product is enabled and its last sync found it remotely.
func (s SyncState) IsSynced() bool {
	return s.Enabled && s.Status == SyncStatusSynced
}

// CompositeStatus summarizes a product together with its variations.
type CompositeStatus string

const (
	CompositeDisabled  CompositeStatus = "disabled"
	CompositePending   CompositeStatus = "pending"
	CompositePartial   CompositeStatus = "partial"
	CompositeSynced    CompositeStatus = "synced"
	CompositeNotSynced CompositeStatus = "not-synced"
)

// Composite derives the status of a parent from its own state and its children's.
// A disabled parent is disabled; otherwise any pending enabled child makes it pending,
// and enabled children disagreeing on synced/not-synced make it partial. In every
// other case the parent's own status applies.
func Composite(parent SyncState, children []SyncState) CompositeStatus {
	if !parent.Enabled {
		return CompositeDisabled
	}

	var synced, notSynced bool
	for _, child := range children {
		if !child.Enabled {
			continue
		}
		switch child.Status {
		case SyncStatusPending:
			return CompositePending
		case SyncStatusSynced:
			synced = true
		case SyncStatusNotSynced:
			notSynced = true
		}
	}
	if synced && notSynced {
		return CompositePartial
	}

	if parent.Status == "" {
		return CompositePending
	}
	return CompositeStatus(parent.Status)
}

// Dimensions are the physical metrics used for shipping, in the store units.
type Dimensions struct {
	Weight decimal.NullDecimal `json:"weight"`
	Length decimal.NullDecimal `json:"length"`
	Width  decimal.NullDecimal `json:"width"`
	Height decimal.NullDecimal `json:"height"`
}

// Complete reports whether all four metrics are set.
func (d Dimensions) Complete() bool {
	return d.Weight.Valid && d.Length.Valid && d.Width.Valid && d.Height.Valid
}

// Product is a store product or variation.
type Product struct {
	// ID is the product id.
	ID string `json:"id"`
	// ParentID is the parent product of a variation, empty otherwise.
	ParentID string `json:"parent_id,omitempty"`
	// SKU is the Stock Keeping Unit, shared with the courier warehouse.
	SKU string `json:"sku"`
	// Name is the product name.
	Name string `json:"name"`
	// StockManaged reports whether the store tracks the stock of the product.
	StockManaged bool `json:"stock_managed"`
	// Stock is the stock quantity when managed.
	Stock *int `json:"stock,omitempty"`
	// Dimensions are the shipping metrics.
	Dimensions Dimensions `json:"dimensions"`
	// Children are the variation ids of a variable product.
	Children []string `json:"children,omitempty"`
}

// IsVariation reports whether the product is a variation of another product.
func (p *Product) IsVariation() bool {
	return p.ParentID != "" && p.ParentID != "0"
}
