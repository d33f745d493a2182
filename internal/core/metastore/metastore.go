// Package metastore persists the courier metadata attached to store orders and
// products (vouchers, failure notes, sync flags) in PostgreSQL through gorm.
package metastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityType is the kind of store object a value is attached to.
type EntityType string

const (
	EntityOrder   EntityType = "order"
	EntityProduct EntityType = "product"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint.
var ErrDuplicate = errors.New("metastore: duplicate value")

// Entry is a single metadata value.
type Entry struct {
	ID         uint       `gorm:"primaryKey"`
	EntityType EntityType `gorm:"type:varchar(16);not null;uniqueIndex:idx_entity_meta_key,priority:1"`
	EntityID   string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_entity_meta_key,priority:2"`
	Key        string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_entity_meta_key,priority:3;index:idx_entity_meta_lookup,priority:1"`
	Value      string     `gorm:"type:text;not null;index:idx_entity_meta_lookup,priority:2"`
	UpdatedAt  time.Time
}

// TableName overrides the gorm default.
func (Entry) TableName() string {
	return "entity_meta"
}

// UniqueValue declares a key whose values may be held by one entity at a time.
type UniqueValue struct {
	EntityType EntityType
	Key        string
}

// Store reads and writes metadata entries.
type Store struct {
	db *gorm.DB
}

// New creates a Store on db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the table and one partial unique index per unique key.
func (s *Store) Migrate(ctx context.Context, unique ...UniqueValue) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return fmt.Errorf("failed to migrate entity_meta: %w", err)
	}

	for _, u := range unique {
		stmt := fmt.Sprintf(
			`CREATE UNIQUE INDEX IF NOT EXISTS %s ON entity_meta (value) WHERE entity_type = '%s' AND key = '%s'`,
			indexName(u), u.EntityType, u.Key,
		)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create unique index for %s: %w", u.Key, err)
		}
	}
	return nil
}

func indexName(u UniqueValue) string {
	name := "uniq_" + string(u.EntityType)
	for _, r := range u.Key {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			name += string(r)
		} else {
			name += "_"
		}
	}
	return name
}

// Get returns the value stored under key and whether it exists.
func (s *Store) Get(ctx context.Context, entity EntityType, id, key string) (string, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND key = ?", entity, id, key).
		Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s %s meta %s: %w", entity, id, key, err)
	}
	return entry.Value, true, nil
}

// Set creates or replaces the value stored under key.
func (s *Store) Set(ctx context.Context, entity EntityType, id, key, value string) error {
	entry := Entry{EntityType: entity, EntityID: id, Key: key, Value: value}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %s %s", ErrDuplicate, key, value)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s %s meta %s: %w", entity, id, key, err)
	}
	return nil
}

// Delete removes the value stored under key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, entity EntityType, id, key string) error {
	err := s.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND key = ?", entity, id, key).
		Delete(&Entry{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete %s %s meta %s: %w", entity, id, key, err)
	}
	return nil
}

// FindEntities returns the ids of every entity holding value under key.
func (s *Store) FindEntities(ctx context.Context, entity EntityType, key, value string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Where("entity_type = ? AND key = ? AND value = ?", entity, key, value).
		Order("entity_id").
		Pluck("entity_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search %s meta %s: %w", entity, key, err)
	}
	return ids, nil
}

// ListEntities returns the ids of every entity with a value under key.
func (s *Store) ListEntities(ctx context.Context, entity EntityType, key string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&Entry{}).
		Where("entity_type = ? AND key = ?", entity, key).
		Order("entity_id").
		Pluck("entity_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s meta %s: %w", entity, key, err)
	}
	return ids, nil
}
