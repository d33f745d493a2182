// Package database connects to the PostgreSQL metadata store, optionally starting
// an embedded PostgreSQL process for local development.
package database

import (
	"fmt"
	"time"

	"courier-bridge/internal/core/config"
	"courier-bridge/internal/core/logger"

	embeddedpostgres "github.com/fergusstrange/embedded-postgres"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	embeddedDataPath = "./db_data"
	embeddedPort     = 5433
	embeddedPassword = "postgres"
)

// DB wraps gorm.DB and the embedded process, if one was started.
type DB struct {
	*gorm.DB
	embedded *embeddedpostgres.EmbeddedPostgres
}

// Connect opens the database described by cfg.
func Connect(cfg config.DatabaseConfig) (*DB, error) {
	log := logger.Named("database")

	var embedded *embeddedpostgres.EmbeddedPostgres
	if cfg.Embedded {
		log.Info("Starting embedded PostgreSQL", zap.Int("port", embeddedPort), zap.String("data_path", embeddedDataPath))

		embedded = embeddedpostgres.NewDatabase(embeddedpostgres.DefaultConfig().
			DataPath(embeddedDataPath).
			Port(uint32(embeddedPort)).
			Database(cfg.Name).
			Username(cfg.User).
			Password(embeddedPassword))

		if err := embedded.Start(); err != nil {
			return nil, fmt.Errorf("failed to start embedded database: %w", err)
		}

		cfg.Host = "localhost"
		cfg.Port = embeddedPort
		cfg.Password = embeddedPassword
	} else {
		log.Info("Connecting to PostgreSQL", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))
	}

	db, err := Open(cfg.DSN())
	if err != nil {
		if embedded != nil {
			_ = embedded.Stop()
		}
		return nil, err
	}

	log.Info("Database connection established")
	return &DB{DB: db, embedded: embedded}, nil
}

// Open connects gorm to the PostgreSQL DSN with the pool settings used by the service.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(20)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	return db, nil
}

// Close closes the pool and stops the embedded process.
func (db *DB) Close() error {
	if db.embedded != nil {
		logger.Named("database").Info("Stopping embedded PostgreSQL")
		defer func() { _ = db.embedded.Stop() }()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
