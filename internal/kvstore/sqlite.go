package kvstore

import (
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/leaflens/leaflens-go/internal/errors"
)

// blob is the single-table schema backing the store: one row per key,
// whole value replaced on write. Mirrors the shape of the mobile
// platform's string-keyed storage the client contract was built on.
type blob struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

func (blob) TableName() string {
	return "blobs"
}

// SQLiteStore is the durable Store implementation.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if necessary) the key-value database at
// dataDir/leaflens.db.
func OpenSQLite(dataDir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, errors.Newf("failed to create data directory: %w", err).
			Category(errors.CategoryStorage).
			Context("data_dir", dataDir).
			Component("kvstore").
			Build()
	}

	dbPath := filepath.Join(dataDir, "leaflens.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.Newf("failed to open key-value database: %w", err).
			Category(errors.CategoryStorage).
			Context("db_path", dbPath).
			Component("kvstore").
			Build()
	}

	if err := db.AutoMigrate(&blob{}); err != nil {
		return nil, errors.Newf("failed to migrate key-value schema: %w", err).
			Category(errors.CategoryStorage).
			Context("db_path", dbPath).
			Component("kvstore").
			Build()
	}

	serviceLogger().Info("key-value store opened", "db_path", dbPath)
	return &SQLiteStore{db: db}, nil
}

// Get returns the blob stored under key.
func (s *SQLiteStore) Get(key string) ([]byte, bool, error) {
	var b blob
	err := s.db.First(&b, "key = ?", key).Error
	switch {
	case err == nil:
		return b.Value, true, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

// Set replaces the blob stored under key.
func (s *SQLiteStore) Set(key string, value []byte) error {
	b := blob{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&b).Error
}

// Delete removes key; absent keys are a no-op.
func (s *SQLiteStore) Delete(key string) error {
	return s.db.Delete(&blob{}, "key = ?", key).Error
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
