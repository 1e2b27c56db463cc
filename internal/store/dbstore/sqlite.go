package dbstore

import (
	"errors"
	"fmt"

	"github.com/yiblet/omikuji/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteStore is a SQLite-backed implementation of store.Store
type SQLiteStore struct {
	db     *gorm.DB
	dbPath string
}

// Option customizes how the SQLite store is opened.
type Option func(*options)

type options struct {
	logLevel logger.LogLevel
}

// WithLogLevel sets the gorm log level. Stores are silent by default.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) {
		o.logLevel = level
	}
}

// NewSQLiteStore creates a new SQLite-backed store at the specified path.
// It initializes the database schema on first use.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	o := options{logLevel: logger.Silent}
	for _, opt := range opts {
		opt(&o)
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", dbPath)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One writer at a time keeps SQLite from reporting "database is locked"
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&EntryModel{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Path returns the database file path
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Get retrieves a value by key
func (s *SQLiteStore) Get(key string) (string, error) {
	var model EntryModel
	if err := s.db.First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", store.ErrNotFound, key)
		}
		return "", fmt.Errorf("failed to get entry: %w", err)
	}
	return model.Value, nil
}

// Set stores a value (upsert)
func (s *SQLiteStore) Set(key, value string) error {
	model := &EntryModel{
		Key:   key,
		Value: value,
	}

	// Upsert: update if exists, insert if not
	result := s.db.Where("key = ?", key).
		Assign(map[string]interface{}{"value": value, "updated_at": s.db.NowFunc()}).
		FirstOrCreate(model)

	if result.Error != nil {
		return fmt.Errorf("failed to set entry: %w", result.Error)
	}

	return nil
}

// Delete removes a key
func (s *SQLiteStore) Delete(key string) error {
	result := s.db.Delete(&EntryModel{}, "key = ?", key)
	if result.Error != nil {
		return fmt.Errorf("failed to delete entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, key)
	}
	return nil
}

// Keys returns all keys in lexical order
func (s *SQLiteStore) Keys() ([]string, error) {
	var keys []string
	if err := s.db.Model(&EntryModel{}).Order("key ASC").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
