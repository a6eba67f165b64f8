package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clegacy/internal/db"
)

// Entry is one row of the key/value table.
type Entry struct {
	Key       string         `gorm:"primaryKey;size:191"`
	Value     datatypes.JSON `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName keeps the table name stable across drivers.
func (Entry) TableName() string {
	return "kv_entries"
}

// GormStore persists values in a SQL table through GORM.
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore connects with the named driver and migrates the table.
func OpenGormStore(ctx context.Context, driver, dsn string) (*GormStore, error) {
	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case DriverMySQL:
		gdb, err = db.NewMySQL(dsn)
	case DriverPostgres:
		gdb, err = db.NewPostgres(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	return NewGormStore(ctx, gdb)
}

// NewGormStore migrates the key/value table on gdb.
func NewGormStore(ctx context.Context, gdb *gorm.DB) (*GormStore, error) {
	if err := gdb.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("auto-migrate kv_entries: %w", err)
	}
	return &GormStore{db: gdb}, nil
}

func keyEq(key string) clause.Eq {
	return clause.Eq{Column: clause.Column{Name: "key"}, Value: key}
}

// Get returns the value stored under key.
func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where(keyEq(key)).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s: %w", key, err)
	}
	return []byte(entry.Value), true, nil
}

// Set upserts the value stored under key.
func (s *GormStore) Set(ctx context.Context, key string, value []byte) error {
	entry := Entry{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (s *GormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where(keyEq(key)).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
