package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/glintwash/glintwash-client/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type sessionEntry struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"column:value"`
}

func (sessionEntry) TableName() string { return "session_entries" }

// GormStore keeps the session mirror in a local SQLite database, the durable
// option for installs that outlive a single process.
type GormStore struct {
	conn *gorm.DB
}

// NewGormStore opens (and optionally migrates) the SQLite session database.
func NewGormStore(cfg config.SQLiteConfig) (*GormStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating sqlite dir: %w", err)
		}
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite session db: %w", err)
	}

	if cfg.AutoMigrate {
		if err := conn.AutoMigrate(&sessionEntry{}); err != nil {
			return nil, fmt.Errorf("migrating session table: %w", err)
		}
	}

	return &GormStore{conn: conn}, nil
}

func (g *GormStore) Get(ctx context.Context, key Key) (string, error) {
	var entry sessionEntry
	err := g.conn.WithContext(ctx).First(&entry, "key = ?", string(key)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (g *GormStore) Set(ctx context.Context, key Key, value string) error {
	entry := sessionEntry{Key: string(key), Value: value}
	return g.conn.WithContext(ctx).Save(&entry).Error
}

func (g *GormStore) Del(ctx context.Context, keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	raw := make([]string, 0, len(keys))
	for _, key := range keys {
		raw = append(raw, string(key))
	}
	return g.conn.WithContext(ctx).Delete(&sessionEntry{}, "key IN ?", raw).Error
}

// Close shuts down the pooled connections.
func (g *GormStore) Close() error {
	sqlDB, err := g.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
