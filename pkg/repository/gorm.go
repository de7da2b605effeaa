package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/fondantshop/pkg/config"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageEntry is one stored document row.
type StorageEntry struct {
	Key       string    `gorm:"column:doc_key;primaryKey;type:varchar(191)"`
	Value     string    `gorm:"type:longtext;not null"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}

type GormRepository struct {
	db *gorm.DB
}

func NewMySQLRepository(cfg *config.MySQLConfig) (*GormRepository, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get MySQL pool: %w", err)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return NewGormRepository(db)
}

// NewGormRepository migrates the storage table on db.
func NewGormRepository(db *gorm.DB) (*GormRepository, error) {
	// Auto migrate
	if err := db.AutoMigrate(&StorageEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &GormRepository{db: db}, nil
}

func (g *GormRepository) Get(ctx context.Context, key string) (string, error) {
	var entry StorageEntry
	err := g.db.WithContext(ctx).Where("doc_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (g *GormRepository) Set(ctx context.Context, key, value string) error {
	entry := StorageEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
}

func (g *GormRepository) Del(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("doc_key = ?", key).Delete(&StorageEntry{}).Error
}

func (g *GormRepository) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
