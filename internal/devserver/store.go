package devserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/interiorhaus/catalog-admin/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ProductRecord is the stand-in server's persisted product row.
type ProductRecord struct {
	ID          string          `gorm:"primaryKey"`
	ProductName string          `gorm:"not null"`
	PriceNew    decimal.Decimal `gorm:"type:text;not null"`
	Brand       string          `gorm:"not null"`
	Category    string          `gorm:"not null"`
	Description string
	ImageURL    string
	VideoURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName keeps the table name stable regardless of pluralization rules.
func (ProductRecord) TableName() string {
	return "products"
}

// Store wraps the sqlite-backed GORM connection for the dev stand-in.
type Store struct {
	conn *gorm.DB
}

// NewStore opens (and migrates) the sqlite database at path. The dev
// stand-in owns its schema outright, so AutoMigrate is the whole story.
func NewStore(ctx context.Context, path string, logg *logger.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	silent := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 silent,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&ProductRecord{}); err != nil {
		return nil, fmt.Errorf("migrating products table: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "dev catalog store ready")
	}
	return &Store{conn: conn}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// List returns every product, oldest first.
func (s *Store) List(ctx context.Context) ([]ProductRecord, error) {
	var records []ProductRecord
	if err := s.conn.WithContext(ctx).Order("created_at asc").Find(&records).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return records, nil
}

// Get fetches one product by id.
func (s *Store) Get(ctx context.Context, id string) (*ProductRecord, error) {
	var record ProductRecord
	err := s.conn.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "fetching product")
	}
	return &record, nil
}

// Create inserts a new product with a fresh id.
func (s *Store) Create(ctx context.Context, record ProductRecord) (*ProductRecord, error) {
	record.ID = uuid.NewString()
	if err := s.conn.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return &record, nil
}

// Update replaces the mutable fields of an existing product.
func (s *Store) Update(ctx context.Context, id string, record ProductRecord) (*ProductRecord, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.ProductName = record.ProductName
	existing.PriceNew = record.PriceNew
	existing.Brand = record.Brand
	existing.Category = record.Category
	existing.Description = record.Description
	existing.ImageURL = record.ImageURL
	existing.VideoURL = record.VideoURL

	if err := s.conn.WithContext(ctx).Save(existing).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return existing, nil
}

// Delete removes a product by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	result := s.conn.WithContext(ctx).Delete(&ProductRecord{}, "id = ?", id)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "deleting product")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
