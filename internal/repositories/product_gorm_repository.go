package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"catalog/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// liveProductIndex keeps (name, brand) unique among live products. Missing
// brands are folded to '' so that they collide with each other.
const liveProductIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_products_live_name_brand
	ON products (name, COALESCE(brand, '')) WHERE is_deleted = false`

// GORMConfig returns the gorm settings the repositories rely on: unique
// violations translated to gorm.ErrDuplicatedKey and millisecond timestamps.
func GORMConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		NowFunc:        timeNow,
	}
}

// MigrateGORM creates or updates the product and user tables and their indexes.
func MigrateGORM(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}, &models.User{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	if err := db.Exec(liveProductIndex).Error; err != nil {
		return fmt.Errorf("failed to create product uniqueness index: %w", err)
	}
	return nil
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// FindOne retrieves the first live product matching filter.
func (r *GORMProductRepository) FindOne(ctx context.Context, filter ProductFilter) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Scopes(productFilterScope(filter)).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindOneAndUpdate updates the matching live product inside a transaction.
// The UPDATE re-checks is_deleted so a concurrent soft delete wins cleanly.
func (r *GORMProductRepository) FindOneAndUpdate(ctx context.Context, filter ProductFilter, update ProductUpdate) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Product
		if err := tx.Scopes(productFilterScope(filter)).First(&current).Error; err != nil {
			return err
		}

		next := current
		columns := append(applyProductUpdate(&next, update), "updated_at")
		res := tx.Model(&current).Where("is_deleted = ?", false).Select(columns).Updates(&next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.First(&product, "id = ?", current.ID).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrNotFound
		case isDuplicateKey(err):
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// Insert creates a new product row.
func (r *GORMProductRepository) Insert(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Tags == nil {
		product.Tags = []string{}
	}
	product.Category = models.OptionalString(product.Category)
	product.Brand = models.OptionalString(product.Brand)
	product.IsDeleted = false
	product.CreatedAt = timeNow()
	product.UpdatedAt = product.CreatedAt

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// AggregatePaginated counts the filtered set and fetches one page of it.
func (r *GORMProductRepository) AggregatePaginated(ctx context.Context, query PageQuery) (*Page, error) {
	page := &Page{Items: []models.Product{}}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Scopes(pageScope(query)).Count(&page.TotalCount).Error; err != nil {
			return err
		}

		q := tx.Scopes(pageScope(query))
		if query.After != nil {
			q = q.Where("created_at > ?", query.After.UTC())
		}
		return q.Order("created_at ASC").Order("id ASC").Limit(query.Limit).Find(&page.Items).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return page, nil
}

func productFilterScope(filter ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_deleted = ?", false)
		if filter.ID != "" {
			db = db.Where("id = ?", filter.ID)
		}
		if filter.ByNameAndBrand {
			db = db.Where("name = ?", filter.Name)
			if brand := models.OptionalString(filter.Brand); brand != nil {
				db = db.Where("brand = ?", *brand)
			} else {
				db = db.Where("brand IS NULL")
			}
		}
		return db
	}
}

func pageScope(query PageQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("is_deleted = ?", false)
		if query.Category != "" {
			db = db.Where("category = ?", query.Category)
		}
		if query.Brand != "" {
			db = db.Where("brand = ?", query.Brand)
		}
		return db
	}
}

// isDuplicateKey recognises unique violations whether or not the dialector
// translated them to gorm.ErrDuplicatedKey.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
