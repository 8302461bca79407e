package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"catalog/internal/models"
)

var (
	// ErrNotFound is returned when no live record matches a filter.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// ProductFilter selects live (not soft-deleted) products. Zero-valued fields
// are ignored. When ByNameAndBrand is set, Name and Brand must both match and
// a nil Brand matches products that have no brand.
type ProductFilter struct {
	ID             string
	Name           string
	Brand          *string
	ByNameAndBrand bool
}

// ProductUpdate lists the fields to set. Nil fields are left untouched; a
// non-nil empty Category or Brand clears the field.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Tags        *[]string
	Category    *string
	Brand       *string
	IsDeleted   *bool
}

// PageQuery describes one keyset page over live products ordered by creation
// time. Limit is the number of items to fetch.
type PageQuery struct {
	Category string
	Brand    string
	After    *time.Time
	Limit    int
}

// Page is the result of AggregatePaginated. TotalCount counts every live
// product matching Category and Brand, regardless of After and Limit.
type Page struct {
	Items      []models.Product
	TotalCount int64
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	FindOne(ctx context.Context, filter ProductFilter) (*models.Product, error)
	// FindOneAndUpdate applies update to the matching product atomically and
	// returns the updated record.
	FindOneAndUpdate(ctx context.Context, filter ProductFilter, update ProductUpdate) (*models.Product, error)
	Insert(ctx context.Context, product *models.Product) error
	// AggregatePaginated may return a nil page when storage yields no result.
	AggregatePaginated(ctx context.Context, query PageQuery) (*Page, error)
}

var (
	clock = time.Now

	stampMu   sync.Mutex
	lastStamp time.Time
)

// timeNow returns the current UTC time at the millisecond precision every
// engine stores. Successive calls in one process never return the same
// instant, so creation times never tie on the pagination keyset.
func timeNow() time.Time {
	stampMu.Lock()
	defer stampMu.Unlock()

	t := clock().UTC().Truncate(time.Millisecond)
	if !t.After(lastStamp) {
		t = lastStamp.Add(time.Millisecond)
	}
	lastStamp = t
	return t
}

func sameBrand(a, b *string) bool {
	a, b = models.OptionalString(a), models.OptionalString(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// applyProductUpdate copies the supplied fields of update onto p and returns
// the column names that changed.
func applyProductUpdate(p *models.Product, update ProductUpdate) []string {
	var columns []string
	if update.Name != nil {
		p.Name = *update.Name
		columns = append(columns, "name")
	}
	if update.Description != nil {
		p.Description = *update.Description
		columns = append(columns, "description")
	}
	if update.Price != nil {
		p.Price = *update.Price
		columns = append(columns, "price")
	}
	if update.Tags != nil {
		p.Tags = append([]string{}, (*update.Tags)...)
		columns = append(columns, "tags")
	}
	if update.Category != nil {
		p.Category = models.OptionalString(update.Category)
		columns = append(columns, "category")
	}
	if update.Brand != nil {
		p.Brand = models.OptionalString(update.Brand)
		columns = append(columns, "brand")
	}
	if update.IsDeleted != nil {
		p.IsDeleted = *update.IsDeleted
		columns = append(columns, "is_deleted")
	}
	return columns
}
