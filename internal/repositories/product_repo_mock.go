package repositories

import (
	"context"
	"sort"
	"sync"

	"catalog/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// FindOne returns the first live product matching filter.
func (r *MockProductRepository) FindOne(_ context.Context, filter ProductFilter) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.find(filter)
	if !ok {
		return nil, ErrNotFound
	}
	return copyProduct(p), nil
}

// FindOneAndUpdate updates the matching live product under the write lock.
func (r *MockProductRepository) FindOneAndUpdate(_ context.Context, filter ProductFilter, update ProductUpdate) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.find(filter)
	if !ok {
		return nil, ErrNotFound
	}

	next := *copyProduct(current)
	applyProductUpdate(&next, update)
	if !next.IsDeleted && r.liveDuplicate(next.Name, next.Brand, next.ID) {
		return nil, ErrDuplicate
	}
	next.UpdatedAt = timeNow()

	r.products[next.ID] = next
	return copyProduct(next), nil
}

// Insert adds a new product, assigning its ID and timestamps.
func (r *MockProductRepository) Insert(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.liveDuplicate(product.Name, product.Brand, "") {
		return ErrDuplicate
	}
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

	r.products[product.ID] = *copyProduct(*product)
	return nil
}

// AggregatePaginated returns one page of live products in creation order.
func (r *MockProductRepository) AggregatePaginated(_ context.Context, query PageQuery) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if p.IsDeleted {
			continue
		}
		if query.Category != "" && (p.Category == nil || *p.Category != query.Category) {
			continue
		}
		if query.Brand != "" && (p.Brand == nil || *p.Brand != query.Brand) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	page := &Page{Items: []models.Product{}, TotalCount: int64(len(matched))}
	for _, p := range matched {
		if len(page.Items) >= query.Limit {
			break
		}
		if query.After != nil && !p.CreatedAt.After(*query.After) {
			continue
		}
		page.Items = append(page.Items, *copyProduct(p))
	}
	return page, nil
}

func (r *MockProductRepository) find(filter ProductFilter) (models.Product, bool) {
	if filter.ID != "" {
		p, ok := r.products[filter.ID]
		if !ok || !matchesProduct(p, filter) {
			return models.Product{}, false
		}
		return p, true
	}
	for _, p := range r.products {
		if matchesProduct(p, filter) {
			return p, true
		}
	}
	return models.Product{}, false
}

func (r *MockProductRepository) liveDuplicate(name string, brand *string, exceptID string) bool {
	for id, p := range r.products {
		if id != exceptID && !p.IsDeleted && p.Name == name && sameBrand(p.Brand, brand) {
			return true
		}
	}
	return false
}

func matchesProduct(p models.Product, filter ProductFilter) bool {
	if p.IsDeleted {
		return false
	}
	if filter.ID != "" && p.ID != filter.ID {
		return false
	}
	if filter.ByNameAndBrand && (p.Name != filter.Name || !sameBrand(p.Brand, filter.Brand)) {
		return false
	}
	return true
}

func copyProduct(p models.Product) *models.Product {
	if p.Tags != nil {
		p.Tags = append([]string{}, p.Tags...)
	}
	p.Category = models.OptionalString(p.Category)
	p.Brand = models.OptionalString(p.Brand)
	return &p
}
