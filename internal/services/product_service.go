package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"go.uber.org/zap"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Product event types.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// EventPublisher delivers product events to a broker.
type EventPublisher interface {
	PublishEvent(eventType string, body []byte) error
}

// ProductEvent is the body of every published product event.
type ProductEvent struct {
	Type       string                  `json:"type"`
	ProductID  string                  `json:"productId"`
	Product    *models.ProductResponse `json:"product,omitempty"`
	OccurredAt string                  `json:"occurredAt"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher // nil disables events
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// AddProduct creates a product unless a live one with the same name and
// brand already exists.
func (s *ProductService) AddProduct(ctx context.Context, input models.ProductCreateInput) (*models.ProductResponse, error) {
	if input.Price == nil {
		return nil, NewBadRequestError("price is required")
	}
	brand := models.OptionalString(input.Brand)

	_, err := s.repo.FindOne(ctx, repositories.ProductFilter{Name: input.Name, Brand: brand, ByNameAndBrand: true})
	if err == nil {
		return nil, NewConflictError(MsgProductExists)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to check product uniqueness: %w", err)
	}

	tags := input.Tags
	if tags == nil {
		tags = []string{}
	}
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		Tags:        tags,
		Category:    models.OptionalString(input.Category),
		Brand:       brand,
	}
	if err := s.repo.Insert(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewConflictError(MsgProductExists)
		}
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	resp := models.NewProductResponse(product)
	s.publish(EventProductCreated, product.ID, &resp)
	return &resp, nil
}

// GetProduct returns a live product by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.ProductResponse, error) {
	product, err := s.repo.FindOne(ctx, repositories.ProductFilter{ID: id})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError(MsgProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	resp := models.NewProductResponse(product)
	return &resp, nil
}

// UpdateProduct applies the supplied fields of input to a live product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input models.ProductUpdateInput) (*models.ProductResponse, error) {
	update := repositories.ProductUpdate{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Tags:        input.Tags,
		Category:    input.Category,
		Brand:       input.Brand,
	}

	product, err := s.repo.FindOneAndUpdate(ctx, repositories.ProductFilter{ID: id}, update)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, NewNotFoundError(MsgProductNotFound)
		case errors.Is(err, repositories.ErrDuplicate):
			return nil, NewConflictError(MsgProductExists)
		}
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}

	resp := models.NewProductResponse(product)
	s.publish(EventProductUpdated, product.ID, &resp)
	return &resp, nil
}

// DeleteProduct soft-deletes a live product. Deleting twice fails with
// NotFound.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	deleted := true
	product, err := s.repo.FindOneAndUpdate(ctx, repositories.ProductFilter{ID: id}, repositories.ProductUpdate{IsDeleted: &deleted})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewNotFoundError(MsgProductNotFound)
		}
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	s.publish(EventProductDeleted, product.ID, nil)
	return nil
}

// ListProducts returns one page of live products in creation order.
func (s *ProductService) ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductListResponse, error) {
	limit := params.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		return nil, NewBadRequestError(fmt.Sprintf("limit must be between 1 and %d", MaxListLimit))
	}

	query := repositories.PageQuery{
		Category: params.Category,
		Brand:    params.Brand,
		Limit:    limit + 1,
	}
	if params.Cursor != "" {
		after, err := models.ParseCursor(params.Cursor)
		if err != nil {
			return nil, NewBadRequestError("Invalid cursor")
		}
		query.After = &after
	}

	page, err := s.repo.AggregatePaginated(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result := &models.ProductListResponse{Products: []models.ProductResponse{}}
	if page == nil {
		return result, nil
	}

	items := page.Items
	if len(items) > limit {
		items = items[:limit]
		next := models.FormatTimestamp(items[limit-1].CreatedAt)
		result.NextCursor = &next
	}
	for i := range items {
		result.Products = append(result.Products, models.NewProductResponse(&items[i]))
	}
	result.Total = page.TotalCount
	return result, nil
}

// publish is best effort: a broker failure never fails the request.
func (s *ProductService) publish(eventType, productID string, product *models.ProductResponse) {
	if s.publisher == nil {
		return
	}

	body, err := json.Marshal(ProductEvent{
		Type:       eventType,
		ProductID:  productID,
		Product:    product,
		OccurredAt: models.FormatTimestamp(time.Now()),
	})
	if err != nil {
		zap.L().Error("Failed to marshal product event", zap.String("type", eventType), zap.Error(err))
		return
	}
	if err := s.publisher.PublishEvent(eventType, body); err != nil {
		zap.L().Warn("Failed to publish product event",
			zap.String("type", eventType),
			zap.String("product_id", productID),
			zap.Error(err),
		)
	}
}
