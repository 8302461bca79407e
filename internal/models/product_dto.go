package models

import (
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for timestamps and list cursors.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ProductCreateInput is the payload accepted when adding a product.
type ProductCreateInput struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Description string   `json:"description" validate:"required,max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Tags        []string `json:"tags"`
	Category    *string  `json:"category" validate:"omitnil,max=255"`
	Brand       *string  `json:"brand" validate:"omitnil,max=255"`
}

// ProductUpdateInput carries a partial update; nil fields are left untouched.
type ProductUpdateInput struct {
	Name        *string   `json:"name" validate:"omitnil,min=1,max=255"`
	Description *string   `json:"description" validate:"omitnil,min=1,max=2000"`
	Price       *float64  `json:"price" validate:"omitnil,gte=0"`
	Tags        *[]string `json:"tags"`
	Category    *string   `json:"category" validate:"omitnil,max=255"`
	Brand       *string   `json:"brand" validate:"omitnil,max=255"`
}

// ProductListParams holds the list query. Zero values mean "not supplied".
type ProductListParams struct {
	Limit    int
	Cursor   string
	Category string
	Brand    string
}

// ProductResponse is the public projection of a Product.
type ProductResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Tags        []string `json:"tags"`
	Category    *string  `json:"category,omitempty"`
	Brand       *string  `json:"brand,omitempty"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// ProductListResponse is one page of products.
type ProductListResponse struct {
	Products   []ProductResponse `json:"products"`
	NextCursor *string           `json:"nextCursor,omitempty"`
	Total      int64             `json:"total"`
}

// NewProductResponse projects p to its response shape.
func NewProductResponse(p *Product) ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Tags:        tags,
		Category:    OptionalString(p.Category),
		Brand:       OptionalString(p.Brand),
		CreatedAt:   FormatTimestamp(p.CreatedAt),
		UpdatedAt:   FormatTimestamp(p.UpdatedAt),
	}
}

// FormatTimestamp renders t in UTC with millisecond precision.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseCursor decodes a list cursor back into the creation time it encodes.
func ParseCursor(cursor string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, cursor)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cursor %q: %w", cursor, err)
	}
	return t.UTC(), nil
}
