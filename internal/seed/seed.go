// Package seed loads demo data into an empty store.
package seed

import (
	"context"
	"errors"
	"fmt"

	"catalog/internal/models"
	"catalog/internal/repositories"

	"go.uber.org/zap"
)

const (
	DemoEmail    = "testuser@example.com"
	DemoPassword = "TestPassword123"
	ProductCount = 20
)

var (
	categories = []string{"Electronics", "Books", "Clothing", "Home", "Toys"}
	brands     = []string{"BrandA", "BrandB", "BrandC", "BrandD", "BrandE"}
	labels     = []string{"new", "sale", "popular", "featured"}
)

// Result counts what a run inserted.
type Result struct {
	Users    int
	Products int
}

// DemoProducts returns the catalogue inserted by Run.
func DemoProducts() []models.Product {
	products := make([]models.Product, 0, ProductCount)
	for i := 1; i <= ProductCount; i++ {
		category := categories[(i-1)%len(categories)]
		brand := brands[(i*3)%len(brands)]
		products = append(products, models.Product{
			Name:        fmt.Sprintf("Product %d", i),
			Description: fmt.Sprintf("Description for product %d", i),
			Price:       float64(10 + (i*37)%491),
			Tags:        []string{fmt.Sprintf("tag%d", i), labels[i%len(labels)]},
			Category:    &category,
			Brand:       &brand,
		})
	}
	return products
}

// Run inserts the demo user and products. Records that already exist are
// skipped, so running it again is harmless.
func Run(ctx context.Context, products repositories.ProductRepository, users repositories.UserRepository) (Result, error) {
	var result Result

	user := &models.User{Email: DemoEmail, Password: DemoPassword}
	switch err := users.Create(ctx, user); {
	case err == nil:
		result.Users++
	case errors.Is(err, repositories.ErrDuplicate):
	default:
		return result, fmt.Errorf("failed to seed user %s: %w", DemoEmail, err)
	}

	for _, product := range DemoProducts() {
		switch err := products.Insert(ctx, &product); {
		case err == nil:
			result.Products++
		case errors.Is(err, repositories.ErrDuplicate):
		default:
			return result, fmt.Errorf("failed to seed product %s: %w", product.Name, err)
		}
	}

	zap.L().Info("Seeded demo data",
		zap.Int("users", result.Users),
		zap.Int("products", result.Products),
	)
	return result, nil
}
