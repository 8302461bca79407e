package seed_test

import (
	"context"
	"fmt"
	"testing"

	"catalog/internal/config"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/seed"
	"catalog/internal/services"
	"catalog/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	ctx := context.Background()
	products := repositories.NewMockProductRepository()
	users := repositories.NewMockUserRepository()

	result, err := seed.Run(ctx, products, users)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{Users: 1, Products: seed.ProductCount}, result)

	user, err := users.GetByEmail(ctx, seed.DemoEmail)
	require.NoError(t, err)
	assert.True(t, user.ValidPassword(seed.DemoPassword))

	page, err := products.AggregatePaginated(ctx, repositories.PageQuery{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, int64(seed.ProductCount), page.TotalCount)

	// A second run inserts nothing.
	result, err = seed.Run(ctx, products, users)
	require.NoError(t, err)
	assert.Equal(t, seed.Result{}, result)
}

// Seeding inserts in a tight loop, so many products land in the same
// millisecond. Walking one product per page must still visit every one.
func TestRun_SQLitePagesVisitEveryProduct(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx, &config.Config{
		StorageDriver: config.DriverSQLite,
		DatabaseDSN:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	defer store.Close()

	_, err = seed.Run(ctx, store.Products, store.Users)
	require.NoError(t, err)

	svc := services.NewProductService(store.Products, nil)
	seen := map[string]bool{}
	params := models.ProductListParams{Limit: 1}
	for i := 0; i <= seed.ProductCount; i++ {
		page, err := svc.ListProducts(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, int64(seed.ProductCount), page.Total)
		for _, p := range page.Products {
			assert.False(t, seen[p.ID], "product %s listed twice", p.ID)
			seen[p.ID] = true
		}
		if page.NextCursor == nil {
			break
		}
		params.Cursor = *page.NextCursor
	}
	assert.Len(t, seen, seed.ProductCount)
}

func TestDemoProducts(t *testing.T) {
	products := seed.DemoProducts()
	require.Len(t, products, seed.ProductCount)

	categories := map[string]bool{}
	seen := map[string]bool{}
	for _, p := range products {
		require.NotNil(t, p.Category)
		require.NotNil(t, p.Brand)
		categories[*p.Category] = true
		key := p.Name + "|" + *p.Brand
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
		assert.GreaterOrEqual(t, p.Price, 10.0)
		assert.LessOrEqual(t, p.Price, 500.0)
		assert.Len(t, p.Tags, 2)
	}
	assert.Len(t, categories, 5)
}
