package storage

import (
	"context"
	"fmt"
	"testing"

	"catalog/internal/config"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	store, err := Open(context.Background(), &config.Config{StorageDriver: config.DriverMemory})
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &repositories.MockProductRepository{}, store.Products)
	assert.IsType(t, &repositories.MockUserRepository{}, store.Users)
}

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		StorageDriver: config.DriverSQLite,
		DatabaseDSN:   fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}

	store, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer store.Close()

	brand := "BrandA"
	first := &models.Product{Name: "Desk", Description: "Oak desk", Price: 120, Brand: &brand}
	require.NoError(t, store.Products.Insert(ctx, first))

	// The partial unique index is in place.
	second := &models.Product{Name: "Desk", Description: "Pine desk", Price: 90, Brand: &brand}
	assert.ErrorIs(t, store.Products.Insert(ctx, second), repositories.ErrDuplicate)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StorageDriver: "cassandra"})
	assert.EqualError(t, err, `unknown storage driver "cassandra"`)
}
