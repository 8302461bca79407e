package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"catalog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProductResponse(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 30, 0, 123_000_000, time.UTC)
	empty := ""
	product := &models.Product{
		ID:          "p-1",
		Name:        "Laptop",
		Description: "Fast",
		Price:       10,
		Category:    &empty,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Second),
	}

	resp := models.NewProductResponse(product)
	assert.Equal(t, []string{}, resp.Tags)
	assert.Nil(t, resp.Category)
	assert.Nil(t, resp.Brand)
	assert.Equal(t, "2024-03-01T10:30:00.123Z", resp.CreatedAt)
	assert.Equal(t, "2024-03-01T10:30:01.123Z", resp.UpdatedAt)

	body, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "category")
	assert.NotContains(t, string(body), "brand")
	assert.Contains(t, string(body), `"tags":[]`)
}

func TestParseCursor(t *testing.T) {
	ts := time.Date(2024, 3, 1, 10, 30, 0, 123_000_000, time.UTC)

	parsed, err := models.ParseCursor(models.FormatTimestamp(ts))
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	_, err = models.ParseCursor("yesterday")
	assert.Error(t, err)
}
