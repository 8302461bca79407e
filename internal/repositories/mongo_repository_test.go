package repositories_test

import (
	"context"
	"os"
	"testing"
	"time"

	"catalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// newMongoDB connects to MONGO_TEST_URI and returns a throwaway database.
func newMongoDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("catalog_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestMongoProductRepository(t *testing.T) {
	restore := repositories.SetTimeNow(steppingClock())
	defer restore()

	runProductRepositoryContract(t, func(t *testing.T) (repositories.ProductRepository, string) {
		repo := repositories.NewMongoProductRepository(newMongoDB(t))
		require.NoError(t, repo.EnsureIndexes(context.Background()))
		return repo, primitive.NewObjectID().Hex()
	})
}

func TestMongoUserRepository(t *testing.T) {
	runUserRepositoryContract(t, func(t *testing.T) repositories.UserRepository {
		repo := repositories.NewMongoUserRepository(newMongoDB(t))
		require.NoError(t, repo.EnsureIndexes(context.Background()))
		return repo
	})
}
