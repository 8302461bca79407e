package repositories_test

import (
	"fmt"
	"testing"

	"catalog/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newSQLiteDB opens a private in-memory database with the tables migrated.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), repositories.GORMConfig())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repositories.MigrateGORM(db))
	return db
}

func TestGORMProductRepository(t *testing.T) {
	restore := repositories.SetTimeNow(steppingClock())
	defer restore()

	runProductRepositoryContract(t, func(t *testing.T) (repositories.ProductRepository, string) {
		return repositories.NewGORMProductRepository(newSQLiteDB(t)), uuid.NewString()
	})
}

func TestGORMUserRepository(t *testing.T) {
	runUserRepositoryContract(t, func(t *testing.T) repositories.UserRepository {
		return repositories.NewGORMUserRepository(newSQLiteDB(t))
	})
}
