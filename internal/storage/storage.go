// Package storage opens the configured storage engine and hands out its
// repositories.
package storage

import (
	"context"
	"fmt"
	"time"

	"catalog/internal/config"
	"catalog/internal/repositories"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	connectTimeout    = 10 * time.Second
	disconnectTimeout = 5 * time.Second
)

// Store bundles the repositories of one storage engine.
type Store struct {
	Products repositories.ProductRepository
	Users    repositories.UserRepository

	close func() error
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// Open connects to the engine named by cfg.StorageDriver and makes sure the
// uniqueness indexes exist before any request is served.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMongo:
		return openMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.DriverPostgres:
		return openGORM(postgres.Open(cfg.DatabaseDSN))
	case config.DriverSQLite:
		return openGORM(sqlite.Open(cfg.DatabaseDSN))
	case config.DriverMemory:
		zap.L().Warn("Using in-memory storage; data is lost on restart")
		return &Store{
			Products: repositories.NewMockProductRepository(),
			Users:    repositories.NewMockUserRepository(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func openMongo(ctx context.Context, uri, dbName string) (*Store, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(timeoutCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	disconnect := func() error {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
		}
		return nil
	}

	if err := client.Ping(timeoutCtx, nil); err != nil {
		_ = disconnect()
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	products := repositories.NewMongoProductRepository(db)
	users := repositories.NewMongoUserRepository(db)
	if err := products.EnsureIndexes(timeoutCtx); err != nil {
		_ = disconnect()
		return nil, err
	}
	if err := users.EnsureIndexes(timeoutCtx); err != nil {
		_ = disconnect()
		return nil, err
	}

	zap.L().Info("Connected to MongoDB", zap.String("database", dbName))
	return &Store{Products: products, Users: users, close: disconnect}, nil
}

func openGORM(dialector gorm.Dialector) (*Store, error) {
	db, err := gorm.Open(dialector, repositories.GORMConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialector.Name(), err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s connection pool: %w", dialector.Name(), err)
	}
	if dialector.Name() == "sqlite" {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := repositories.MigrateGORM(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	zap.L().Info("Connected to SQL database", zap.String("dialect", dialector.Name()))
	return &Store{
		Products: repositories.NewGORMProductRepository(db),
		Users:    repositories.NewGORMUserRepository(db),
		close:    sqlDB.Close,
	}, nil
}
