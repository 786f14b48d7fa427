//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	allocpostgres "github.com/fulfilld/allocation/internal/domains/allocation/adapters/persistence/postgres"
	"github.com/fulfilld/allocation/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("allocation_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func TestPostgresCatalogSource_Load(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	require.NoError(t, db.Exec(
		`INSERT INTO catalog_products (item_number, name, price) VALUES (1, 'desk lamp', 10), (2, 'office chair', 45)`,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO catalog_services (item_number, description, hourly_rate, hours) VALUES (20, 'assembly', 15, 2), (21, 'mounting', 20, 2)`,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO catalog_providers (id, name, service_numbers) VALUES (9, 'north crew', ?)`,
		pq.Int64Array{20, 21},
	).Error)

	source := allocpostgres.NewCatalogSource(db)
	seed, err := source.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, seed.Products, 2)
	assert.Equal(t, 1, seed.Products[0].ItemNumber())
	assert.Equal(t, "desk lamp", seed.Products[0].Description())
	assert.Equal(t, 10.0, seed.Products[0].Price())

	require.Len(t, seed.Providers, 1)
	provider := seed.Providers[0]
	assert.Equal(t, 9, provider.ID())
	assert.Equal(t, "north crew", provider.Name())
	assert.Len(t, provider.Services(), 2)
	assert.Equal(t, 30.0, provider.Services()[0].Price())
}

func TestPostgresCatalogSource_SkipsUndefinedServiceNumbers(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	require.NoError(t, db.Exec(
		`INSERT INTO catalog_services (item_number, description, hourly_rate, hours) VALUES (20, 'assembly', 15, 2)`,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO catalog_providers (id, name, service_numbers) VALUES (9, 'north crew', ?)`,
		pq.Int64Array{20, 99},
	).Error)

	source := allocpostgres.NewCatalogSource(db)
	seed, err := source.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, seed.Providers, 1)
	assert.Len(t, seed.Providers[0].Services(), 1)
	assert.Equal(t, 20, seed.Providers[0].Services()[0].ItemNumber())
}

func TestPostgresCatalogSource_EmptyCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	source := allocpostgres.NewCatalogSource(db)
	seed, err := source.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seed.Products)
	assert.Empty(t, seed.Providers)
}
