package ports

import (
	"context"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
)

// CatalogSeed is the startup catalog: the products to stock and the
// providers (with their services) that make up the labor arm.
type CatalogSeed struct {
	Products  []domain.Product
	Providers []*domain.Provider
}

// CatalogSource loads the seed catalog from an external definition store.
type CatalogSource interface {
	Load(ctx context.Context) (*CatalogSeed, error)
}

// CatalogImportResult reports what an import run actually changed.
type CatalogImportResult struct {
	ProductsAdded       int
	ProvidersRegistered int
	ServicesOffered     int
}

// CatalogOrchestrator runs the seed-and-register flow, either inline or as
// a durable workflow.
type CatalogOrchestrator interface {
	ImportCatalog(ctx context.Context) (*CatalogImportResult, error)
}
