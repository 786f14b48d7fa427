package catalog

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/fulfilld/allocation/internal/domains/allocation/application"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

// ImportCatalogActivityName loads the seed catalog and registers its
// contents with the allocation service.
const ImportCatalogActivityName = "catalog.activities.Import"

// Activities groups activities that operate on the catalog.
type Activities struct {
	importer *application.CatalogImporter
}

// NewActivities wires the catalog importer into the Temporal activities
// bundle.
func NewActivities(importer *application.CatalogImporter) *Activities {
	return &Activities{importer: importer}
}

// ImportCatalog runs one import pass and returns what it changed.
func (a *Activities) ImportCatalog(ctx context.Context) (*ports.CatalogImportResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.importer == nil {
		logger.Error("catalog import activity not initialized")
		return nil, errors.New("catalog import activity not initialized")
	}
	logger.Info("ImportCatalog activity started")
	result, err := a.importer.Run(ctx)
	if err != nil {
		logger.Error("ImportCatalog activity failed", "error", err)
		return nil, err
	}
	logger.Info("ImportCatalog activity completed",
		"productsAdded", result.ProductsAdded,
		"providersRegistered", result.ProvidersRegistered,
		"servicesOffered", result.ServicesOffered)
	return result, nil
}
