package application

import (
	"context"
	"errors"

	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

// CatalogImporter runs the seed-and-register flow: products are stocked at
// the default level and providers are registered with the services they
// offer. Both the inline orchestrator and the Temporal activity delegate
// here so the two paths cannot drift.
type CatalogImporter struct {
	source  ports.CatalogSource
	service ports.Service
}

func NewCatalogImporter(source ports.CatalogSource, service ports.Service) *CatalogImporter {
	return &CatalogImporter{source: source, service: service}
}

// Run loads the seed catalog and registers its contents, skipping products
// and providers that are already present.
func (i *CatalogImporter) Run(ctx context.Context) (*ports.CatalogImportResult, error) {
	if i == nil || i.source == nil || i.service == nil {
		return nil, errors.New("catalog importer not configured")
	}
	seed, err := i.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	added, err := i.service.AddNewProducts(ctx, seed.Products)
	if err != nil {
		return nil, err
	}
	registered := 0
	for _, provider := range seed.Providers {
		err := i.service.RegisterProvider(ctx, provider)
		if errors.Is(err, ports.ErrProviderRegistered) {
			continue
		}
		if err != nil {
			return nil, err
		}
		registered++
	}
	offered, err := i.service.OfferedServices(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.CatalogImportResult{
		ProductsAdded:       len(added),
		ProvidersRegistered: registered,
		ServicesOffered:     len(offered),
	}, nil
}
