package memory

import (
	"context"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

var _ ports.CatalogSource = (*CatalogSource)(nil)

// CatalogSource serves a fixed seed catalog, used when no external
// definition store is configured and in tests.
type CatalogSource struct {
	seed ports.CatalogSeed
}

func NewCatalogSource(seed ports.CatalogSeed) *CatalogSource {
	return &CatalogSource{seed: seed}
}

func (s *CatalogSource) Load(_ context.Context) (*ports.CatalogSeed, error) {
	seed := ports.CatalogSeed{
		Products:  append([]domain.Product(nil), s.seed.Products...),
		Providers: append([]*domain.Provider(nil), s.seed.Providers...),
	}
	return &seed, nil
}
