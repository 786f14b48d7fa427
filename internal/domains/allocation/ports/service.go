package ports

import (
	"context"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
)

// Service exposes the allocation use cases to adapters.
type Service interface {
	// PlaceOrder validates the whole order against stock and provider
	// capacity and, only if every line is satisfiable, commits it:
	// decrementing stock (restocking first where allowed), assigning
	// providers, and marking the order completed. A rejected order leaves
	// all state untouched.
	PlaceOrder(ctx context.Context, order *domain.Order) error

	// AddNewProducts registers each product at the default stock level,
	// silently skipping discontinued and already-registered numbers, and
	// returns the products actually added.
	AddNewProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error)

	// RegisterProvider adds a provider and the services it offers.
	RegisterProvider(ctx context.Context, provider *domain.Provider) error

	// DiscontinueItem permanently stops selling the item: a service is
	// removed from the offered set, a product stays sellable down to zero
	// but is never restocked.
	DiscontinueItem(ctx context.Context, item domain.Item) error

	// SetRestockTarget replaces a product's restock target, returning the
	// previous one.
	SetRestockTarget(ctx context.Context, productNumber, newTarget int) (int, error)

	ProductCatalog(ctx context.Context) ([]domain.Product, error)
	ProductStock(ctx context.Context, productNumber int) (int, error)
	OfferedServices(ctx context.Context) ([]domain.Service, error)
	Providers(ctx context.Context) ([]domain.ProviderSnapshot, error)
}
