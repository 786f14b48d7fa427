package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fulfilld/allocation/internal/domains/allocation/adapters/memory"
	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
)

type fixture struct {
	discontinued *memory.DiscontinuationLedger
	stock        *memory.StockLedger
	providers    *memory.ProviderRegistry
	service      *Service
}

func newFixture(defaultStockLevel int) *fixture {
	discontinued := memory.NewDiscontinuationLedger()
	stock := memory.NewStockLedger(discontinued)
	providers := memory.NewProviderRegistry(discontinued)
	return &fixture{
		discontinued: discontinued,
		stock:        stock,
		providers:    providers,
		service:      NewService(stock, providers, discontinued, defaultStockLevel),
	}
}

func mustProduct(t *testing.T, number int, name string, price float64) domain.Product {
	t.Helper()
	product, err := domain.NewProduct(number, name, price)
	require.NoError(t, err)
	return product
}

func mustService(t *testing.T, number int, description string, rate float64, hours int) domain.Service {
	t.Helper()
	service, err := domain.NewService(number, description, rate, hours)
	require.NoError(t, err)
	return service
}

func mustProvider(t *testing.T, id int, name string, services ...domain.Service) *domain.Provider {
	t.Helper()
	provider, err := domain.NewProvider(id, name, services)
	require.NoError(t, err)
	return provider
}

func newOrder(t *testing.T, lines ...domain.Line) *domain.Order {
	t.Helper()
	order := domain.NewOrder()
	for _, line := range lines {
		require.NoError(t, order.AddItem(line.Item, line.Quantity))
	}
	return order
}

func stockLevel(t *testing.T, f *fixture, number int) int {
	t.Helper()
	level, err := f.service.ProductStock(context.Background(), number)
	require.NoError(t, err)
	return level
}

func providerByID(t *testing.T, f *fixture, id int) domain.ProviderSnapshot {
	t.Helper()
	providers, err := f.service.Providers(context.Background())
	require.NoError(t, err)
	for _, snapshot := range providers {
		if snapshot.ID == id {
			return snapshot
		}
	}
	t.Fatalf("provider %d not registered", id)
	return domain.ProviderSnapshot{}
}

func TestPlaceOrder_NilOrder(t *testing.T) {
	f := newFixture(5)
	require.ErrorIs(t, f.service.PlaceOrder(context.Background(), nil), ErrNilOrder)
}

func TestPlaceOrder_FulfillsFromStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)

	order := newOrder(t, domain.Line{Item: lamp, Quantity: 3})
	require.NoError(t, f.service.PlaceOrder(ctx, order))

	require.True(t, order.Completed())
	require.Equal(t, 2, stockLevel(t, f, 1))
}

func TestPlaceOrder_RestocksToTargetBeforeFulfilling(t *testing.T) {
	ctx := context.Background()
	f := newFixture(10)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	require.NoError(t, f.stock.Fulfill(ctx, 1, 8))
	require.Equal(t, 2, stockLevel(t, f, 1))

	order := newOrder(t, domain.Line{Item: lamp, Quantity: 5})
	require.NoError(t, f.service.PlaceOrder(ctx, order))

	// Restocked from 2 up to the target of 10, then fulfilled 5.
	require.Equal(t, 5, stockLevel(t, f, 1))
	require.True(t, order.Completed())
}

func TestPlaceOrder_DiscontinuedProductIsNotRestocked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(1)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	require.NoError(t, f.service.DiscontinueItem(ctx, lamp))

	order := newOrder(t, domain.Line{Item: lamp, Quantity: 3})
	err = f.service.PlaceOrder(ctx, order)

	var unavailable *ProductUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, 1, unavailable.ItemNumber)
	require.True(t, IsRejection(err))
	require.False(t, order.Completed())
	require.Equal(t, 1, stockLevel(t, f, 1))
}

func TestPlaceOrder_RemainingDiscontinuedStockStaysSellable(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	require.NoError(t, f.service.DiscontinueItem(ctx, lamp))

	order := newOrder(t, domain.Line{Item: lamp, Quantity: 5})
	require.NoError(t, f.service.PlaceOrder(ctx, order))
	require.Equal(t, 0, stockLevel(t, f, 1))
}

func TestPlaceOrder_ServiceWithoutProvidersRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	mounting := mustService(t, 21, "mounting", 20, 2)

	order := newOrder(t, domain.Line{Item: mounting, Quantity: 1})
	err := f.service.PlaceOrder(ctx, order)

	var unavailable *ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.Equal(t, 21, unavailable.ItemNumber)
	require.False(t, order.Completed())
}

func TestPlaceOrder_AssignsIdleProvider(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	mounting := mustService(t, 21, "mounting", 20, 2)
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew", mounting)))

	order := newOrder(t, domain.Line{Item: mounting, Quantity: 1})
	require.NoError(t, f.service.PlaceOrder(ctx, order))

	require.True(t, order.Completed())
	require.True(t, providerByID(t, f, 9).Busy)
}

func TestPlaceOrder_QuantityNeedsThatManyProviders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	assembly := mustService(t, 20, "assembly", 15, 2)
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew", assembly)))
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 10, "south crew", assembly)))

	rejected := newOrder(t, domain.Line{Item: assembly, Quantity: 3})
	err := f.service.PlaceOrder(ctx, rejected)
	var unavailable *ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)

	accepted := newOrder(t, domain.Line{Item: assembly, Quantity: 2})
	require.NoError(t, f.service.PlaceOrder(ctx, accepted))
	require.True(t, providerByID(t, f, 9).Busy)
	require.True(t, providerByID(t, f, 10).Busy)
}

func TestPlaceOrder_ProviderNotSharedAcrossServicesInOneOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	assembly := mustService(t, 20, "assembly", 15, 2)
	mounting := mustService(t, 21, "mounting", 20, 2)
	// One provider able to perform both: an order needing both must fail.
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew", assembly, mounting)))

	order := newOrder(t,
		domain.Line{Item: assembly, Quantity: 1},
		domain.Line{Item: mounting, Quantity: 1},
	)
	err := f.service.PlaceOrder(ctx, order)

	var unavailable *ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.False(t, order.Completed())
	require.False(t, providerByID(t, f, 9).Busy)
}

func TestPlaceOrder_RejectionLeavesNoPartialState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(10)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	require.NoError(t, f.stock.Fulfill(ctx, 1, 8))
	mounting := mustService(t, 21, "mounting", 20, 2)
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew", mounting)))
	require.NoError(t, f.providers.Assign(ctx, 9))

	// The product line alone would pass, with a restock; the busy provider
	// sinks the whole order before any stock moves.
	order := newOrder(t,
		domain.Line{Item: lamp, Quantity: 5},
		domain.Line{Item: mounting, Quantity: 1},
	)
	err = f.service.PlaceOrder(ctx, order)

	var unavailable *ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)
	require.False(t, order.Completed())
	require.Equal(t, 2, stockLevel(t, f, 1))
	require.Equal(t, 0, providerByID(t, f, 9).Cycle)
}

func TestPlaceOrder_BusyProviderReleasedAfterFourRounds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(100)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	mounting := mustService(t, 21, "mounting", 20, 2)
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew", mounting)))

	// The assigning order itself counts as the provider's first round.
	require.NoError(t, f.service.PlaceOrder(ctx, newOrder(t, domain.Line{Item: mounting, Quantity: 1})))
	require.True(t, providerByID(t, f, 9).Busy)
	require.Equal(t, 1, providerByID(t, f, 9).Cycle)

	for round := 2; round <= 3; round++ {
		require.NoError(t, f.service.PlaceOrder(ctx, newOrder(t, domain.Line{Item: lamp, Quantity: 1})))
		require.True(t, providerByID(t, f, 9).Busy)
		require.Equal(t, round, providerByID(t, f, 9).Cycle)
	}

	// A repeat engagement is rejected while the provider is busy.
	err = f.service.PlaceOrder(ctx, newOrder(t, domain.Line{Item: mounting, Quantity: 1}))
	var unavailable *ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)

	require.NoError(t, f.service.PlaceOrder(ctx, newOrder(t, domain.Line{Item: lamp, Quantity: 1})))
	require.False(t, providerByID(t, f, 9).Busy)
	require.Equal(t, 0, providerByID(t, f, 9).Cycle)

	// Released, the provider can take the next engagement.
	require.NoError(t, f.service.PlaceOrder(ctx, newOrder(t, domain.Line{Item: mounting, Quantity: 1})))
	require.True(t, providerByID(t, f, 9).Busy)
}

func TestPlaceOrder_ResubmittedCompletedOrderLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(10)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	mounting := mustService(t, 21, "mounting", 20, 2)
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew", mounting)))
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 10, "south crew", mounting)))

	order := newOrder(t,
		domain.Line{Item: lamp, Quantity: 3},
		domain.Line{Item: mounting, Quantity: 1},
	)
	require.NoError(t, f.service.PlaceOrder(ctx, order))
	require.Equal(t, 7, stockLevel(t, f, 1))

	require.ErrorIs(t, f.service.PlaceOrder(ctx, order), domain.ErrAlreadyCompleted)
	require.Equal(t, 7, stockLevel(t, f, 1))
	busy := 0
	for _, id := range []int{9, 10} {
		if providerByID(t, f, id).Busy {
			busy++
		}
	}
	require.Equal(t, 1, busy)
}

func TestPlaceOrder_UnrelatedOrdersDecayBusyProviders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(100)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew")))
	require.NoError(t, f.providers.Assign(ctx, 9))

	for i := 0; i < 3; i++ {
		require.NoError(t, f.service.PlaceOrder(ctx, newOrder(t, domain.Line{Item: lamp, Quantity: 1})))
		require.True(t, providerByID(t, f, 9).Busy)
	}

	require.NoError(t, f.service.PlaceOrder(ctx, newOrder(t, domain.Line{Item: lamp, Quantity: 1})))
	require.False(t, providerByID(t, f, 9).Busy)
	require.Equal(t, 0, providerByID(t, f, 9).Cycle)
}

func TestAddNewProducts_ReturnsOnlyNewSubset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	chair := mustProduct(t, 2, "office chair", 45)
	desk := mustProduct(t, 3, "standing desk", 120)

	added, err := f.service.AddNewProducts(ctx, []domain.Product{lamp, chair})
	require.NoError(t, err)
	require.Len(t, added, 2)

	added, err = f.service.AddNewProducts(ctx, []domain.Product{chair, desk})
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.Equal(t, 3, added[0].ItemNumber())
}

func TestAddNewProducts_SkipsDiscontinuedNumbers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	require.NoError(t, f.service.DiscontinueItem(ctx, lamp))

	added, err := f.service.AddNewProducts(ctx, []domain.Product{
		mustProduct(t, 1, "desk lamp mk2", 12),
		mustProduct(t, 2, "office chair", 45),
	})
	require.NoError(t, err)
	require.Len(t, added, 1)
	require.Equal(t, 2, added[0].ItemNumber())
}

func TestDiscontinueItem_ServiceRemovedFromOffering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	assembly := mustService(t, 20, "assembly", 15, 2)
	mounting := mustService(t, 21, "mounting", 20, 2)
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew", assembly, mounting)))

	require.NoError(t, f.service.DiscontinueItem(ctx, assembly))

	offered, err := f.service.OfferedServices(ctx)
	require.NoError(t, err)
	require.Len(t, offered, 1)
	require.Equal(t, 21, offered[0].ItemNumber())

	err = f.service.PlaceOrder(ctx, newOrder(t, domain.Line{Item: assembly, Quantity: 1}))
	var unavailable *ServiceUnavailableError
	require.ErrorAs(t, err, &unavailable)

	// New providers cannot reintroduce the discontinued service.
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 10, "south crew", assembly)))
	offered, err = f.service.OfferedServices(ctx)
	require.NoError(t, err)
	require.Len(t, offered, 1)
}

func TestSetRestockTarget_ReturnsPrevious(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)

	old, err := f.service.SetRestockTarget(ctx, 1, 12)
	require.NoError(t, err)
	require.Equal(t, 5, old)
	require.Equal(t, 5, stockLevel(t, f, 1))
}

func TestPlaceOrder_MixedOrderEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(5)
	lamp := mustProduct(t, 1, "desk lamp", 10)
	_, err := f.service.AddNewProducts(ctx, []domain.Product{lamp})
	require.NoError(t, err)
	mounting := mustService(t, 21, "mounting", 20, 2)
	require.NoError(t, f.service.RegisterProvider(ctx, mustProvider(t, 9, "north crew", mounting)))

	order := newOrder(t,
		domain.Line{Item: lamp, Quantity: 3},
		domain.Line{Item: mounting, Quantity: 1},
	)
	require.NoError(t, f.service.PlaceOrder(ctx, order))

	require.True(t, order.Completed())
	require.Equal(t, 2, stockLevel(t, f, 1))
	require.True(t, providerByID(t, f, 9).Busy)
	require.Equal(t, 30.0, order.ProductsTotal())
	require.Equal(t, 40.0, order.ServicesTotal())
}
