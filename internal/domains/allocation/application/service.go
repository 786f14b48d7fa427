package application

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

// Service is the allocation engine. It orchestrates the stock ledger and
// provider registry but holds no entity state itself. PlaceOrder runs a
// validate-then-commit protocol: the validation pass is a pure simulation,
// so a rejected order cannot leave partial state, and a successful
// validation guarantees the commit pass cannot fail.
type Service struct {
	// mu serializes PlaceOrder and the registration/discontinuation entry
	// points; the validate/commit split relies on no intervening mutator.
	mu sync.Mutex

	stock        ports.StockLedger
	providers    ports.ProviderRegistry
	discontinued ports.Discontinuations

	defaultStockLevel int
}

// NewService wires the allocation engine with its ledgers. New products are
// registered at defaultStockLevel.
func NewService(stock ports.StockLedger, providers ports.ProviderRegistry, discontinued ports.Discontinuations, defaultStockLevel int) *Service {
	return &Service{
		stock:             stock,
		providers:         providers,
		discontinued:      discontinued,
		defaultStockLevel: defaultStockLevel,
	}
}

// PlaceOrder accepts or rejects the order as a whole.
func (s *Service) PlaceOrder(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return ErrNilOrder
	}
	// A completed order was already allocated; letting it past validation
	// would re-run the commit phase against the ledgers.
	if order.Completed() {
		return domain.ErrAlreadyCompleted
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	productLines, serviceLines := partition(order)

	if err := s.validateProducts(ctx, productLines); err != nil {
		return err
	}
	plan, err := s.validateServices(ctx, serviceLines)
	if err != nil {
		return err
	}

	if err := s.commitProducts(ctx, productLines); err != nil {
		return err
	}
	if err := s.commitServices(ctx, plan); err != nil {
		return err
	}
	if err := order.MarkCompleted(); err != nil {
		return err
	}
	// Every registered provider advances one round, not just the ones this
	// order touched; busy providers decay back to idle after three further
	// orders regardless of their content.
	return s.providers.AdvanceCycles(ctx)
}

// validateProducts reports the first product whose requested quantity
// exceeds stock and which cannot be restocked. It reads but never mutates
// the ledger.
func (s *Service) validateProducts(ctx context.Context, lines []domain.Line) error {
	for _, line := range lines {
		number := line.Item.ItemNumber()
		level, err := s.stock.StockLevel(ctx, number)
		if err != nil {
			return err
		}
		if line.Quantity <= level {
			continue
		}
		restockable, err := s.stock.IsRestockable(ctx, number)
		if err != nil {
			return err
		}
		if !restockable {
			return &ProductUnavailableError{ItemNumber: number}
		}
	}
	return nil
}

// assignmentPlan maps a service number to the provider ids reserved for it.
type assignmentPlan map[int][]int

// validateServices simulates provider assignment without mutating registry
// state. A provider claimed for one service is not reused for another
// service in the same order: capacity is shared across the services a
// provider can perform, so contention is resolved by reservation, not by
// counting. The returned plan is replayed verbatim at commit so the commit
// pass picks exactly the providers the simulation claimed.
func (s *Service) validateServices(ctx context.Context, lines []domain.Line) (assignmentPlan, error) {
	claimed := map[int]bool{}
	plan := assignmentPlan{}
	for _, line := range lines {
		service := line.Item.(domain.Service)
		number := service.ItemNumber()
		candidates, err := s.providers.ProvidersFor(ctx, service)
		if err != nil {
			return nil, err
		}
		if len(candidates) == 0 {
			return nil, &ServiceUnavailableError{ItemNumber: number}
		}
		remaining := line.Quantity
		for _, candidate := range candidates {
			if remaining == 0 {
				break
			}
			if candidate.Busy || claimed[candidate.ID] {
				continue
			}
			claimed[candidate.ID] = true
			plan[number] = append(plan[number], candidate.ID)
			remaining--
		}
		if remaining > 0 {
			return nil, &ServiceUnavailableError{ItemNumber: number}
		}
	}
	return plan, nil
}

func (s *Service) commitProducts(ctx context.Context, lines []domain.Line) error {
	for _, line := range lines {
		number := line.Item.ItemNumber()
		level, err := s.stock.StockLevel(ctx, number)
		if err != nil {
			return err
		}
		if level < line.Quantity {
			// Restock in bulk: the ledger tops up to at least the standing
			// target, never just the immediate shortfall.
			if err := s.stock.RestockTo(ctx, number, line.Quantity); err != nil {
				return err
			}
		}
		if err := s.stock.Fulfill(ctx, number, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) commitServices(ctx context.Context, plan assignmentPlan) error {
	numbers := make([]int, 0, len(plan))
	for number := range plan {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	for _, number := range numbers {
		for _, providerID := range plan[number] {
			if err := s.providers.Assign(ctx, providerID); err != nil {
				return err
			}
		}
	}
	return nil
}

// partition splits the order lines by item kind. Lines arrive sorted by
// item number, keeping error reporting reproducible per input order.
func partition(order *domain.Order) (products, services []domain.Line) {
	for _, line := range order.Lines() {
		switch line.Item.(type) {
		case domain.Product:
			products = append(products, line)
		case domain.Service:
			services = append(services, line)
		}
	}
	return products, services
}

// AddNewProducts registers each product at the default stock level and
// returns the subset actually added. Discontinued numbers and products
// already in the catalog are skipped silently.
func (s *Service) AddNewProducts(ctx context.Context, products []domain.Product) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := append([]domain.Product{}, products...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ItemNumber() < sorted[j].ItemNumber() })

	added := []domain.Product{}
	for _, product := range sorted {
		err := s.stock.Register(ctx, product, s.defaultStockLevel)
		if errors.Is(err, ports.ErrAlreadyRegistered) || errors.Is(err, ports.ErrDiscontinued) {
			continue
		}
		if err != nil {
			return nil, err
		}
		added = append(added, product)
	}
	return added, nil
}

// RegisterProvider adds a provider to the registry; services on the
// discontinuation ledger are skipped by the registry itself.
func (s *Service) RegisterProvider(ctx context.Context, provider *domain.Provider) error {
	if provider == nil {
		return ErrNilProvider
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.providers.Register(ctx, provider)
}

// DiscontinueItem permanently bars the item from being (re)offered.
func (s *Service) DiscontinueItem(ctx context.Context, item domain.Item) error {
	if item == nil {
		return domain.ErrNilItem
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch it := item.(type) {
	case domain.Service:
		if err := s.discontinued.Add(ctx, it.ItemNumber()); err != nil {
			return err
		}
		return s.providers.DiscontinueService(ctx, it.ItemNumber())
	case domain.Product:
		// The ledger records the number in the shared discontinuation set;
		// remaining stock stays sellable through ordinary fulfillment.
		_, err := s.stock.Discontinue(ctx, it.ItemNumber())
		return err
	default:
		return domain.ErrNilItem
	}
}

// SetRestockTarget replaces a product's restock target and returns the old
// one. Current stock is unchanged.
func (s *Service) SetRestockTarget(ctx context.Context, productNumber, newTarget int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stock.SetRestockTarget(ctx, productNumber, newTarget)
}

// ProductCatalog returns the products currently in the catalog.
func (s *Service) ProductCatalog(ctx context.Context) ([]domain.Product, error) {
	return s.stock.Products(ctx)
}

// ProductStock returns the quantity on hand, zero for unknown numbers.
func (s *Service) ProductStock(ctx context.Context, productNumber int) (int, error) {
	return s.stock.StockLevel(ctx, productNumber)
}

// OfferedServices returns the services with at least one registered
// provider.
func (s *Service) OfferedServices(ctx context.Context) ([]domain.Service, error) {
	return s.providers.ServicesOffered(ctx)
}

// Providers returns snapshots of every registered provider.
func (s *Service) Providers(ctx context.Context) ([]domain.ProviderSnapshot, error) {
	return s.providers.Providers(ctx)
}

var _ ports.Service = (*Service)(nil)
