package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

var _ ports.StockLedger = (*StockLedger)(nil)

// StockLedger is the in-memory owner of product stock state. It consults
// the shared discontinuation ledger on registration and restocking.
type StockLedger struct {
	mu           sync.RWMutex
	discontinued ports.Discontinuations
	products     map[int]domain.Product
	current      map[int]int
	target       map[int]int
}

func NewStockLedger(discontinued ports.Discontinuations) *StockLedger {
	return &StockLedger{
		discontinued: discontinued,
		products:     map[int]domain.Product{},
		current:      map[int]int{},
		target:       map[int]int{},
	}
}

func (l *StockLedger) Register(ctx context.Context, product domain.Product, initialTarget int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	number := product.ItemNumber()
	if _, ok := l.products[number]; ok {
		return fmt.Errorf("%w: product %d", ports.ErrAlreadyRegistered, number)
	}
	barred, err := l.discontinued.Contains(ctx, number)
	if err != nil {
		return err
	}
	if barred {
		return fmt.Errorf("%w: product %d", ports.ErrDiscontinued, number)
	}
	l.products[number] = product
	l.current[number] = initialTarget
	l.target[number] = initialTarget
	return nil
}

func (l *StockLedger) StockLevel(_ context.Context, productNumber int) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current[productNumber], nil
}

func (l *StockLedger) IsInCatalog(_ context.Context, productNumber int) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.target[productNumber]
	return ok, nil
}

func (l *StockLedger) IsRestockable(ctx context.Context, productNumber int) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.isRestockableLocked(ctx, productNumber)
}

func (l *StockLedger) isRestockableLocked(ctx context.Context, productNumber int) (bool, error) {
	if _, ok := l.target[productNumber]; !ok {
		return false, nil
	}
	barred, err := l.discontinued.Contains(ctx, productNumber)
	if err != nil {
		return false, err
	}
	return !barred, nil
}

func (l *StockLedger) RestockTo(ctx context.Context, productNumber, minimum int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	restockable, err := l.isRestockableLocked(ctx, productNumber)
	if err != nil {
		return err
	}
	if !restockable {
		return fmt.Errorf("%w: product %d", ports.ErrNotRestockable, productNumber)
	}
	if l.current[productNumber] >= minimum {
		return nil
	}
	// Restock in bulk: top up to at least the standing target, never just
	// the immediate shortfall.
	if target := l.target[productNumber]; minimum < target {
		l.current[productNumber] = target
	} else {
		l.current[productNumber] = minimum
	}
	return nil
}

func (l *StockLedger) SetRestockTarget(ctx context.Context, productNumber, newTarget int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	restockable, err := l.isRestockableLocked(ctx, productNumber)
	if err != nil {
		return 0, err
	}
	if !restockable {
		return 0, fmt.Errorf("%w: product %d", ports.ErrNotRestockable, productNumber)
	}
	old := l.target[productNumber]
	l.target[productNumber] = newTarget
	return old, nil
}

func (l *StockLedger) CanFulfill(_ context.Context, productNumber, qty int) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.canFulfillLocked(productNumber, qty), nil
}

func (l *StockLedger) canFulfillLocked(productNumber, qty int) bool {
	if _, ok := l.target[productNumber]; !ok {
		return false
	}
	return l.current[productNumber] >= qty
}

func (l *StockLedger) Fulfill(_ context.Context, productNumber, qty int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.canFulfillLocked(productNumber, qty) {
		return fmt.Errorf("%w: product %d, requested %d, on hand %d",
			ports.ErrInsufficientStock, productNumber, qty, l.current[productNumber])
	}
	l.current[productNumber] -= qty
	return nil
}

func (l *StockLedger) Discontinue(ctx context.Context, productNumber int) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.discontinued.Add(ctx, productNumber); err != nil {
		return 0, err
	}
	return l.current[productNumber], nil
}

func (l *StockLedger) Products(_ context.Context) ([]domain.Product, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	products := make([]domain.Product, 0, len(l.products))
	for _, product := range l.products {
		products = append(products, product)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ItemNumber() < products[j].ItemNumber() })
	return products, nil
}
