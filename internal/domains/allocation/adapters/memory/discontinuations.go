package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

var _ ports.Discontinuations = (*DiscontinuationLedger)(nil)

// DiscontinuationLedger is the in-memory append-only set of barred item
// numbers, shared by the stock ledger and the provider registry.
type DiscontinuationLedger struct {
	mu      sync.RWMutex
	numbers map[int]struct{}
}

func NewDiscontinuationLedger() *DiscontinuationLedger {
	return &DiscontinuationLedger{numbers: map[int]struct{}{}}
}

func (l *DiscontinuationLedger) Add(_ context.Context, itemNumber int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.numbers[itemNumber] = struct{}{}
	return nil
}

func (l *DiscontinuationLedger) Contains(_ context.Context, itemNumber int) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.numbers[itemNumber]
	return ok, nil
}

func (l *DiscontinuationLedger) Numbers(_ context.Context) ([]int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	numbers := make([]int, 0, len(l.numbers))
	for number := range l.numbers {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)
	return numbers, nil
}
