package ports

import (
	"context"
	"errors"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
)

var (
	ErrAlreadyRegistered = errors.New("product is already in the catalog")
	ErrDiscontinued      = errors.New("item is discontinued")
	ErrNotRestockable    = errors.New("product is not restockable")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StockLedger owns per-product stock state: current quantity, restock
// target, and catalog membership. A product is in the catalog iff it has a
// restock target recorded, independent of current stock.
type StockLedger interface {
	// Register adds a product at the given stock level, which becomes both
	// the current stock and the restock target. Fails with
	// ErrAlreadyRegistered for known numbers and ErrDiscontinued for
	// numbers in the discontinuation ledger.
	Register(ctx context.Context, product domain.Product, initialTarget int) error

	// StockLevel returns the quantity on hand, zero for unknown numbers.
	StockLevel(ctx context.Context, productNumber int) (int, error)

	IsInCatalog(ctx context.Context, productNumber int) (bool, error)

	// IsRestockable reports whether the product is in the catalog and not
	// discontinued.
	IsRestockable(ctx context.Context, productNumber int) (bool, error)

	// RestockTo raises stock to max(minimum, restock target) when current
	// stock is below minimum; otherwise it is a no-op. Fails with
	// ErrNotRestockable for unknown or discontinued products.
	RestockTo(ctx context.Context, productNumber, minimum int) error

	// SetRestockTarget replaces the restock target and returns the old one.
	// Current stock is unchanged. Fails with ErrNotRestockable under the
	// same conditions as RestockTo.
	SetRestockTarget(ctx context.Context, productNumber, newTarget int) (int, error)

	// CanFulfill reports whether the product is in the catalog with at
	// least qty on hand.
	CanFulfill(ctx context.Context, productNumber, qty int) (bool, error)

	// Fulfill decrements stock by qty, failing with ErrInsufficientStock
	// when CanFulfill would be false.
	Fulfill(ctx context.Context, productNumber, qty int) error

	// Discontinue forbids future restocking of the product and returns the
	// final sellable stock. Existing stock may still be sold to zero.
	Discontinue(ctx context.Context, productNumber int) (int, error)

	// Products returns a snapshot of the catalog sorted by item number.
	Products(ctx context.Context) ([]domain.Product, error)
}
