package ports

import "context"

// Discontinuations is the append-only ledger of item numbers permanently
// barred from registration. Product and service ids share the namespace.
type Discontinuations interface {
	Add(ctx context.Context, itemNumber int) error
	Contains(ctx context.Context, itemNumber int) (bool, error)
	Numbers(ctx context.Context) ([]int, error)
}
