package application

import (
	"errors"
	"fmt"
)

var (
	// ErrNilOrder signals a nil order was submitted.
	ErrNilOrder = errors.New("order is nil")
	// ErrNilProvider signals a nil provider registration.
	ErrNilProvider = errors.New("provider is nil")
)

// ProductUnavailableError rejects an order whose requested quantity exceeds
// stock for a product that cannot be restocked.
type ProductUnavailableError struct {
	ItemNumber int
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d unavailable", e.ItemNumber)
}

// ServiceUnavailableError rejects an order for which no providers are
// registered, or not enough idle providers remain, for a service.
type ServiceUnavailableError struct {
	ItemNumber int
}

func (e *ServiceUnavailableError) Error() string {
	return fmt.Sprintf("service %d unavailable", e.ItemNumber)
}

// IsRejection reports whether the error is an order rejection rather than an
// infrastructure failure.
func IsRejection(err error) bool {
	var productErr *ProductUnavailableError
	var serviceErr *ServiceUnavailableError
	return errors.As(err, &productErr) || errors.As(err, &serviceErr)
}
