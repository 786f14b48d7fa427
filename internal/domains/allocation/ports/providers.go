package ports

import (
	"context"
	"errors"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
)

var (
	ErrProviderRegistered = errors.New("provider is already registered")
	ErrUnknownProvider    = errors.New("provider is not registered")
)

// ProviderRegistry owns provider state and the service-to-providers index
// derived from registration and discontinuation.
type ProviderRegistry interface {
	// Register adds the provider to the global set and indexes it under
	// each of its services, silently skipping discontinued service
	// numbers. Fails with ErrProviderRegistered for a duplicate id.
	Register(ctx context.Context, provider *domain.Provider) error

	// ServicesOffered returns the services with at least one registration,
	// sorted by item number.
	ServicesOffered(ctx context.Context) ([]domain.Service, error)

	// ProvidersFor returns snapshots of the providers indexed under the
	// service. Ordering across providers is unspecified; callers must not
	// depend on which idle providers they see first.
	ProvidersFor(ctx context.Context, service domain.Service) ([]domain.ProviderSnapshot, error)

	// Assign marks the provider busy, failing with domain.ErrAlreadyBusy
	// when it already is.
	Assign(ctx context.Context, providerID int) error

	// Release frees the provider, failing with domain.ErrNotBusy when it
	// is idle.
	Release(ctx context.Context, providerID int) error

	// AdvanceCycles moves every registered provider one order-processing
	// round forward.
	AdvanceCycles(ctx context.Context) error

	// DiscontinueService removes the service from the offered index.
	// Providers stay registered for their other services, and ongoing
	// assignments are not revoked.
	DiscontinueService(ctx context.Context, serviceNumber int) error

	// Providers returns snapshots of the global provider set sorted by id.
	Providers(ctx context.Context) ([]domain.ProviderSnapshot, error)
}
