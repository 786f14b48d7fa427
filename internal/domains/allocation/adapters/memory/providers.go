package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

var _ ports.ProviderRegistry = (*ProviderRegistry)(nil)

// ProviderRegistry is the in-memory owner of provider state and the
// service-to-providers index.
type ProviderRegistry struct {
	mu           sync.RWMutex
	discontinued ports.Discontinuations
	providers    map[int]*domain.Provider
	offered      map[int]domain.Service
	byService    map[int]map[int]*domain.Provider
}

func NewProviderRegistry(discontinued ports.Discontinuations) *ProviderRegistry {
	return &ProviderRegistry{
		discontinued: discontinued,
		providers:    map[int]*domain.Provider{},
		offered:      map[int]domain.Service{},
		byService:    map[int]map[int]*domain.Provider{},
	}
}

func (r *ProviderRegistry) Register(ctx context.Context, provider *domain.Provider) error {
	if provider == nil {
		return fmt.Errorf("%w: nil", ports.ErrUnknownProvider)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[provider.ID()]; ok {
		return fmt.Errorf("%w: provider %d", ports.ErrProviderRegistered, provider.ID())
	}
	for _, service := range provider.Services() {
		barred, err := r.discontinued.Contains(ctx, service.ItemNumber())
		if err != nil {
			return err
		}
		if barred {
			continue
		}
		number := service.ItemNumber()
		if r.byService[number] == nil {
			r.byService[number] = map[int]*domain.Provider{}
		}
		r.byService[number][provider.ID()] = provider
		r.offered[number] = service
	}
	// The provider joins the global set even when all of its services are
	// discontinued; its cycle still advances with every order round.
	r.providers[provider.ID()] = provider
	return nil
}

func (r *ProviderRegistry) ServicesOffered(_ context.Context) ([]domain.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	services := make([]domain.Service, 0, len(r.offered))
	for _, service := range r.offered {
		services = append(services, service)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ItemNumber() < services[j].ItemNumber() })
	return services, nil
}

func (r *ProviderRegistry) ProvidersFor(_ context.Context, service domain.Service) ([]domain.ProviderSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pool := r.byService[service.ItemNumber()]
	snapshots := make([]domain.ProviderSnapshot, 0, len(pool))
	for _, provider := range pool {
		snapshots = append(snapshots, provider.Snapshot())
	}
	return snapshots, nil
}

func (r *ProviderRegistry) Assign(_ context.Context, providerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	provider, ok := r.providers[providerID]
	if !ok {
		return fmt.Errorf("%w: provider %d", ports.ErrUnknownProvider, providerID)
	}
	return provider.Assign()
}

func (r *ProviderRegistry) Release(_ context.Context, providerID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	provider, ok := r.providers[providerID]
	if !ok {
		return fmt.Errorf("%w: provider %d", ports.ErrUnknownProvider, providerID)
	}
	return provider.Release()
}

func (r *ProviderRegistry) AdvanceCycles(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, provider := range r.providers {
		provider.AdvanceCycle()
	}
	return nil
}

func (r *ProviderRegistry) DiscontinueService(_ context.Context, serviceNumber int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.offered, serviceNumber)
	delete(r.byService, serviceNumber)
	return nil
}

func (r *ProviderRegistry) Providers(_ context.Context) ([]domain.ProviderSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshots := make([]domain.ProviderSnapshot, 0, len(r.providers))
	for _, provider := range r.providers {
		snapshots = append(snapshots, provider.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].ID < snapshots[j].ID })
	return snapshots, nil
}
