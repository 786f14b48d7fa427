package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// cycleRounds is the number of cycle advances after which a busy provider is
// automatically released: the provider stays unavailable for three further
// order-processing rounds, and the fourth advance frees it.
const cycleRounds = 4

var (
	ErrInvalidProviderID = errors.New("provider id must be greater than zero")
	ErrEmptyProviderName = errors.New("provider name is required")
	ErrAlreadyBusy       = errors.New("provider is already assigned")
	ErrNotBusy           = errors.New("provider is not assigned")
)

// Provider is a labor resource able to perform a set of services. It can
// serve one engagement at a time; once assigned it stays busy until released
// or until its cycle counter wraps. The registry is the sole owner of
// provider state; mutation happens only through its named methods.
type Provider struct {
	id       int
	name     string
	services map[int]Service
	busy     bool
	cycle    int
}

// NewProvider validates and constructs a Provider with a defensive copy of
// the service set.
func NewProvider(id int, name string, services []Service) (*Provider, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidProviderID, id)
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyProviderName
	}
	p := &Provider{id: id, name: name, services: map[int]Service{}}
	for _, svc := range services {
		p.services[svc.ItemNumber()] = svc
	}
	return p, nil
}

func (p *Provider) ID() int      { return p.id }
func (p *Provider) Name() string { return p.name }

// Services returns a snapshot of the services this provider can perform,
// sorted by item number.
func (p *Provider) Services() []Service {
	services := make([]Service, 0, len(p.services))
	for _, svc := range p.services {
		services = append(services, svc)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ItemNumber() < services[j].ItemNumber() })
	return services
}

// CanPerform reports whether the provider offers the given service.
func (p *Provider) CanPerform(service Service) bool {
	_, ok := p.services[service.ItemNumber()]
	return ok
}

// AddService adds a service to the provider's capability set. Returns false
// when the service was already present.
func (p *Provider) AddService(service Service) bool {
	if _, ok := p.services[service.ItemNumber()]; ok {
		return false
	}
	p.services[service.ItemNumber()] = service
	return true
}

// RemoveService removes a service from the capability set. Returns false
// when the service was not present.
func (p *Provider) RemoveService(service Service) bool {
	if _, ok := p.services[service.ItemNumber()]; !ok {
		return false
	}
	delete(p.services, service.ItemNumber())
	return true
}

// Busy reports whether the provider is currently assigned.
func (p *Provider) Busy() bool { return p.busy }

// Cycle returns the current cycle counter, always in [0, 4).
func (p *Provider) Cycle() int { return p.cycle }

// Assign marks the provider busy and resets its cycle counter.
func (p *Provider) Assign() error {
	if p.busy {
		return fmt.Errorf("%w: provider %d", ErrAlreadyBusy, p.id)
	}
	p.busy = true
	p.cycle = 0
	return nil
}

// Release frees the provider and resets its cycle counter.
func (p *Provider) Release() error {
	if !p.busy {
		return fmt.Errorf("%w: provider %d", ErrNotBusy, p.id)
	}
	p.busy = false
	p.cycle = 0
	return nil
}

// AdvanceCycle moves the provider one order-processing round forward. Idle
// providers are untouched; a busy provider's counter increments and wraps at
// four, releasing the provider.
func (p *Provider) AdvanceCycle() {
	if !p.busy {
		return
	}
	p.cycle++
	if p.cycle == cycleRounds {
		p.cycle = 0
		p.busy = false
	}
}

// ProviderSnapshot is an immutable view of a provider's state.
type ProviderSnapshot struct {
	ID       int
	Name     string
	Busy     bool
	Cycle    int
	Services []Service
}

// Snapshot returns a point-in-time copy of the provider.
func (p *Provider) Snapshot() ProviderSnapshot {
	return ProviderSnapshot{
		ID:       p.id,
		Name:     p.name,
		Busy:     p.busy,
		Cycle:    p.cycle,
		Services: p.Services(),
	}
}
