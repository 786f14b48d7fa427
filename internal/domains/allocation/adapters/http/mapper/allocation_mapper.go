package mapper

import (
	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
)

// OrderLine is the transport representation of one order line.
type OrderLine struct {
	Kind       string `json:"kind"`
	ItemNumber int    `json:"itemNumber"`
	Quantity   int    `json:"quantity"`
}

// OrderRequest captures an inbound order submission.
type OrderRequest struct {
	Lines []OrderLine `json:"lines"`
}

// OrderResponse reports a fully allocated order.
type OrderResponse struct {
	OrderID       string      `json:"orderId"`
	Completed     bool        `json:"completed"`
	ProductsTotal float64     `json:"productsTotal"`
	ServicesTotal float64     `json:"servicesTotal"`
	Lines         []OrderLine `json:"lines"`
}

// Product is the transport representation of a catalog product.
type Product struct {
	ItemNumber int     `json:"itemNumber"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Stock      int     `json:"stock"`
}

// NewProduct captures an inbound product definition.
type NewProduct struct {
	ItemNumber int     `json:"itemNumber"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
}

// Service is the transport representation of an offered service.
type Service struct {
	ItemNumber  int     `json:"itemNumber"`
	Description string  `json:"description"`
	HourlyRate  float64 `json:"hourlyRate"`
	Hours       int     `json:"hours"`
	Price       float64 `json:"price"`
}

// NewProvider captures an inbound provider registration, including the full
// definitions of the services it introduces.
type NewProvider struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Services []Service `json:"services"`
}

// Provider is the transport representation of a registered provider.
type Provider struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	Busy     bool      `json:"busy"`
	Cycle    int       `json:"cycle"`
	Services []Service `json:"services"`
}

// Discontinuation identifies an item to stop selling.
type Discontinuation struct {
	Kind       string `json:"kind"`
	ItemNumber int    `json:"itemNumber"`
}

// RestockTargetUpdate carries a new restock target.
type RestockTargetUpdate struct {
	Target int `json:"target"`
}

// RestockTargetResult reports a restock target change.
type RestockTargetResult struct {
	ItemNumber     int `json:"itemNumber"`
	PreviousTarget int `json:"previousTarget"`
	Target         int `json:"target"`
}

// FromProduct maps a domain product plus its stock level.
func FromProduct(product domain.Product, stock int) Product {
	return Product{
		ItemNumber: product.ItemNumber(),
		Name:       product.Description(),
		Price:      product.Price(),
		Stock:      stock,
	}
}

// ToDomainProduct builds a domain product from the inbound definition.
func ToDomainProduct(payload NewProduct) (domain.Product, error) {
	return domain.NewProduct(payload.ItemNumber, payload.Name, payload.Price)
}

// FromService maps a domain service.
func FromService(service domain.Service) Service {
	return Service{
		ItemNumber:  service.ItemNumber(),
		Description: service.Description(),
		HourlyRate:  service.HourlyRate(),
		Hours:       service.Hours(),
		Price:       service.Price(),
	}
}

// ToDomainService builds a domain service from the inbound definition.
func ToDomainService(payload Service) (domain.Service, error) {
	return domain.NewService(payload.ItemNumber, payload.Description, payload.HourlyRate, payload.Hours)
}

// FromServices maps a service list.
func FromServices(services []domain.Service) []Service {
	out := make([]Service, 0, len(services))
	for _, service := range services {
		out = append(out, FromService(service))
	}
	return out
}

// FromProviderSnapshot maps a provider view.
func FromProviderSnapshot(snapshot domain.ProviderSnapshot) Provider {
	return Provider{
		ID:       snapshot.ID,
		Name:     snapshot.Name,
		Busy:     snapshot.Busy,
		Cycle:    snapshot.Cycle,
		Services: FromServices(snapshot.Services),
	}
}

// ToDomainProvider builds a domain provider from the inbound registration.
func ToDomainProvider(payload NewProvider) (*domain.Provider, error) {
	services := make([]domain.Service, 0, len(payload.Services))
	for _, svc := range payload.Services {
		service, err := ToDomainService(svc)
		if err != nil {
			return nil, err
		}
		services = append(services, service)
	}
	return domain.NewProvider(payload.ID, payload.Name, services)
}

// FromOrder maps an allocated order back to transport, preserving the
// submitted lines.
func FromOrder(orderID string, order *domain.Order) OrderResponse {
	lines := make([]OrderLine, 0, len(order.Lines()))
	for _, line := range order.Lines() {
		lines = append(lines, OrderLine{
			Kind:       string(line.Item.Kind()),
			ItemNumber: line.Item.ItemNumber(),
			Quantity:   line.Quantity,
		})
	}
	return OrderResponse{
		OrderID:       orderID,
		Completed:     order.Completed(),
		ProductsTotal: order.ProductsTotal(),
		ServicesTotal: order.ServicesTotal(),
		Lines:         lines,
	}
}
