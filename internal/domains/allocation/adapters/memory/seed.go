package memory

import (
	"fmt"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

// StarterSeed is the catalog served when no PostgreSQL seed source is
// configured, so a fresh process is usable out of the box.
func StarterSeed() ports.CatalogSeed {
	assembly := mustService(20, "furniture assembly", 15, 2)
	mounting := mustService(21, "wall mounting", 20, 2)
	delivery := mustService(22, "same-day delivery", 10, 1)

	return ports.CatalogSeed{
		Products: []domain.Product{
			mustProduct(1, "desk lamp", 10),
			mustProduct(2, "office chair", 45),
			mustProduct(3, "standing desk", 120),
			mustProduct(4, "monitor arm", 35),
		},
		Providers: []*domain.Provider{
			mustProvider(9, "north crew", assembly, mounting),
			mustProvider(10, "south crew", assembly, delivery),
		},
	}
}

func mustProduct(number int, name string, price float64) domain.Product {
	product, err := domain.NewProduct(number, name, price)
	if err != nil {
		panic(fmt.Sprintf("invalid starter product %d: %v", number, err))
	}
	return product
}

func mustService(number int, description string, hourlyRate float64, hours int) domain.Service {
	service, err := domain.NewService(number, description, hourlyRate, hours)
	if err != nil {
		panic(fmt.Sprintf("invalid starter service %d: %v", number, err))
	}
	return service
}

func mustProvider(id int, name string, services ...domain.Service) *domain.Provider {
	provider, err := domain.NewProvider(id, name, services)
	if err != nil {
		panic(fmt.Sprintf("invalid starter provider %d: %v", id, err))
	}
	return provider
}
