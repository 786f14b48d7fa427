package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/fulfilld/allocation/internal/domains/allocation/domain"
	"github.com/fulfilld/allocation/internal/domains/allocation/ports"
)

var _ ports.CatalogSource = (*CatalogSource)(nil)

// CatalogSource loads the seed catalog from PostgreSQL using GORM.
type CatalogSource struct {
	db *gorm.DB
}

// NewCatalogSource wires a PostgreSQL-backed catalog source. Caller manages
// the DB lifecycle and schema (see platform/migrations).
func NewCatalogSource(db *gorm.DB) *CatalogSource {
	return &CatalogSource{db: db}
}

// productRecord maps a catalog product definition to a relational table.
type productRecord struct {
	ItemNumber int     `gorm:"primaryKey;column:item_number"`
	Name       string  `gorm:"column:name"`
	Price      float64 `gorm:"column:price"`
}

func (productRecord) TableName() string { return "catalog_products" }

// serviceRecord maps a catalog service definition to a relational table.
type serviceRecord struct {
	ItemNumber  int     `gorm:"primaryKey;column:item_number"`
	Description string  `gorm:"column:description"`
	HourlyRate  float64 `gorm:"column:hourly_rate"`
	Hours       int     `gorm:"column:hours"`
}

func (serviceRecord) TableName() string { return "catalog_services" }

// providerRecord maps a provider definition, with its service numbers as a
// Postgres array column.
type providerRecord struct {
	ID             int64         `gorm:"primaryKey;column:id"`
	Name           string        `gorm:"column:name"`
	ServiceNumbers pq.Int64Array `gorm:"column:service_numbers;type:bigint[]"`
}

func (providerRecord) TableName() string { return "catalog_providers" }

// Load reads the full seed catalog. Provider service numbers that have no
// matching service definition are skipped.
func (s *CatalogSource) Load(ctx context.Context) (*ports.CatalogSeed, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("postgres catalog source not configured")
	}

	var productRecords []productRecord
	if err := s.db.WithContext(ctx).Order("item_number").Find(&productRecords).Error; err != nil {
		return nil, err
	}
	var serviceRecords []serviceRecord
	if err := s.db.WithContext(ctx).Order("item_number").Find(&serviceRecords).Error; err != nil {
		return nil, err
	}
	var providerRecords []providerRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&providerRecords).Error; err != nil {
		return nil, err
	}

	seed := &ports.CatalogSeed{}
	for _, record := range productRecords {
		product, err := domain.NewProduct(record.ItemNumber, record.Name, record.Price)
		if err != nil {
			return nil, fmt.Errorf("catalog product %d: %w", record.ItemNumber, err)
		}
		seed.Products = append(seed.Products, product)
	}

	services := make(map[int]domain.Service, len(serviceRecords))
	for _, record := range serviceRecords {
		service, err := domain.NewService(record.ItemNumber, record.Description, record.HourlyRate, record.Hours)
		if err != nil {
			return nil, fmt.Errorf("catalog service %d: %w", record.ItemNumber, err)
		}
		services[record.ItemNumber] = service
	}

	for _, record := range providerRecords {
		offered := make([]domain.Service, 0, len(record.ServiceNumbers))
		for _, number := range record.ServiceNumbers {
			if service, ok := services[int(number)]; ok {
				offered = append(offered, service)
			}
		}
		provider, err := domain.NewProvider(int(record.ID), record.Name, offered)
		if err != nil {
			return nil, fmt.Errorf("catalog provider %d: %w", record.ID, err)
		}
		seed.Providers = append(seed.Providers, provider)
	}
	return seed, nil
}
