package migrations

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Run applies the schema for the catalog seed tables. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&serviceRecord{},
		&providerRecord{},
	)
}

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ItemNumber int     `gorm:"primaryKey;column:item_number"`
	Name       string  `gorm:"column:name"`
	Price      float64 `gorm:"column:price"`
}

func (productRecord) TableName() string { return "catalog_products" }

// Service schema mirrors the catalog Postgres adapter.
type serviceRecord struct {
	ItemNumber  int     `gorm:"primaryKey;column:item_number"`
	Description string  `gorm:"column:description"`
	HourlyRate  float64 `gorm:"column:hourly_rate"`
	Hours       int     `gorm:"column:hours"`
}

func (serviceRecord) TableName() string { return "catalog_services" }

// Provider schema mirrors the catalog Postgres adapter.
type providerRecord struct {
	ID             int64         `gorm:"primaryKey;column:id"`
	Name           string        `gorm:"column:name"`
	ServiceNumbers pq.Int64Array `gorm:"column:service_numbers;type:bigint[]"`
}

func (providerRecord) TableName() string { return "catalog_providers" }
