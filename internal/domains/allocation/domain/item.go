package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ItemKind discriminates the closed set of sellable variants.
type ItemKind string

const (
	KindProduct ItemKind = "product"
	KindService ItemKind = "service"
)

// ItemKey is the identity of an item. Identity is scoped per kind: a product
// and a service may carry the same number without colliding.
type ItemKey struct {
	Kind   ItemKind
	Number int
}

// Item is the sealed interface over the two sellable variants, Product and
// Service. Callers dispatch on the concrete type, never on runtime checks
// against unknown implementations.
type Item interface {
	ItemNumber() int
	Description() string
	Price() float64
	Kind() ItemKind
	Key() ItemKey

	sealedItem()
}

var (
	ErrInvalidItemNumber = errors.New("item number must be greater than zero")
	ErrEmptyDescription  = errors.New("item description is required")
	ErrNegativePrice     = errors.New("price must not be negative")
	ErrInvalidHours      = errors.New("service hours must be greater than zero")
)

// Product is a physical, stocked item. Immutable after construction.
type Product struct {
	number int
	name   string
	price  float64
}

// NewProduct validates and constructs a Product.
func NewProduct(number int, name string, price float64) (Product, error) {
	if number <= 0 {
		return Product{}, fmt.Errorf("%w: %d", ErrInvalidItemNumber, number)
	}
	if strings.TrimSpace(name) == "" {
		return Product{}, ErrEmptyDescription
	}
	if price < 0 {
		return Product{}, ErrNegativePrice
	}
	return Product{number: number, name: name, price: price}, nil
}

func (p Product) ItemNumber() int     { return p.number }
func (p Product) Description() string { return p.name }
func (p Product) Price() float64      { return p.price }
func (p Product) Kind() ItemKind      { return KindProduct }
func (p Product) Key() ItemKey        { return ItemKey{Kind: KindProduct, Number: p.number} }
func (p Product) sealedItem()         {}

// Service is a labor item priced as hourly rate times duration. Immutable
// after construction.
type Service struct {
	number      int
	description string
	hourlyRate  float64
	hours       int
}

// NewService validates and constructs a Service.
func NewService(number int, description string, hourlyRate float64, hours int) (Service, error) {
	if number <= 0 {
		return Service{}, fmt.Errorf("%w: %d", ErrInvalidItemNumber, number)
	}
	if strings.TrimSpace(description) == "" {
		return Service{}, ErrEmptyDescription
	}
	if hourlyRate < 0 {
		return Service{}, ErrNegativePrice
	}
	if hours <= 0 {
		return Service{}, ErrInvalidHours
	}
	return Service{number: number, description: description, hourlyRate: hourlyRate, hours: hours}, nil
}

func (s Service) ItemNumber() int     { return s.number }
func (s Service) Description() string { return s.description }
func (s Service) HourlyRate() float64 { return s.hourlyRate }
func (s Service) Hours() int          { return s.hours }

// Price is the hourly rate multiplied by the number of hours.
func (s Service) Price() float64 { return s.hourlyRate * float64(s.hours) }

func (s Service) Kind() ItemKind { return KindService }
func (s Service) Key() ItemKey   { return ItemKey{Kind: KindService, Number: s.number} }
func (s Service) sealedItem()    {}
