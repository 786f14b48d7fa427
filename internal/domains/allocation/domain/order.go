package domain

import (
	"errors"
	"sort"
)

var (
	ErrNilItem           = errors.New("order item is nil")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrAlreadyCompleted  = errors.New("order is already completed")
	ErrOrderNotCompleted = errors.New("order is not completed")
)

// Line is one item of an order at a requested quantity.
type Line struct {
	Item     Item
	Quantity int
}

// Order is a customer order: a set of lines keyed by item identity plus a
// completion flag. The flag stays false until every line is durably
// allocated; it is flipped exactly once by the allocation engine.
type Order struct {
	lines     map[ItemKey]Line
	completed bool
}

// NewOrder creates an empty, incomplete order.
func NewOrder() *Order {
	return &Order{lines: map[ItemKey]Line{}}
}

// AddItem records the requested quantity for the item, replacing any prior
// quantity for the same item.
func (o *Order) AddItem(item Item, quantity int) error {
	if item == nil {
		return ErrNilItem
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if o.completed {
		return ErrAlreadyCompleted
	}
	o.lines[item.Key()] = Line{Item: item, Quantity: quantity}
	return nil
}

// Quantity returns the ordered quantity for the item, zero when absent.
func (o *Order) Quantity(item Item) int {
	if item == nil {
		return 0
	}
	return o.lines[item.Key()].Quantity
}

// Lines returns a snapshot of the order lines sorted by kind then item
// number, so callers iterate the same order deterministically.
func (o *Order) Lines() []Line {
	lines := make([]Line, 0, len(o.lines))
	for _, line := range o.lines {
		lines = append(lines, line)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Item.Kind() != lines[j].Item.Kind() {
			return lines[i].Item.Kind() < lines[j].Item.Kind()
		}
		return lines[i].Item.ItemNumber() < lines[j].Item.ItemNumber()
	})
	return lines
}

// Items returns a snapshot of the ordered items.
func (o *Order) Items() []Item {
	lines := o.Lines()
	items := make([]Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, line.Item)
	}
	return items
}

// ProductsTotal sums price times quantity over the product lines.
func (o *Order) ProductsTotal() float64 {
	return o.totalFor(KindProduct)
}

// ServicesTotal sums price times quantity over the service lines.
func (o *Order) ServicesTotal() float64 {
	return o.totalFor(KindService)
}

func (o *Order) totalFor(kind ItemKind) float64 {
	total := 0.0
	for _, line := range o.lines {
		if line.Item.Kind() == kind {
			total += line.Item.Price() * float64(line.Quantity)
		}
	}
	return total
}

// Completed reports whether the order has been fully allocated.
func (o *Order) Completed() bool { return o.completed }

// MarkCompleted transitions the order from incomplete to completed. The
// transition happens at most once.
func (o *Order) MarkCompleted() error {
	if o.completed {
		return ErrAlreadyCompleted
	}
	o.completed = true
	return nil
}
