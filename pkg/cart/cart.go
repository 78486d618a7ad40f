package cart

import (
	"errors"

	"github.com/matst80/slask-store/pkg/types"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("line item not found")
)

// Line is one row of the cart: a product id with its quantity and the
// price/title snapshot taken when it was added. The title stays in the
// locale it was resolved in, switching language later does not rewrite it.
type Line struct {
	ProductId           types.ItemId `json:"id"`
	Title               string       `json:"title"`
	UnitPrice           int          `json:"price"`
	DiscountedUnitPrice int          `json:"discounted_price"`
	Quantity            uint         `json:"quantity"`
	Thumbnails          []string     `json:"thumbnails,omitempty"`
	Previews            []string     `json:"previews,omitempty"`
}

// Cart keeps at most one line per product id, in insertion order. The
// totals are recomputed from the lines on every change, never cached on
// their own.
type Cart struct {
	Id            int    `json:"id"`
	Items         []Line `json:"items"`
	TotalPrice    int    `json:"total_price"`
	TotalQuantity uint   `json:"total_quantity"`
}

// emptyCart is the miss-path cart. Items starts as an empty slice so a
// fresh cart serializes its lines as [] rather than null.
func emptyCart(id int) *Cart {
	return &Cart{Id: id, Items: []Line{}}
}

func (c *Cart) recalculate() {
	total := 0
	quantity := uint(0)
	for _, line := range c.Items {
		total += line.DiscountedUnitPrice * int(line.Quantity)
		quantity += line.Quantity
	}
	c.TotalPrice = total
	c.TotalQuantity = quantity
}

func (c *Cart) findLine(id types.ItemId) int {
	for i, line := range c.Items {
		if line.ProductId == id {
			return i
		}
	}
	return -1
}

// AddItem merges by product id: an existing line gets its quantity
// increased, a new product is appended. Quantities below one are rejected
// here rather than relying on UI guards.
func (c *Cart) AddItem(line Line, quantity uint) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if i := c.findLine(line.ProductId); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		line.Quantity = quantity
		c.Items = append(c.Items, line)
	}
	c.recalculate()
	return nil
}

// RemoveItem deletes the line with the given product id. A missing id is a
// no-op, not an error.
func (c *Cart) RemoveItem(id types.ItemId) {
	if i := c.findLine(id); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.recalculate()
	}
}

// SetQuantity replaces the quantity of an existing line. Not additive.
func (c *Cart) SetQuantity(id types.ItemId, quantity uint) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	i := c.findLine(id)
	if i < 0 {
		return ErrLineNotFound
	}
	c.Items[i].Quantity = quantity
	c.recalculate()
	return nil
}

func (c *Cart) Clear() {
	c.Items = c.Items[:0]
	c.recalculate()
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// ItemCount is the badge number: total units across all lines. The line
// count is len(Items) for callers that need distinct products.
func (c *Cart) ItemCount() uint {
	count := uint(0)
	for _, line := range c.Items {
		count += line.Quantity
	}
	return count
}
