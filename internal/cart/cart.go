package cart

import (
	"github.com/shopspring/decimal"
)

// ProductRef is an immutable display snapshot taken at add-to-cart time.
// It is not re-synced with the core API; the backend re-checks stock and
// pricing at order creation.
type ProductRef struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	UnitPrice      *decimal.Decimal `json:"unit_price,omitempty"`
	Unit           string           `json:"unit,omitempty"`
	ImageRef       string           `json:"image_ref,omitempty"`
	AvailableStock int              `json:"available_stock"`
}

// EffectivePrice treats a missing unit price as zero. The upstream catalog
// occasionally omits the cost field; the fallback is an explicit rule, not
// an accident.
func (p ProductRef) EffectivePrice() decimal.Decimal {
	if p.UnitPrice == nil {
		return decimal.Zero
	}
	return *p.UnitPrice
}

// Line is one product/quantity pair.
type Line struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
}

// Subtotal returns the line's contribution to the cart total.
func (l Line) Subtotal() decimal.Decimal {
	return l.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered sequence of lines keyed by product ID; at most one line
// exists per product.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Add merges the quantity into an existing line for the same product, or
// appends a new line. A non-positive quantity defaults to one.
func (c *Cart) Add(product ProductRef, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	for i := range c.Lines {
		if c.Lines[i].Product.ID == product.ID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, Line{Product: product, Quantity: quantity})
}

// Remove deletes the line for the product; removing an absent product is a
// no-op.
func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the line's quantity, clamped to [1, available stock].
// The clamp lives here so every call site gets the same enforcement. Setting
// a quantity on an absent product is a no-op.
func (c *Cart) SetQuantity(productID string, quantity int) {
	for i := range c.Lines {
		if c.Lines[i].Product.ID != productID {
			continue
		}
		if quantity < 1 {
			quantity = 1
		}
		if stock := c.Lines[i].Product.AvailableStock; stock > 0 && quantity > stock {
			quantity = stock
		}
		c.Lines[i].Quantity = quantity
		return
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart holds no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Total is the sum of unit price times quantity over all lines, with missing
// prices counting as zero.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// TotalMinor converts the total to minor currency units, rounding to the
// nearest unit. Payment amounts travel in minor units to avoid float
// ambiguity.
func (c *Cart) TotalMinor() int64 {
	return c.Total().Shift(2).Round(0).IntPart()
}
