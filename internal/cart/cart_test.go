package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func price(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func seed() ProductRef {
	return ProductRef{ID: "p1", Name: "Wheat Seed", UnitPrice: price("120"), AvailableStock: 50}
}

func TestAddMergesDuplicateProducts(t *testing.T) {
	c := &Cart{}
	c.Add(seed(), 2)
	c.Add(seed(), 3)

	if len(c.Lines) != 1 {
		t.Fatalf("expected one merged line, got %d", len(c.Lines))
	}
	if c.Lines[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", c.Lines[0].Quantity)
	}
}

func TestAddDefaultsQuantityToOne(t *testing.T) {
	c := &Cart{}
	c.Add(seed(), 0)
	if c.Lines[0].Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", c.Lines[0].Quantity)
	}
}

func TestAddPreservesInsertionOrder(t *testing.T) {
	c := &Cart{}
	c.Add(seed(), 1)
	c.Add(ProductRef{ID: "p2", Name: "Urea", UnitPrice: price("300")}, 1)
	c.Add(seed(), 1)

	if c.Lines[0].Product.ID != "p1" || c.Lines[1].Product.ID != "p2" {
		t.Fatalf("expected insertion order preserved, got %+v", c.Lines)
	}
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	c := &Cart{}
	c.Add(seed(), 2)
	c.Remove("ghost")

	if len(c.Lines) != 1 {
		t.Fatalf("expected untouched cart, got %+v", c.Lines)
	}
}

func TestRemoveDeletesLine(t *testing.T) {
	c := &Cart{}
	c.Add(seed(), 2)
	c.Remove("p1")

	if !c.IsEmpty() {
		t.Fatalf("expected empty cart, got %+v", c.Lines)
	}
}

func TestSetQuantityClampsToStock(t *testing.T) {
	c := &Cart{}
	c.Add(seed(), 1)

	c.SetQuantity("p1", 500)
	if c.Lines[0].Quantity != 50 {
		t.Fatalf("expected clamp to stock 50, got %d", c.Lines[0].Quantity)
	}

	c.SetQuantity("p1", -3)
	if c.Lines[0].Quantity != 1 {
		t.Fatalf("expected clamp to 1, got %d", c.Lines[0].Quantity)
	}
}

func TestSetQuantityUnknownStockSkipsUpperClamp(t *testing.T) {
	c := &Cart{}
	c.Add(ProductRef{ID: "p3", UnitPrice: price("10")}, 1)
	c.SetQuantity("p3", 999)
	if c.Lines[0].Quantity != 999 {
		t.Fatalf("expected no upper clamp without stock data, got %d", c.Lines[0].Quantity)
	}
}

func TestTotalRecomputedAfterEveryMutation(t *testing.T) {
	c := &Cart{}
	c.Add(seed(), 2)
	if got := c.Total(); !got.Equal(decimal.RequireFromString("240")) {
		t.Fatalf("expected total 240, got %s", got)
	}

	c.Add(ProductRef{ID: "p2", UnitPrice: price("300")}, 1)
	if got := c.Total(); !got.Equal(decimal.RequireFromString("540")) {
		t.Fatalf("expected total 540, got %s", got)
	}

	c.SetQuantity("p1", 1)
	if got := c.Total(); !got.Equal(decimal.RequireFromString("420")) {
		t.Fatalf("expected total 420, got %s", got)
	}

	c.Remove("p2")
	if got := c.Total(); !got.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected total 120, got %s", got)
	}
}

func TestTotalTreatsMissingPriceAsZero(t *testing.T) {
	c := &Cart{}
	c.Add(ProductRef{ID: "free", Name: "Sample"}, 4)
	c.Add(seed(), 1)

	if got := c.Total(); !got.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("expected missing price to count as zero, got %s", got)
	}
}

func TestTotalMinorRounding(t *testing.T) {
	c := &Cart{}
	c.Add(ProductRef{ID: "p1", UnitPrice: price("0.25")}, 2)
	if got := c.TotalMinor(); got != 50 {
		t.Fatalf("expected 50 minor units, got %d", got)
	}

	c.Clear()
	c.Add(ProductRef{ID: "p2", UnitPrice: price("199.995")}, 1)
	if got := c.TotalMinor(); got != 20000 {
		t.Fatalf("expected rounded 20000 minor units, got %d", got)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	c := &Cart{}
	c.Add(seed(), 3)
	c.Clear()
	if !c.IsEmpty() || !c.Total().IsZero() {
		t.Fatalf("expected empty cart with zero total, got %+v", c)
	}
}
