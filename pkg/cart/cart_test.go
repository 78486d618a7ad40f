package cart

import (
	"testing"

	"github.com/matst80/slask-store/pkg/types"
)

func makeLine(id types.ItemId, price int) Line {
	return Line{
		ProductId:           id,
		Title:               "Product",
		UnitPrice:           price,
		DiscountedUnitPrice: price,
	}
}

func TestAddItemMergesByProductId(t *testing.T) {
	c := &Cart{}
	if err := c.AddItem(makeLine(1, 80), 2); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := c.AddItem(makeLine(1, 80), 3); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(c.Items) != 1 {
		t.Fatalf("Expected one line, got %d", len(c.Items))
	}
	if c.Items[0].Quantity != 5 {
		t.Errorf("Expected quantity 5, got %d", c.Items[0].Quantity)
	}
}

func TestAddItemRejectsZeroQuantity(t *testing.T) {
	c := &Cart{}
	if err := c.AddItem(makeLine(1, 80), 0); err != ErrInvalidQuantity {
		t.Errorf("Expected ErrInvalidQuantity, got %v", err)
	}
	if !c.IsEmpty() {
		t.Error("Rejected add still changed the cart")
	}
}

func TestTotalPrice(t *testing.T) {
	c := &Cart{}
	c.AddItem(makeLine(1, 80), 2)
	if c.TotalPrice != 160 {
		t.Errorf("Expected total 160, got %d", c.TotalPrice)
	}
	c.AddItem(makeLine(1, 80), 1)
	if c.TotalPrice != 240 {
		t.Errorf("Expected total 240 after merge, got %d", c.TotalPrice)
	}
	c.RemoveItem(1)
	if c.TotalPrice != 0 {
		t.Errorf("Expected total 0 after removal, got %d", c.TotalPrice)
	}
}

func TestTotalPriceUsesDiscountedPrice(t *testing.T) {
	c := &Cart{}
	line := makeLine(1, 100)
	line.DiscountedUnitPrice = 60
	c.AddItem(line, 2)
	if c.TotalPrice != 120 {
		t.Errorf("Expected discounted total 120, got %d", c.TotalPrice)
	}
}

func TestRemoveThenAddStartsFresh(t *testing.T) {
	c := &Cart{}
	c.AddItem(makeLine(1, 80), 5)
	c.RemoveItem(1)
	c.AddItem(makeLine(1, 80), 1)
	if c.Items[0].Quantity != 1 {
		t.Errorf("Expected fresh line with quantity 1, got %d", c.Items[0].Quantity)
	}
}

func TestRemoveMissingItemIsNoOp(t *testing.T) {
	c := &Cart{}
	c.AddItem(makeLine(1, 80), 1)
	c.RemoveItem(99)
	if len(c.Items) != 1 {
		t.Errorf("Remove of missing id changed the cart")
	}
}

func TestSetQuantityReplaces(t *testing.T) {
	c := &Cart{}
	c.AddItem(makeLine(1, 80), 2)
	if err := c.SetQuantity(1, 7); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.Items[0].Quantity != 7 {
		t.Errorf("Expected quantity 7, got %d", c.Items[0].Quantity)
	}
	if c.TotalPrice != 560 {
		t.Errorf("Expected total 560, got %d", c.TotalPrice)
	}
}

func TestSetQuantityMissingLine(t *testing.T) {
	c := &Cart{}
	if err := c.SetQuantity(1, 2); err != ErrLineNotFound {
		t.Errorf("Expected ErrLineNotFound, got %v", err)
	}
}

func TestSetQuantityRejectsZero(t *testing.T) {
	c := &Cart{}
	c.AddItem(makeLine(1, 80), 2)
	if err := c.SetQuantity(1, 0); err != ErrInvalidQuantity {
		t.Errorf("Expected ErrInvalidQuantity, got %v", err)
	}
	if c.Items[0].Quantity != 2 {
		t.Error("Rejected set still changed the quantity")
	}
}

func TestClear(t *testing.T) {
	c := &Cart{}
	c.AddItem(makeLine(1, 80), 2)
	c.AddItem(makeLine(2, 50), 1)
	c.Clear()
	if !c.IsEmpty() {
		t.Error("Expected empty cart after clear")
	}
	if c.TotalPrice != 0 || c.TotalQuantity != 0 {
		t.Error("Totals not reset after clear")
	}
}

func TestItemCountIsTotalUnits(t *testing.T) {
	c := &Cart{}
	c.AddItem(makeLine(1, 80), 2)
	c.AddItem(makeLine(2, 50), 3)
	if c.ItemCount() != 5 {
		t.Errorf("Expected 5 units, got %d", c.ItemCount())
	}
	if len(c.Items) != 2 {
		t.Errorf("Expected 2 distinct lines, got %d", len(c.Items))
	}
}

func TestLineOrderIsInsertionOrder(t *testing.T) {
	c := &Cart{}
	c.AddItem(makeLine(3, 10), 1)
	c.AddItem(makeLine(1, 10), 1)
	c.AddItem(makeLine(3, 10), 1)
	c.AddItem(makeLine(2, 10), 1)
	want := []types.ItemId{3, 1, 2}
	for i, id := range want {
		if c.Items[i].ProductId != id {
			t.Errorf("Position %d: expected product %d, got %d", i, id, c.Items[i].ProductId)
		}
	}
}
