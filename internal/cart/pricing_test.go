package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backend/internal/models"
)

func TestUnitPriceWithSurchargeAndDiscount(t *testing.T) {
	product := ProductSnapshot{ID: "p1", BasePrice: 200, Discount: 10}
	customizations := []models.Customization{
		{OptionName: "Size", SelectedValues: []models.SelectedValue{{Name: "Large", Price: 50}}},
	}

	item := Item{Product: product, Quantity: 2, Customizations: customizations}

	assert.InDelta(t, 225.0, item.UnitPrice(), 1e-9)
	assert.InDelta(t, 450.0, item.LineTotal(), 1e-9)
}

func TestUnitPriceWithoutDiscount(t *testing.T) {
	product := ProductSnapshot{ID: "p1", BasePrice: 120}

	assert.InDelta(t, 120.0, UnitPrice(product, nil), 1e-9)
}

func TestDeliveryFeeThreshold(t *testing.T) {
	justUnder := []Item{{Product: ProductSnapshot{ID: "p1", BasePrice: 499.99}, Quantity: 1}}
	assert.Equal(t, 50.0, ComputeTotals(justUnder).DeliveryFee)

	atThreshold := []Item{{Product: ProductSnapshot{ID: "p1", BasePrice: 500}, Quantity: 1}}
	assert.Equal(t, 0.0, ComputeTotals(atThreshold).DeliveryFee)
}

func TestTaxAndTotalComposition(t *testing.T) {
	items := []Item{{Product: ProductSnapshot{ID: "p1", BasePrice: 1000}, Quantity: 1}}
	totals := ComputeTotals(items)

	assert.Equal(t, 1000.0, totals.Subtotal)
	assert.Equal(t, 0.0, totals.DeliveryFee)
	assert.Equal(t, 50.0, totals.Tax)
	assert.Equal(t, 1050.0, totals.Total)
}

func TestTotalsSumRoundedParts(t *testing.T) {
	// 3 x 33.33 = 99.99 subtotal, raw tax 4.9995 -> 5.00 after rounding.
	// The total is the sum of the rounded parts, so the printed numbers
	// always add up line by line.
	items := []Item{{Product: ProductSnapshot{ID: "p1", BasePrice: 33.33}, Quantity: 3}}
	totals := ComputeTotals(items)

	assert.Equal(t, 99.99, totals.Subtotal)
	assert.Equal(t, 50.0, totals.DeliveryFee)
	assert.Equal(t, 5.0, totals.Tax)
	assert.Equal(t, 154.99, totals.Total)
}

func TestItemCountSumsQuantities(t *testing.T) {
	items := []Item{
		{Product: ProductSnapshot{ID: "p1", BasePrice: 100}, Quantity: 2},
		{Product: ProductSnapshot{ID: "p2", BasePrice: 150}, Quantity: 3},
	}

	assert.Equal(t, 5, ComputeTotals(items).ItemCount)
}

func TestEmptyCartTotals(t *testing.T) {
	totals := ComputeTotals(nil)

	assert.Equal(t, 0.0, totals.Subtotal)
	assert.Equal(t, 50.0, totals.DeliveryFee)
	assert.Equal(t, 0, totals.ItemCount)
}
