package cart

import (
	"math"

	"backend/internal/models"
)

const (
	deliveryFeeFlat       = 50.0
	freeDeliveryThreshold = 500.0
	taxRate               = 0.05
)

// UnitPrice is the price of one unit of a line: base price plus the sum of
// every selected customization value, with the product discount applied on
// top. No catalog validation happens here; the add-time snapshot is trusted.
func UnitPrice(product ProductSnapshot, customizations []models.Customization) float64 {
	price := product.BasePrice + models.SurchargeTotal(customizations)
	if product.Discount > 0 {
		price *= 1 - product.Discount/100
	}
	return price
}

// UnitPrice returns the per-unit price of this line.
func (i Item) UnitPrice() float64 {
	return UnitPrice(i.Product, i.Customizations)
}

// LineTotal is the unit price times the quantity.
func (i Item) LineTotal() float64 {
	return i.UnitPrice() * float64(i.Quantity)
}

// Totals is the cart-level aggregation shown at checkout.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
	ItemCount   int     `json:"itemCount"`
}

// ComputeTotals aggregates line totals. The delivery fee threshold compares
// the raw subtotal; subtotal and tax are rounded independently and the total
// is their sum, so the printed numbers always add up.
func ComputeTotals(items []Item) Totals {
	var subtotal float64
	var count int
	for _, item := range items {
		subtotal += item.LineTotal()
		count += item.Quantity
	}

	var deliveryFee float64
	if subtotal < freeDeliveryThreshold {
		deliveryFee = deliveryFeeFlat
	}

	roundedSubtotal := round2(subtotal)
	roundedTax := round2(subtotal * taxRate)

	return Totals{
		Subtotal:    roundedSubtotal,
		DeliveryFee: deliveryFee,
		Tax:         roundedTax,
		Total:       round2(roundedSubtotal + deliveryFee + roundedTax),
		ItemCount:   count,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
