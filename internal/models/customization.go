package models

// SelectedValue is one chosen option inside a customization group, with the
// price delta it contributes.
type SelectedValue struct {
	Name  string  `bson:"name" json:"name"`
	Price float64 `bson:"price" json:"price"`
}

// Customization is a customer's selection for one customization group of a
// product, as captured in the cart and carried onto order lines.
type Customization struct {
	OptionName     string          `bson:"optionName" json:"optionName"`
	SelectedValues []SelectedValue `bson:"selectedValues" json:"selectedValues"`
}

// SurchargeTotal sums the price deltas of every selected value across the
// given customization groups.
func SurchargeTotal(customizations []Customization) float64 {
	var total float64
	for _, c := range customizations {
		for _, v := range c.SelectedValues {
			total += v.Price
		}
	}
	return total
}
