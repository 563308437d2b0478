package cart

import (
	"sort"
	"strings"
	"time"

	"backend/internal/models"
)

// ProductSnapshot is the slice of catalog data a cart line keeps from
// add-time. Later catalog edits do not touch existing lines.
type ProductSnapshot struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	BasePrice float64 `json:"basePrice"`
	Discount  float64 `json:"discount"` // percent, 0-100
	Image     string  `json:"image,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// Item is one cart line: a product snapshot plus the customization selection
// that, together with the product id, determines the line's identity.
type Item struct {
	ID                  string                 `json:"id"`
	Product             ProductSnapshot        `json:"product"`
	Quantity            int                    `json:"quantity"`
	Customizations      []models.Customization `json:"customizations"`
	SpecialInstructions string                 `json:"specialInstructions,omitempty"`
	AddedAt             time.Time              `json:"addedAt"`
}

// IdentityKey derives the line identity from the product id and a canonical
// encoding of the customization selection. Two additions with the same
// product and logically equal selections always produce the same key, no
// matter the order the groups or values were picked in.
func IdentityKey(productID string, customizations []models.Customization) string {
	return productID + "_" + canonicalCustomizations(customizations)
}

func canonicalCustomizations(customizations []models.Customization) string {
	groups := make([]string, 0, len(customizations))
	for _, c := range customizations {
		names := make([]string, 0, len(c.SelectedValues))
		for _, v := range c.SelectedValues {
			names = append(names, v.Name)
		}
		sort.Strings(names)
		groups = append(groups, c.OptionName+":"+strings.Join(names, ","))
	}
	sort.Strings(groups)
	return strings.Join(groups, "|")
}
