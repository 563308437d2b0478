package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomizationChoice is a single selectable option inside a customization
// group, carrying its price delta.
type CustomizationChoice struct {
	Name      string  `bson:"name" json:"name"`
	Price     float64 `bson:"price" json:"price"`
	IsDefault bool    `bson:"isDefault" json:"isDefault"`
}

// CustomizationGroup is a named single- or multi-select set of paid options
// attached to a product.
type CustomizationGroup struct {
	Name     string                `bson:"name" json:"name"`
	Type     string                `bson:"type" json:"type"` // "single" or "multiple"
	Required bool                  `bson:"required" json:"required"`
	Options  []CustomizationChoice `bson:"options" json:"options"`
}

type NutritionalInfo struct {
	Calories float64 `bson:"calories,omitempty" json:"calories,omitempty"`
	Protein  float64 `bson:"protein,omitempty" json:"protein,omitempty"`
	Carbs    float64 `bson:"carbs,omitempty" json:"carbs,omitempty"`
	Fat      float64 `bson:"fat,omitempty" json:"fat,omitempty"`
}

type Rating struct {
	Average float64 `bson:"average" json:"average"`
	Count   int     `bson:"count" json:"count"`
}

// Product is the catalog entry. Customization groups are read-only input to
// cart pricing; the cart snapshots what it needs at add-time.
type Product struct {
	ID                   primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name                 string               `bson:"name" json:"name"`
	Description          string               `bson:"description,omitempty" json:"description,omitempty"`
	Category             string               `bson:"category" json:"category"`
	BasePrice            float64              `bson:"basePrice" json:"basePrice"`
	Image                string               `bson:"image,omitempty" json:"image,omitempty"`
	IsVegetarian         bool                 `bson:"isVegetarian" json:"isVegetarian"`
	Allergens            []string             `bson:"allergens,omitempty" json:"allergens,omitempty"`
	NutritionalInfo      *NutritionalInfo     `bson:"nutritionalInfo,omitempty" json:"nutritionalInfo,omitempty"`
	CustomizationOptions []CustomizationGroup `bson:"customizationOptions,omitempty" json:"customizationOptions,omitempty"`
	IsAvailable          bool                 `bson:"isAvailable" json:"isAvailable"`
	PreparationTime      int                  `bson:"preparationTime" json:"preparationTime"` // minutes
	Rating               Rating               `bson:"rating" json:"rating"`
	Tags                 []string             `bson:"tags,omitempty" json:"tags,omitempty"`
	Discount             float64              `bson:"discount" json:"discount"` // percent, 0-100
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// DiscountedPrice returns the base price with the product discount applied.
func (p Product) DiscountedPrice() float64 {
	return p.BasePrice * (1 - p.Discount/100)
}
