package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"backend/internal/models"
)

func TestIdentityKeyOrderInsensitive(t *testing.T) {
	a := []models.Customization{
		{OptionName: "Size", SelectedValues: []models.SelectedValue{{Name: "Large", Price: 50}}},
		{OptionName: "Toppings", SelectedValues: []models.SelectedValue{
			{Name: "Olives", Price: 20},
			{Name: "Jalapenos", Price: 25},
		}},
	}
	b := []models.Customization{
		{OptionName: "Toppings", SelectedValues: []models.SelectedValue{
			{Name: "Jalapenos", Price: 25},
			{Name: "Olives", Price: 20},
		}},
		{OptionName: "Size", SelectedValues: []models.SelectedValue{{Name: "Large", Price: 50}}},
	}

	assert.Equal(t, IdentityKey("p1", a), IdentityKey("p1", b))
}

func TestIdentityKeyDiscriminatesSelections(t *testing.T) {
	small := []models.Customization{
		{OptionName: "Size", SelectedValues: []models.SelectedValue{{Name: "Small", Price: 0}}},
	}
	large := []models.Customization{
		{OptionName: "Size", SelectedValues: []models.SelectedValue{{Name: "Large", Price: 50}}},
	}

	assert.NotEqual(t, IdentityKey("p1", small), IdentityKey("p1", large))
}

func TestIdentityKeyDiscriminatesProducts(t *testing.T) {
	assert.NotEqual(t, IdentityKey("p1", nil), IdentityKey("p2", nil))
}

func TestIdentityKeyNoCustomizations(t *testing.T) {
	assert.Equal(t, "p1_", IdentityKey("p1", nil))
	assert.Equal(t, IdentityKey("p1", nil), IdentityKey("p1", []models.Customization{}))
}
