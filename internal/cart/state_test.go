package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

var margherita = ProductSnapshot{ID: "pizza-1", Name: "Margherita", BasePrice: 200}

func sizeLarge() []models.Customization {
	return []models.Customization{
		{OptionName: "Size", SelectedValues: []models.SelectedValue{{Name: "Large", Price: 50}}},
	}
}

func sizeSmall() []models.Customization {
	return []models.Customization{
		{OptionName: "Size", SelectedValues: []models.SelectedValue{{Name: "Small", Price: 0}}},
	}
}

func TestAddItemMergesIdenticalSelections(t *testing.T) {
	state := State{}
	for i := 0; i < 3; i++ {
		state = Apply(state, AddItem{Product: margherita, Quantity: 1, Customizations: sizeLarge()})
	}

	require.Len(t, state.Items, 1)
	assert.Equal(t, 3, state.Items[0].Quantity)
}

func TestAddItemKeepsDifferentSelectionsDistinct(t *testing.T) {
	state := State{}
	state = Apply(state, AddItem{Product: margherita, Quantity: 1, Customizations: sizeLarge()})
	state = Apply(state, AddItem{Product: margherita, Quantity: 1, Customizations: sizeSmall()})

	assert.Len(t, state.Items, 2)
}

func TestAddItemClampsQuantityToOne(t *testing.T) {
	state := Apply(State{}, AddItem{Product: margherita, Quantity: 0})

	require.Len(t, state.Items, 1)
	assert.Equal(t, 1, state.Items[0].Quantity)
}

func TestUpdateItemQuantityFloor(t *testing.T) {
	for _, quantity := range []int{0, -1} {
		state := Apply(State{}, AddItem{Product: margherita, Quantity: 2})
		itemID := state.Items[0].ID

		state = Apply(state, UpdateItem{ItemID: itemID, Quantity: quantity})
		assert.Empty(t, state.Items, "quantity %d should remove the line", quantity)
	}
}

func TestUpdateItemKeepsFieldsWhenNotProvided(t *testing.T) {
	state := Apply(State{}, AddItem{
		Product:             margherita,
		Quantity:            1,
		Customizations:      sizeLarge(),
		SpecialInstructions: "extra crispy",
	})
	itemID := state.Items[0].ID

	state = Apply(state, UpdateItem{ItemID: itemID, Quantity: 4})

	require.Len(t, state.Items, 1)
	assert.Equal(t, 4, state.Items[0].Quantity)
	assert.Equal(t, sizeLarge(), state.Items[0].Customizations)
	assert.Equal(t, "extra crispy", state.Items[0].SpecialInstructions)
}

func TestUpdateItemReplacesProvidedFields(t *testing.T) {
	state := Apply(State{}, AddItem{Product: margherita, Quantity: 1, SpecialInstructions: "old"})
	itemID := state.Items[0].ID

	note := "no onions"
	state = Apply(state, UpdateItem{ItemID: itemID, Quantity: 1, SpecialInstructions: &note})

	assert.Equal(t, "no onions", state.Items[0].SpecialInstructions)
}

func TestUpdateUnknownItemIsNoop(t *testing.T) {
	state := Apply(State{}, AddItem{Product: margherita, Quantity: 1})

	next := Apply(state, UpdateItem{ItemID: "missing", Quantity: 5})
	assert.Equal(t, state.Items, next.Items)

	next = Apply(state, RemoveItem{ItemID: "missing"})
	assert.Equal(t, state.Items, next.Items)

	next = Apply(state, Recustomize{ItemID: "missing", Customizations: sizeSmall()})
	assert.Equal(t, state.Items, next.Items)
}

func TestRemoveItem(t *testing.T) {
	state := Apply(State{}, AddItem{Product: margherita, Quantity: 2})
	state = Apply(state, RemoveItem{ItemID: state.Items[0].ID})

	assert.Empty(t, state.Items)
}

func TestClear(t *testing.T) {
	state := Apply(State{}, AddItem{Product: margherita, Quantity: 2})
	state = Apply(state, AddItem{Product: ProductSnapshot{ID: "p2", BasePrice: 100}, Quantity: 1})

	state = Apply(state, Clear{})
	assert.Empty(t, state.Items)
}

func TestRecustomizeMergesIntoExistingLine(t *testing.T) {
	state := Apply(State{}, AddItem{Product: margherita, Quantity: 2, Customizations: sizeLarge()})
	state = Apply(state, AddItem{Product: margherita, Quantity: 3, Customizations: sizeSmall()})
	require.Len(t, state.Items, 2)

	// Re-customize the small line to large; it must fold into the large line.
	smallID := state.Items[1].ID
	state = Apply(state, Recustomize{ItemID: smallID, Customizations: sizeLarge()})

	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.Equal(t, sizeLarge(), state.Items[0].Customizations)
}

func TestRecustomizeRewritesLineInPlace(t *testing.T) {
	state := Apply(State{}, AddItem{Product: margherita, Quantity: 2, Customizations: sizeLarge()})
	oldID := state.Items[0].ID

	state = Apply(state, Recustomize{ItemID: oldID, Customizations: sizeSmall()})

	require.Len(t, state.Items, 1)
	assert.NotEqual(t, oldID, state.Items[0].ID)
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.Equal(t, sizeSmall(), state.Items[0].Customizations)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	state := Apply(State{}, AddItem{Product: margherita, Quantity: 1})
	before := state.Items[0].Quantity

	Apply(state, AddItem{Product: margherita, Quantity: 5})
	assert.Equal(t, before, state.Items[0].Quantity)
}
