package cart

import (
	"time"

	"backend/internal/models"
)

// State is the full cart of one user. Item order is insertion order and only
// matters for display.
type State struct {
	Items []Item `json:"items"`
}

// Command is the tagged set of cart mutations. Apply is the single place
// transition logic lives; the store persists after each transition.
type Command interface {
	isCommand()
}

type AddItem struct {
	Product             ProductSnapshot
	Quantity            int
	Customizations      []models.Customization
	SpecialInstructions string
}

// UpdateItem rewrites quantity and, when provided, customizations and
// instructions. Nil Customizations / SpecialInstructions leave the existing
// values untouched. Quantity <= 0 removes the line.
type UpdateItem struct {
	ItemID              string
	Quantity            int
	Customizations      []models.Customization
	SpecialInstructions *string
}

type RemoveItem struct {
	ItemID string
}

// Recustomize swaps a line's customization selection, recomputing its
// identity. If another line already carries the new identity the two merge.
type Recustomize struct {
	ItemID         string
	Customizations []models.Customization
}

type Clear struct{}

func (AddItem) isCommand()     {}
func (UpdateItem) isCommand()  {}
func (RemoveItem) isCommand()  {}
func (Recustomize) isCommand() {}
func (Clear) isCommand()       {}

// Apply is a pure transition function: it never mutates state and has no
// side effects. Commands targeting an unknown item id are no-ops.
func Apply(state State, cmd Command) State {
	switch c := cmd.(type) {
	case AddItem:
		return applyAdd(state, c)
	case UpdateItem:
		if c.Quantity <= 0 {
			return applyRemove(state, RemoveItem{ItemID: c.ItemID})
		}
		return applyUpdate(state, c)
	case RemoveItem:
		return applyRemove(state, c)
	case Recustomize:
		return applyRecustomize(state, c)
	case Clear:
		return State{}
	}
	return state
}

func applyAdd(state State, cmd AddItem) State {
	quantity := cmd.Quantity
	if quantity < 1 {
		quantity = 1
	}

	id := IdentityKey(cmd.Product.ID, cmd.Customizations)

	items := make([]Item, len(state.Items))
	copy(items, state.Items)

	for i := range items {
		if items[i].ID == id {
			items[i].Quantity += quantity
			return State{Items: items}
		}
	}

	items = append(items, Item{
		ID:                  id,
		Product:             cmd.Product,
		Quantity:            quantity,
		Customizations:      cmd.Customizations,
		SpecialInstructions: cmd.SpecialInstructions,
		AddedAt:             time.Now(),
	})
	return State{Items: items}
}

func applyUpdate(state State, cmd UpdateItem) State {
	items := make([]Item, len(state.Items))
	copy(items, state.Items)

	for i := range items {
		if items[i].ID != cmd.ItemID {
			continue
		}
		items[i].Quantity = cmd.Quantity
		if cmd.Customizations != nil {
			items[i].Customizations = cmd.Customizations
		}
		if cmd.SpecialInstructions != nil {
			items[i].SpecialInstructions = *cmd.SpecialInstructions
		}
		break
	}
	return State{Items: items}
}

func applyRemove(state State, cmd RemoveItem) State {
	items := make([]Item, 0, len(state.Items))
	for _, item := range state.Items {
		if item.ID != cmd.ItemID {
			items = append(items, item)
		}
	}
	return State{Items: items}
}

func applyRecustomize(state State, cmd Recustomize) State {
	var source *Item
	for i := range state.Items {
		if state.Items[i].ID == cmd.ItemID {
			source = &state.Items[i]
			break
		}
	}
	if source == nil {
		return state
	}

	newID := IdentityKey(source.Product.ID, cmd.Customizations)

	// A different line may already hold the new identity; merge into it and
	// drop the source so total quantity is preserved.
	for _, item := range state.Items {
		if item.ID == newID && item.ID != cmd.ItemID {
			items := make([]Item, 0, len(state.Items)-1)
			for _, it := range state.Items {
				if it.ID == cmd.ItemID {
					continue
				}
				if it.ID == newID {
					it.Quantity += source.Quantity
				}
				items = append(items, it)
			}
			return State{Items: items}
		}
	}

	items := make([]Item, len(state.Items))
	copy(items, state.Items)
	for i := range items {
		if items[i].ID == cmd.ItemID {
			items[i].ID = newID
			items[i].Customizations = cmd.Customizations
			break
		}
	}
	return State{Items: items}
}
