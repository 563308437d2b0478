package cart

import (
	"context"
	"log"
	"sync"

	"backend/internal/models"
)

// Store owns the in-memory carts, one per user. Every mutation runs through
// Apply and is then written to the slot; a failed write is logged and the
// in-memory state stays authoritative for the session.
type Store struct {
	mu     sync.Mutex
	slot   Slot
	carts  map[string]State
	loaded map[string]bool
}

func NewStore(slot Slot) *Store {
	return &Store{
		slot:   slot,
		carts:  make(map[string]State),
		loaded: make(map[string]bool),
	}
}

func slotKey(userID string) string {
	return "cart:" + userID
}

// Items returns the user's current lines and totals, rehydrating from the
// slot on first touch.
func (s *Store) Items(ctx context.Context, userID string) ([]Item, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state(ctx, userID)
	return state.Items, ComputeTotals(state.Items)
}

func (s *Store) Add(ctx context.Context, userID string, product ProductSnapshot, quantity int, customizations []models.Customization, specialInstructions string) ([]Item, Totals) {
	return s.apply(ctx, userID, AddItem{
		Product:             product,
		Quantity:            quantity,
		Customizations:      customizations,
		SpecialInstructions: specialInstructions,
	})
}

func (s *Store) Update(ctx context.Context, userID, itemID string, quantity int, customizations []models.Customization, specialInstructions *string) ([]Item, Totals) {
	return s.apply(ctx, userID, UpdateItem{
		ItemID:              itemID,
		Quantity:            quantity,
		Customizations:      customizations,
		SpecialInstructions: specialInstructions,
	})
}

func (s *Store) Remove(ctx context.Context, userID, itemID string) ([]Item, Totals) {
	return s.apply(ctx, userID, RemoveItem{ItemID: itemID})
}

func (s *Store) Recustomize(ctx context.Context, userID, itemID string, customizations []models.Customization) ([]Item, Totals) {
	return s.apply(ctx, userID, Recustomize{ItemID: itemID, Customizations: customizations})
}

func (s *Store) Clear(ctx context.Context, userID string) ([]Item, Totals) {
	return s.apply(ctx, userID, Clear{})
}

func (s *Store) apply(ctx context.Context, userID string, cmd Command) ([]Item, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.state(ctx, userID)
	next := Apply(state, cmd)
	s.carts[userID] = next

	// Persistence is a side effect, never a gate: the mutation already
	// happened as far as the caller is concerned.
	if err := s.slot.Save(ctx, slotKey(userID), next.Items); err != nil {
		log.Println("[CART] [ERROR] cart persist failed:", err)
	}

	return next.Items, ComputeTotals(next.Items)
}

// state returns the cached cart for a user, loading it from the slot exactly
// once. Callers must hold the lock.
func (s *Store) state(ctx context.Context, userID string) State {
	if s.loaded[userID] {
		return s.carts[userID]
	}

	items, err := s.slot.Load(ctx, slotKey(userID))
	if err != nil {
		log.Println("[CART] [ERROR] cart load failed, starting empty:", err)
		items = nil
	}

	state := State{Items: items}
	s.carts[userID] = state
	s.loaded[userID] = true
	return state
}
