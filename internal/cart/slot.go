package cart

import (
	"context"
	"sync"
)

// Slot is the durable key-value port the store persists carts through. Load
// must treat a missing or unreadable value as an empty cart, not an error.
type Slot interface {
	Load(ctx context.Context, key string) ([]Item, error)
	Save(ctx context.Context, key string, items []Item) error
}

// MemorySlot keeps carts in process memory. It backs tests and deployments
// without a Redis address configured.
type MemorySlot struct {
	mu   sync.RWMutex
	data map[string][]Item
}

func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: make(map[string][]Item)}
}

func (s *MemorySlot) Load(ctx context.Context, key string) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items, ok := s.data[key]
	if !ok {
		return nil, nil
	}

	out := make([]Item, len(items))
	copy(out, items)
	return out, nil
}

func (s *MemorySlot) Save(ctx context.Context, key string, items []Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]Item, len(items))
	copy(stored, items)
	s.data[key] = stored
	return nil
}
