package cart

import (
	"context"
	"encoding/json"
	"log"

	"github.com/go-redis/redis/v8"
)

// RedisSlot persists carts as JSON arrays in Redis, one key per user.
type RedisSlot struct {
	client *redis.Client
}

func NewRedisSlot(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client}
}

func (s *RedisSlot) Load(ctx context.Context, key string) ([]Item, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(raw, &items); err != nil {
		// A corrupt slot must not break the session; start from an empty cart.
		log.Println("[CART] [ERROR] unreadable cart payload, treating as empty:", err)
		return nil, nil
	}
	return items, nil
}

func (s *RedisSlot) Save(ctx context.Context, key string, items []Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, raw, 0).Err()
}
