package session

import (
	"context"
	"encoding/json"
	"fmt"
)

// SaveJSON marshals value and stores it under key.
func SaveJSON(ctx context.Context, store Store, key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", key, err)
	}
	return store.Set(ctx, key, string(raw))
}

// LoadJSON hydrates dest from the value stored under key. A corrupt entry is
// deleted and reported as absent: startup must never fail on bad local
// state, only on a broken store.
func LoadJSON(ctx context.Context, store Store, key Key, dest any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		_ = store.Del(ctx, key)
		return ErrNotFound
	}
	return nil
}
