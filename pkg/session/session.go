package session

import (
	"context"
	"errors"
)

// Key names one persisted slot of the local session mirror. The set matches
// the keys the web front end keeps in browser storage.
type Key string

const (
	KeyToken                Key = "token"
	KeyUser                 Key = "user"
	KeyOrders               Key = "orders"
	KeyReviews              Key = "reviews"
	KeyTheme                Key = "theme"
	KeySelectedBranch       Key = "selectedBranch"
	KeySelectedVehicleModel Key = "selectedVehicleModel"
)

// ErrNotFound is returned when a key has no persisted value.
var ErrNotFound = errors.New("session: key not found")

// Store is the durable key-value surface behind the session mirror.
type Store interface {
	Get(ctx context.Context, key Key) (string, error)
	Set(ctx context.Context, key Key, value string) error
	Del(ctx context.Context, keys ...Key) error
}
