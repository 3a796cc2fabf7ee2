package storage

import (
	"context"
)

// Keys of the two entries the session store persists.
const (
	TokenKey = "token"
	UserKey  = "user"
)

// Storage contract for client-local key/value state.
type Storage interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
