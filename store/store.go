// Package store moves flattened configuration in and out of key-value
// backends. The KV interface is the narrow waist: adapters for an
// in-memory map, Redis, and NATS JetStream all satisfy it, and the
// Syncer drives any of them.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("store: key not found")

// DigestKey holds the digest of the last pushed snapshot so a push can
// be skipped when nothing changed. It deliberately does not carry the
// flat-key tag prefix, keeping it out of prefix listings.
const DigestKey = "flatconf.digest"

// KV is the minimal key-value surface the syncer needs.
type KV interface {
	// Put stores value under key, overwriting any previous value.
	Put(ctx context.Context, key, value string) error

	// Get returns the value for key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Keys lists every key starting with prefix, in no particular
	// order.
	Keys(ctx context.Context, prefix string) ([]string, error)

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
