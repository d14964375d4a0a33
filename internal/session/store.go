// Package session stores per-customer cart and checkout state.
//
// Values are JSON encoded under named keys scoped by a session id. Two
// implementations are provided: an in-process store for single instances and
// tests, and a Redis-backed store for shared deployments.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known keys.
const (
	KeyCart        = "cart"
	KeyPackageMeta = "package_meta"
	KeyCheckout    = "checkout"
)

// AllKeys lists the keys cleared when a session is reset.
var AllKeys = []string{KeyCart, KeyPackageMeta, KeyCheckout}

// ErrSessionRequired is returned when the session id is empty.
var ErrSessionRequired = errors.New("session id is required")

// Store is a get/set/clear store over named keys.
type Store interface {
	// Get decodes the value under key into dst and reports whether it existed.
	Get(ctx context.Context, sessionID, key string, dst any) (bool, error)
	Set(ctx context.Context, sessionID, key string, value any) error
	// Clear removes the given keys, or every well-known key when none are given.
	Clear(ctx context.Context, sessionID string, keys ...string) error
}

func encode(value any) ([]byte, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode session value: %w", err)
	}
	return b, nil
}

func decode(raw []byte, dst any) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode session value: %w", err)
	}
	return nil
}

func keysOrAll(keys []string) []string {
	if len(keys) == 0 {
		return AllKeys
	}
	return keys
}
