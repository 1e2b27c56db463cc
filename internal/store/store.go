// Package store defines the key-value persistence port used by omikuji.
// It stands in for a browser's local storage: string keys mapping to
// string values, each written as a whole.
package store

import (
	"errors"
)

// ErrNotFound is returned when a key has never been written or was deleted.
var ErrNotFound = errors.New("store: key not found")

// Store is a string-keyed, string-valued local store.
// Every Set replaces the previous value under that key in a single write;
// there are no partial or delta updates.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Delete removes a key.
	// Returns ErrNotFound if the key does not exist.
	Delete(key string) error

	// Keys returns every stored key in lexical order.
	Keys() ([]string, error)

	// Close releases any resources (DB connections, network clients, etc.).
	Close() error
}

// GetOr returns the value under key, or fallback when the key is absent.
// Errors other than ErrNotFound are returned unchanged.
func GetOr(s Store, key, fallback string) (string, error) {
	value, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return fallback, nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
