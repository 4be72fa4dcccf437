package storage

import (
	"context"
	"errors"
)

// Common storage errors
var (
	ErrNotFound = errors.New("key not found")
)

// Well-known per-user keys
const (
	KeyWallet  = "wallet"
	KeyHistory = "history"
	KeyDaily   = "daily"
)

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store. Returning an error aborts the update.
type UpdateFunc func(current []byte) ([]byte, error)

// Store defines the interface for per-user key/value persistence.
// Values are opaque JSON documents.
type Store interface {
	// Get loads a value, returning ErrNotFound if absent
	Get(ctx context.Context, userID, key string) ([]byte, error)

	// Set saves or replaces a value
	Set(ctx context.Context, userID, key string, value []byte) error

	// Delete removes a value; deleting a missing key is not an error
	Delete(ctx context.Context, userID, key string) error

	// Update applies fn as a single read-modify-write
	Update(ctx context.Context, userID, key string, fn UpdateFunc) error

	// Close releases the underlying resources
	Close() error
}

// Options represents storage configuration options
type Options struct {
	Path      string // file or database path
	Addr      string // network address for remote stores
	Password  string
	KeyPrefix string
}

// NewOptions creates a new Options with default values
func NewOptions() *Options {
	return &Options{
		Path:      "affectlab.json",
		KeyPrefix: "affectlab",
	}
}
