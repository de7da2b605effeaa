package repository

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("repository: key not found")

// Backend is a string key/value facility shared by every page (tab) that
// opens it. Writes are last-writer-wins.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, key string) error
	Close() error
}

// Change announces that key was written or removed by the store instance
// identified by Origin.
type Change struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// Signal carries Change notifications between store instances.
type Signal interface {
	Publish(ctx context.Context, change Change) error
	// Subscribe delivers every published change to handler until the
	// returned cancel func is called.
	Subscribe(ctx context.Context, handler func(Change)) (cancel func(), err error)
}
