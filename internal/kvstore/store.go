// Package kvstore is the device key-value store the client state persists to.
// Values are opaque strings; callers own the encoding.
package kvstore

import (
	"context"
	"errors"
)

// Keys written by the client. Their names and encodings are a compatibility
// surface: changing them needs a migration.
const (
	KeyToken        = "token"
	KeyUserInfo     = "userInfo"
	KeyDarkMode     = "@dark_mode"
	KeyOrderHistory = "@order_history"
)

var ErrClosed = errors.New("kvstore: store closed")

// Store is an async-safe string store without transactions or schema.
// Get reports a missing key as ok=false with a nil error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
