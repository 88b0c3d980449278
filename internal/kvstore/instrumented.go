package kvstore

import (
	"context"
	"time"

	"storefront/internal/telemetry"
)

var _ Store = (*instrumented)(nil)

type instrumented struct {
	next    Store
	backend string
}

// Instrument reports every operation on next to the kv metrics.
func Instrument(next Store, backend string) Store {
	return &instrumented{next: next, backend: backend}
}

func (i *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := i.next.Get(ctx, key)
	telemetry.ObserveStoreOp(i.backend, "get", start, err)
	return v, ok, err
}

func (i *instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := i.next.Set(ctx, key, value)
	telemetry.ObserveStoreOp(i.backend, "set", start, err)
	return err
}

func (i *instrumented) Remove(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Remove(ctx, key)
	telemetry.ObserveStoreOp(i.backend, "remove", start, err)
	return err
}

func (i *instrumented) Close() error {
	return i.next.Close()
}
