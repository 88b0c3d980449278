// Package fakestore provides an in-memory kvstore.Store with failure and
// blocking hooks for tests.
package fakestore

import (
	"context"
	"sync"

	"storefront/internal/kvstore"
)

var _ kvstore.Store = (*FakeStore)(nil)

type FakeStore struct {
	lock      sync.Mutex
	values    map[string]string
	getErr    map[string]error
	setErr    map[string]error
	removeErr map[string]error
	beforeSet func(key, value string)
	sets      []string
}

func New() *FakeStore {
	return &FakeStore{
		values:    make(map[string]string),
		getErr:    make(map[string]error),
		setErr:    make(map[string]error),
		removeErr: make(map[string]error),
	}
}

// Seed writes a value directly, bypassing hooks.
func (f *FakeStore) Seed(key, value string) *FakeStore {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.values[key] = value
	return f
}

func (f *FakeStore) FailGet(key string, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.getErr[key] = err
}

func (f *FakeStore) FailSet(key string, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.setErr[key] = err
}

func (f *FakeStore) FailRemove(key string, err error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.removeErr[key] = err
}

// BeforeSet runs hook at the start of every Set, outside the store lock,
// so a test can hold a write in flight.
func (f *FakeStore) BeforeSet(hook func(key, value string)) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.beforeSet = hook
}

// Value returns the stored value without hooks.
func (f *FakeStore) Value(key string) (string, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// SetCount reports how many Set calls reached the store for key.
func (f *FakeStore) SetCount(key string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	n := 0
	for _, k := range f.sets {
		if k == key {
			n++
		}
	}
	return n
}

func (f *FakeStore) Get(_ context.Context, key string) (string, bool, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.getErr[key]; err != nil {
		return "", false, err
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FakeStore) Set(_ context.Context, key, value string) error {
	f.lock.Lock()
	hook := f.beforeSet
	f.lock.Unlock()

	if hook != nil {
		hook(key, value)
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	f.sets = append(f.sets, key)
	if err := f.setErr[key]; err != nil {
		return err
	}
	f.values[key] = value
	return nil
}

func (f *FakeStore) Remove(_ context.Context, key string) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	if err := f.removeErr[key]; err != nil {
		return err
	}
	delete(f.values, key)
	return nil
}

func (f *FakeStore) Close() error {
	return nil
}
