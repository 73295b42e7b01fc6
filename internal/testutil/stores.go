package testutil

import (
	"context"
	"errors"
	"sync"

	"catalog-go/internal/catalog"
	"catalog-go/internal/content"
	"catalog-go/internal/stats"
)

// ErrInjected is returned by failing test stores.
var ErrInjected = errors.New("injected failure")

// NewTestContentStore returns an empty in-memory content store.
func NewTestContentStore() catalog.ContentStore {
	return content.NewBlobStore(content.NewMemoryBucket())
}

// NewTestStatsStore returns in-memory counters.
func NewTestStatsStore() *stats.MemoryStore {
	return stats.NewMemoryStore()
}

// FlakyContentStore wraps a ContentStore and fails loads or saves on demand.
// It also counts saves.
type FlakyContentStore struct {
	catalog.ContentStore

	mu       sync.Mutex
	failLoad bool
	failSave bool
	saves    int
}

func NewFlakyContentStore(inner catalog.ContentStore) *FlakyContentStore {
	return &FlakyContentStore{ContentStore: inner}
}

// FailLoads toggles load failures.
func (f *FlakyContentStore) FailLoads(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failLoad = fail
}

// FailSaves toggles save failures.
func (f *FlakyContentStore) FailSaves(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSave = fail
}

// Saves returns the number of successful saves.
func (f *FlakyContentStore) Saves() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

func (f *FlakyContentStore) LoadTree(ctx context.Context) (catalog.Tree, error) {
	f.mu.Lock()
	fail := f.failLoad
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.ContentStore.LoadTree(ctx)
}

func (f *FlakyContentStore) SaveTree(ctx context.Context, t catalog.Tree) error {
	f.mu.Lock()
	fail := f.failSave
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	if err := f.ContentStore.SaveTree(ctx, t); err != nil {
		return err
	}
	f.mu.Lock()
	f.saves++
	f.mu.Unlock()
	return nil
}

// FailingStatsStore fails every call.
type FailingStatsStore struct{}

func (FailingStatsStore) LoadStats(context.Context) (catalog.Stats, error) {
	return catalog.Stats{}, ErrInjected
}
func (FailingStatsStore) AddVisit(context.Context, bool) error { return ErrInjected }
func (FailingStatsStore) AddClick(context.Context, catalog.ItemClass, string) error {
	return ErrInjected
}
