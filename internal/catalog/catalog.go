package catalog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Catalog owns the in-memory tree and keeps it in step with the ContentStore.
// Mutations go through Mutate, which persists the whole new tree before it
// replaces the in-memory copy, so a failed save leaves state untouched.
// Concurrent editors are not coordinated beyond serialising writes: the last
// completed save wins.
type Catalog struct {
	store     ContentStore
	analytics *Analytics
	logger    Logger
	clock     Clock
	seedDemo  bool

	mu       sync.RWMutex
	tree     Tree
	onReload []func(Tree)
}

// NewCatalog creates a Catalog. Call Load before serving.
// With seedDemo set, a store that has never been written is seeded with DemoTree.
func NewCatalog(store ContentStore, analytics *Analytics, logger Logger, clock Clock, seedDemo bool) *Catalog {
	return &Catalog{
		store:     store,
		analytics: analytics,
		logger:    logger,
		clock:     clock,
		seedDemo:  seedDemo,
		tree:      Tree{},
	}
}

// Analytics returns the counters used for clicks and visits.
func (c *Catalog) Analytics() *Analytics { return c.analytics }

// Clock returns the catalog's time source.
func (c *Catalog) Clock() Clock { return c.clock }

// Load reads the tree from the store. It never fails: an unreachable store
// yields an empty tree and an error log.
func (c *Catalog) Load(ctx context.Context) Tree {
	t := c.fetch(ctx)
	c.mu.Lock()
	c.tree = t
	c.mu.Unlock()
	return t.Clone()
}

func (c *Catalog) fetch(ctx context.Context) Tree {
	t, err := c.store.LoadTree(ctx)
	switch {
	case err == nil:
		if t == nil {
			t = Tree{}
		}
		return t
	case errors.Is(err, ErrNoContent) && c.seedDemo:
		demo := DemoTree()
		if err := c.store.SaveTree(ctx, demo); err != nil {
			c.logger.Error("seeding demo content failed", "error", err)
		} else {
			c.logger.Info("seeded demo content")
		}
		return demo
	case errors.Is(err, ErrNoContent):
		return Tree{}
	default:
		c.logger.Error("loading content failed", "error", err)
		return Tree{}
	}
}

// Refresh reloads the tree, overwriting in-memory state, and notifies reload
// listeners. Open editor drafts are discarded by those listeners.
func (c *Catalog) Refresh(ctx context.Context) Tree {
	t := c.Load(ctx)
	c.mu.RLock()
	listeners := append([]func(Tree){}, c.onReload...)
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(t.Clone())
	}
	c.logger.Debug("content refreshed")
	return t
}

// OnReload registers fn to run after every Refresh.
func (c *Catalog) OnReload(fn func(Tree)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReload = append(c.onReload, fn)
}

// Tree returns a copy of the current tree.
func (c *Catalog) Tree() Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tree.Clone()
}

// Mutate computes a new tree from the current one with fn, saves it and only
// then swaps it in. Errors from fn or the store leave the catalog unchanged.
func (c *Catalog) Mutate(ctx context.Context, fn func(Tree) (Tree, error)) (Tree, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(c.tree.Clone())
	if err != nil {
		return nil, err
	}
	if err := c.store.SaveTree(ctx, next); err != nil {
		c.logger.Error("saving content failed", "error", err)
		return nil, fmt.Errorf("saving tree: %w: %w", ErrStoreUnavailable, err)
	}
	c.tree = next
	return next.Clone(), nil
}

// Save writes the current tree back unchanged.
func (c *Catalog) Save(ctx context.Context) error {
	_, err := c.Mutate(ctx, func(t Tree) (Tree, error) { return t, nil })
	return err
}

// RefreshIfChanged reloads only when the stored tree differs from the one in
// memory. It reports whether a refresh happened. Used by the file watcher,
// which also sees this process's own saves.
func (c *Catalog) RefreshIfChanged(ctx context.Context) bool {
	stored, err := c.store.LoadTree(ctx)
	if err != nil {
		c.logger.Warn("checking stored content failed", "error", err)
		return false
	}
	current := c.Tree()
	if reflect.DeepEqual(stored.Normalize(), current.Normalize()) {
		return false
	}
	c.Refresh(ctx)
	return true
}
