package testutil

import (
	"context"
	"testing"

	"catalog-go/internal/catalog"
)

// Fixture bundles a Catalog wired to in-memory stores and stub clock/ids.
type Fixture struct {
	Catalog  *catalog.Catalog
	Editor   *catalog.Editor
	Sessions *catalog.Sessions
	Store    *FlakyContentStore
	Stats    catalog.StatsStore
	Clock    *StubClock
	IDs      *StubIDGenerator
	Logger   *RecordingLogger
}

// NewFixture loads tree into a fresh in-memory catalog. A nil tree leaves
// the store unwritten.
func NewFixture(t *testing.T, tree catalog.Tree) *Fixture {
	t.Helper()
	ctx := context.Background()

	store := NewFlakyContentStore(NewTestContentStore())
	if tree != nil {
		if err := store.ContentStore.SaveTree(ctx, tree); err != nil {
			t.Fatalf("seeding content: %v", err)
		}
	}
	f := &Fixture{
		Store:  store,
		Stats:  NewTestStatsStore(),
		Clock:  FixedClock(),
		IDs:    NewStubIDGenerator(),
		Logger: NewRecordingLogger(),
	}
	analytics := catalog.NewAnalytics(f.Stats, f.Logger)
	f.Catalog = catalog.NewCatalog(store, analytics, f.Logger, f.Clock, false)
	f.Catalog.Load(ctx)
	f.Editor = catalog.NewEditor(f.Catalog, f.IDs, f.Logger)
	f.Sessions = catalog.NewSessions(NewPrefixedIDGenerator("sess"), f.Clock)
	f.Catalog.OnReload(func(catalog.Tree) { f.Sessions.DiscardEdits() })
	return f
}
