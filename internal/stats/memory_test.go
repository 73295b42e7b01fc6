package stats

import (
	"context"
	"sync"
	"testing"

	"catalog-go/internal/catalog"
)

func TestMemoryStore_Counters(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	_ = m.AddVisit(ctx, true)
	_ = m.AddVisit(ctx, false)
	_ = m.AddClick(ctx, catalog.ClassTopic, "t1")
	_ = m.AddClick(ctx, catalog.ClassTopic, "t1")
	_ = m.AddClick(ctx, catalog.ClassPart, "p9")

	st, err := m.LoadStats(ctx)
	if err != nil {
		t.Fatalf("LoadStats() error = %v", err)
	}
	if st.TotalVisits != 2 || st.UniqueVisitors != 1 {
		t.Errorf("visits = (%d, %d), want (2, 1)", st.TotalVisits, st.UniqueVisitors)
	}
	if got := st.ClickCount(catalog.ClassTopic, "t1"); got != 2 {
		t.Errorf("topic clicks = %d, want 2", got)
	}
	if got := st.ClickCount(catalog.ClassPart, "p9"); got != 1 {
		t.Errorf("part clicks = %d, want 1", got)
	}
}

func TestMemoryStore_LoadStatsReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	_ = m.AddClick(ctx, catalog.ClassLesson, "l1")

	st, _ := m.LoadStats(ctx)
	st.Clicks[catalog.ClassLesson]["l1"] = 100

	again, _ := m.LoadStats(ctx)
	if got := again.ClickCount(catalog.ClassLesson, "l1"); got != 1 {
		t.Errorf("stored clicks = %d after mutating snapshot, want 1", got)
	}
}

func TestMemoryStore_ConcurrentIncrements(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.AddVisit(ctx, false)
			_ = m.AddClick(ctx, catalog.ClassTopic, "t1")
		}()
	}
	wg.Wait()

	st, _ := m.LoadStats(ctx)
	if st.TotalVisits != 50 {
		t.Errorf("TotalVisits = %d, want 50", st.TotalVisits)
	}
	if got := st.ClickCount(catalog.ClassTopic, "t1"); got != 50 {
		t.Errorf("clicks = %d, want 50", got)
	}
}
