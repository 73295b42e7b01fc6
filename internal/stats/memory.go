// Package stats holds the analytics counter backends.
package stats

import (
	"context"
	"maps"
	"sync"

	"catalog-go/internal/catalog"
)

// MemoryStore keeps counters in process. Safe for concurrent use.
type MemoryStore struct {
	mu sync.Mutex
	st catalog.Stats
}

var _ catalog.StatsStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: catalog.NewStats()}
}

func (m *MemoryStore) LoadStats(ctx context.Context) (catalog.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := catalog.Stats{
		TotalVisits:    m.st.TotalVisits,
		UniqueVisitors: m.st.UniqueVisitors,
		Clicks:         make(map[catalog.ItemClass]map[string]int64, len(m.st.Clicks)),
	}
	for class, counts := range m.st.Clicks {
		out.Clicks[class] = maps.Clone(counts)
	}
	return out, nil
}

func (m *MemoryStore) AddVisit(ctx context.Context, unique bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.TotalVisits++
	if unique {
		m.st.UniqueVisitors++
	}
	return nil
}

func (m *MemoryStore) AddClick(ctx context.Context, class catalog.ItemClass, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.st.Clicks[class] == nil {
		m.st.Clicks[class] = map[string]int64{}
	}
	m.st.Clicks[class][id]++
	return nil
}
