package catalog

import "context"

// ContentStore persists the whole tree. There is no partial persistence:
// SaveTree replaces every topic, lesson and part.
type ContentStore interface {
	// LoadTree returns the stored tree. Returns ErrNoContent if nothing
	// has ever been saved.
	LoadTree(ctx context.Context) (Tree, error)

	// SaveTree replaces the stored tree with t.
	SaveTree(ctx context.Context, t Tree) error
}

// StatsStore keeps the visit and click aggregates.
type StatsStore interface {
	// LoadStats returns the current aggregates.
	LoadStats(ctx context.Context) (Stats, error)

	// AddVisit increments the total visit counter, and the unique visitor
	// counter as well when unique is true.
	AddVisit(ctx context.Context, unique bool) error

	// AddClick increments the click counter of one item.
	AddClick(ctx context.Context, class ItemClass, id string) error
}

// Stats is the snapshot returned by StatsStore.LoadStats.
type Stats struct {
	TotalVisits    int64                          `json:"totalVisits"`
	UniqueVisitors int64                          `json:"uniqueVisitors"`
	Clicks         map[ItemClass]map[string]int64 `json:"clicks"`
}

// NewStats returns zeroed stats with an empty click map per class.
func NewStats() Stats {
	return Stats{
		Clicks: map[ItemClass]map[string]int64{
			ClassTopic:  {},
			ClassLesson: {},
			ClassPart:   {},
		},
	}
}

// ClickCount returns the clicks recorded for one item, zero when absent.
func (s Stats) ClickCount(class ItemClass, id string) int64 {
	return s.Clicks[class][id]
}
