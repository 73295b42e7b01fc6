package catalog

import (
	"cmp"
	"context"
	"slices"
)

// Analytics records visits and clicks. Every call is fire-and-forget: store
// failures are logged and never returned, so they cannot block navigation.
type Analytics struct {
	store  StatsStore
	logger Logger
}

// NewAnalytics creates an Analytics over store.
func NewAnalytics(store StatsStore, logger Logger) *Analytics {
	return &Analytics{store: store, logger: logger}
}

// RecordVisit counts one page load. The unique visitor counter moves only on
// the first visit of a session.
func (a *Analytics) RecordVisit(ctx context.Context, s *Session) {
	unique := s.markVisited()
	if err := a.store.AddVisit(ctx, unique); err != nil {
		a.logger.Warn("recording visit failed", "session", s.ID, "unique", unique, "error", err)
	}
}

// RecordClick counts one click on an item.
func (a *Analytics) RecordClick(ctx context.Context, class ItemClass, id string) {
	if err := a.store.AddClick(ctx, class, id); err != nil {
		a.logger.Warn("recording click failed", "class", string(class), "id", id, "error", err)
	}
}

// Load returns the current aggregates, or zero stats when the store fails.
func (a *Analytics) Load(ctx context.Context) Stats {
	st, err := a.store.LoadStats(ctx)
	if err != nil {
		a.logger.Error("loading stats failed", "error", err)
		return NewStats()
	}
	return st
}

// ItemClicks pairs an item with its click count for the dashboard.
type ItemClicks struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Clicks int64  `json:"clicks"`
}

// Dashboard is the admin statistics view.
type Dashboard struct {
	TotalVisits    int64        `json:"totalVisits"`
	UniqueVisitors int64        `json:"uniqueVisitors"`
	TopicClicks    []ItemClicks `json:"topicClicks"`
	TopLessons     []ItemClicks `json:"topLessons"`
	MaxTopicClicks int64        `json:"maxTopicClicks"`
}

// TopLessonCount is the length of the popular lessons list.
const TopLessonCount = 5

// BuildDashboard lists clicks per topic in display order and the most
// clicked lessons across the whole tree.
func BuildDashboard(t Tree, st Stats) Dashboard {
	d := Dashboard{
		TotalVisits:    st.TotalVisits,
		UniqueVisitors: st.UniqueVisitors,
		MaxTopicClicks: 1,
	}
	for _, c := range st.Clicks[ClassTopic] {
		d.MaxTopicClicks = max(d.MaxTopicClicks, c)
	}
	var lessons []ItemClicks
	for _, topic := range t.SortedTopics() {
		d.TopicClicks = append(d.TopicClicks, ItemClicks{
			ID: topic.ID, Title: topic.Title, Clicks: st.ClickCount(ClassTopic, topic.ID),
		})
		for _, l := range topic.Lessons {
			lessons = append(lessons, ItemClicks{
				ID: l.ID, Title: l.Title, Clicks: st.ClickCount(ClassLesson, l.ID),
			})
		}
	}
	slices.SortStableFunc(lessons, func(a, b ItemClicks) int { return cmp.Compare(b.Clicks, a.Clicks) })
	if len(lessons) > TopLessonCount {
		lessons = lessons[:TopLessonCount]
	}
	d.TopLessons = lessons
	return d
}
