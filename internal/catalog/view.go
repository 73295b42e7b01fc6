package catalog

import (
	"context"
	"fmt"
)

// Tile is one rendered item of the current level.
type Tile struct {
	Class         ItemClass `json:"class"`
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Icon          *Icon     `json:"icon,omitempty"`
	Status        Status    `json:"status"`
	Caption       string    `json:"caption,omitempty"`
	Selectable    bool      `json:"selectable"`
	Position      int       `json:"position"`
	Description   string    `json:"description,omitempty"`
	LearningGoals string    `json:"learningGoals,omitempty"`
	StartURL      string    `json:"startUrl,omitempty"`
	InfoURL       string    `json:"infoUrl,omitempty"`
	HasGuide      bool      `json:"hasGuide,omitempty"`
}

// Screen is what a viewer sees at its current location.
type Screen struct {
	Location    Location `json:"location"`
	Breadcrumb  []string `json:"breadcrumb"`
	Tiles       []Tile   `json:"tiles"`
	TotalVisits *int64   `json:"totalVisits,omitempty"`
	Empty       bool     `json:"empty"`
}

func newTile(class ItemClass, item Item, title string, icon *Icon, pos int, clock Clock) Tile {
	v := Visible(item, clock.Now())
	return Tile{
		Class:      class,
		ID:         item.ItemID(),
		Title:      title,
		Icon:       ResolveIcon(icon),
		Status:     v.Status,
		Caption:    v.Caption(class),
		Selectable: v.Selectable(),
		Position:   pos,
	}
}

// View renders the session's current level. Disabled items are included,
// flagged not selectable. At Root the total visit count is attached.
func (c *Catalog) View(ctx context.Context, s *Session) Screen {
	t := c.Tree()
	var scr Screen
	_ = s.Navigate(func(n *Navigator) error {
		n.Reconcile(t)
		scr.Location = n.Location()
		scr.Breadcrumb = n.Breadcrumb(t)
		return nil
	})
	if scr.Breadcrumb == nil {
		scr.Breadcrumb = []string{}
	}
	scr.Tiles = []Tile{}

	switch scr.Location.Level {
	case LevelRoot:
		for i, topic := range t.SortedTopics() {
			scr.Tiles = append(scr.Tiles, newTile(ClassTopic, topic, topic.Title, topic.Icon, i, c.clock))
		}
		visits := c.analytics.Load(ctx).TotalVisits
		scr.TotalVisits = &visits
		scr.Empty = len(t) == 0
	case LevelTopic:
		topic, _ := t.Topic(scr.Location.TopicID)
		for i, l := range topic.SortedLessons() {
			tile := newTile(ClassLesson, l, l.Title, l.Icon, i, c.clock)
			tile.LearningGoals = l.LearningGoals
			tile.StartURL = l.StartURL
			tile.InfoURL = l.InfoURL
			scr.Tiles = append(scr.Tiles, tile)
		}
	case LevelLesson:
		lesson, _ := t.Lesson(scr.Location.TopicID, scr.Location.LessonID)
		for i, p := range lesson.SortedParts() {
			tile := newTile(ClassPart, p, p.Title, p.Icon, i, c.clock)
			tile.Description = p.Description
			tile.LearningGoals = p.LearningGoals
			tile.StartURL = p.StartURL
			tile.InfoURL = p.InfoURL
			tile.HasGuide = p.InfoURL != ""
			scr.Tiles = append(scr.Tiles, tile)
		}
	}
	return scr
}

// SelectTopic drills into a topic and counts the click. Selecting a disabled
// topic changes nothing and counts nothing.
func (c *Catalog) SelectTopic(ctx context.Context, s *Session, topicID string) (Topic, error) {
	t := c.Tree()
	var topic Topic
	err := s.Navigate(func(n *Navigator) error {
		var err error
		topic, err = n.SelectTopic(t, topicID)
		return err
	})
	if err != nil {
		c.logger.Debug("topic not selected", "id", topicID, "error", err)
		return Topic{}, err
	}
	c.analytics.RecordClick(ctx, ClassTopic, topicID)
	return topic, nil
}

// SelectLesson drills into a lesson of the open topic and counts the click.
func (c *Catalog) SelectLesson(ctx context.Context, s *Session, lessonID string) (Lesson, error) {
	t := c.Tree()
	var lesson Lesson
	err := s.Navigate(func(n *Navigator) error {
		var err error
		lesson, err = n.SelectLesson(t, lessonID)
		return err
	})
	if err != nil {
		c.logger.Debug("lesson not selected", "id", lessonID, "error", err)
		return Lesson{}, err
	}
	c.analytics.RecordClick(ctx, ClassLesson, lessonID)
	return lesson, nil
}

// OpenPart counts a click on a part of the open lesson and returns it so the
// caller can follow StartURL. Navigation does not change.
func (c *Catalog) OpenPart(ctx context.Context, s *Session, partID string) (Part, error) {
	loc := s.Location()
	if loc.Level != LevelLesson {
		return Part{}, fmt.Errorf("open part from %s: %w", loc.Level, ErrNotSelectable)
	}
	part, ok := c.Tree().Part(loc.TopicID, loc.LessonID, partID)
	if !ok {
		return Part{}, fmt.Errorf("part %s: %w", partID, ErrNotFound)
	}
	if !part.IsEnabled {
		return Part{}, fmt.Errorf("part %s: %w", partID, ErrNotSelectable)
	}
	c.analytics.RecordClick(ctx, ClassPart, partID)
	return part, nil
}

// Back pops one navigation level.
func (c *Catalog) Back(s *Session) Location {
	var loc Location
	_ = s.Navigate(func(n *Navigator) error {
		n.Back()
		loc = n.Location()
		return nil
	})
	return loc
}

// Crumb follows a breadcrumb segment.
func (c *Catalog) Crumb(s *Session, index int) Location {
	var loc Location
	_ = s.Navigate(func(n *Navigator) error {
		n.Crumb(index)
		loc = n.Location()
		return nil
	})
	return loc
}
