package catalog

import "fmt"

// Level is the depth the viewer is drilled into.
type Level int

const (
	LevelRoot Level = iota
	LevelTopic
	LevelLesson
)

func (l Level) String() string {
	switch l {
	case LevelRoot:
		return "root"
	case LevelTopic:
		return "topic"
	case LevelLesson:
		return "lesson"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// MarshalText renders the level by name.
func (l Level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText parses a level name.
func (l *Level) UnmarshalText(b []byte) error {
	switch string(b) {
	case "root":
		*l = LevelRoot
	case "topic":
		*l = LevelTopic
	case "lesson":
		*l = LevelLesson
	default:
		return fmt.Errorf("unknown level %q", b)
	}
	return nil
}

// Location is a navigation state: Root, InTopic(topic) or InLesson(topic, lesson).
type Location struct {
	Level    Level  `json:"level"`
	TopicID  string `json:"topicId,omitempty"`
	LessonID string `json:"lessonId,omitempty"`
}

// Navigator tracks where a viewer is in the tree. It is not persisted;
// a fresh Navigator starts at Root. The zero value is ready to use.
type Navigator struct {
	loc Location
}

// Location returns the current state.
func (n *Navigator) Location() Location { return n.loc }

// SelectTopic moves Root -> InTopic. Disabled topics are not selectable and
// leave the state unchanged.
func (n *Navigator) SelectTopic(t Tree, topicID string) (Topic, error) {
	if n.loc.Level != LevelRoot {
		return Topic{}, fmt.Errorf("select topic from %s: %w", n.loc.Level, ErrNotSelectable)
	}
	topic, ok := t.Topic(topicID)
	if !ok {
		return Topic{}, fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
	}
	if !topic.IsEnabled {
		return Topic{}, fmt.Errorf("topic %s: %w", topicID, ErrNotSelectable)
	}
	n.loc = Location{Level: LevelTopic, TopicID: topicID}
	return topic, nil
}

// SelectLesson moves InTopic -> InLesson, with the same disabled guard.
func (n *Navigator) SelectLesson(t Tree, lessonID string) (Lesson, error) {
	if n.loc.Level != LevelTopic {
		return Lesson{}, fmt.Errorf("select lesson from %s: %w", n.loc.Level, ErrNotSelectable)
	}
	lesson, ok := t.Lesson(n.loc.TopicID, lessonID)
	if !ok {
		return Lesson{}, fmt.Errorf("lesson %s: %w", lessonID, ErrNotFound)
	}
	if !lesson.IsEnabled {
		return Lesson{}, fmt.Errorf("lesson %s: %w", lessonID, ErrNotSelectable)
	}
	n.loc = Location{Level: LevelLesson, TopicID: n.loc.TopicID, LessonID: lessonID}
	return lesson, nil
}

// Back pops exactly one level. Back from Root is a no-op.
func (n *Navigator) Back() {
	switch n.loc.Level {
	case LevelLesson:
		n.loc = Location{Level: LevelTopic, TopicID: n.loc.TopicID}
	case LevelTopic:
		n.loc = Location{}
	}
}

// Crumb jumps via the breadcrumb. Segment 0 is the topic: it always lands on
// InTopic, also when already there. Other segments are the current location
// and do nothing. The breadcrumb never leads to Root.
func (n *Navigator) Crumb(index int) {
	if index == 0 && n.loc.Level == LevelLesson {
		n.loc = Location{Level: LevelTopic, TopicID: n.loc.TopicID}
	}
}

// Reset returns to Root.
func (n *Navigator) Reset() { n.loc = Location{} }

// Reconcile drops levels that no longer exist in t, for example after a
// reload removed the open topic or lesson.
func (n *Navigator) Reconcile(t Tree) {
	if n.loc.Level == LevelRoot {
		return
	}
	if _, ok := t.Topic(n.loc.TopicID); !ok {
		n.loc = Location{}
		return
	}
	if n.loc.Level == LevelLesson {
		if _, ok := t.Lesson(n.loc.TopicID, n.loc.LessonID); !ok {
			n.loc = Location{Level: LevelTopic, TopicID: n.loc.TopicID}
		}
	}
}

// Breadcrumb returns the titles of the open topic and lesson, outermost first.
// It is empty at Root.
func (n *Navigator) Breadcrumb(t Tree) []string {
	var path []string
	if n.loc.Level == LevelRoot {
		return path
	}
	topic, ok := t.Topic(n.loc.TopicID)
	if !ok {
		return path
	}
	path = append(path, topic.Title)
	if n.loc.Level == LevelLesson {
		if lesson, ok := t.Lesson(n.loc.TopicID, n.loc.LessonID); ok {
			path = append(path, lesson.Title)
		}
	}
	return path
}
