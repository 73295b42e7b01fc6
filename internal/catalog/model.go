package catalog

// IconKind discriminates the Icon tagged union.
type IconKind string

const (
	// IconSymbolic names an entry of the icon registry.
	IconSymbolic IconKind = "lucide"
	// IconImage carries an uploaded image encoded as a data URL.
	IconImage IconKind = "image"
)

// Icon is either a symbolic registry name or an uploaded image.
// Exactly one of Name and DataURL is populated, selected by Kind.
type Icon struct {
	Kind    IconKind `json:"kind"`
	Name    string   `json:"name,omitempty"`
	DataURL string   `json:"dataUrl,omitempty"`
}

// Part is a leaf of the content tree, owned by a Lesson.
type Part struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	LearningGoals string `json:"learningGoals"`
	StartURL      string `json:"startUrl"`
	InfoURL       string `json:"infoUrl,omitempty"`
	Icon          *Icon  `json:"icon,omitempty"`
	IsEnabled     bool   `json:"isEnabled"`
	DateAvailable string `json:"dateAvailable,omitempty"` // YYYY-MM-DD
	Order         int    `json:"order"`
}

// Lesson is the middle level of the tree, owned by a Topic.
// The order of Parts in the slice is irrelevant; Part.Order drives display.
type Lesson struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Icon          *Icon  `json:"icon,omitempty"`
	LearningGoals string `json:"learningGoals"`
	StartURL      string `json:"startUrl"`
	InfoURL       string `json:"infoUrl,omitempty"`
	IsEnabled     bool   `json:"isEnabled"`
	DateAvailable string `json:"dateAvailable,omitempty"`
	Order         int    `json:"order"`
	Parts         []Part `json:"parts"`
}

// Topic is the top level of the tree.
type Topic struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Icon          *Icon    `json:"icon,omitempty"`
	IsEnabled     bool     `json:"isEnabled"`
	DateAvailable string   `json:"dateAvailable,omitempty"`
	Order         int      `json:"order"`
	Lessons       []Lesson `json:"lessons"`
}

// Tree is the forest of topics and the unit of persistence.
// Every mutation produces a new Tree which is written back whole.
type Tree []Topic

// ItemClass names one of the three tree levels. It keys click counters.
type ItemClass string

const (
	ClassTopic  ItemClass = "topic"
	ClassLesson ItemClass = "lesson"
	ClassPart   ItemClass = "part"
)

// Valid reports whether c is one of the known classes.
func (c ItemClass) Valid() bool {
	switch c {
	case ClassTopic, ClassLesson, ClassPart:
		return true
	}
	return false
}

// Item is the view every level shares for visibility and ordering decisions.
type Item interface {
	ItemID() string
	Enabled() bool
	AvailableOn() string
	SortOrder() int
}

func (t Topic) ItemID() string       { return t.ID }
func (t Topic) Enabled() bool        { return t.IsEnabled }
func (t Topic) AvailableOn() string  { return t.DateAvailable }
func (t Topic) SortOrder() int       { return t.Order }
func (l Lesson) ItemID() string      { return l.ID }
func (l Lesson) Enabled() bool       { return l.IsEnabled }
func (l Lesson) AvailableOn() string { return l.DateAvailable }
func (l Lesson) SortOrder() int      { return l.Order }
func (p Part) ItemID() string        { return p.ID }
func (p Part) Enabled() bool         { return p.IsEnabled }
func (p Part) AvailableOn() string   { return p.DateAvailable }
func (p Part) SortOrder() int        { return p.Order }

func (i *Icon) clone() *Icon {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// Clone returns a deep copy of the part.
func (p Part) Clone() Part {
	p.Icon = p.Icon.clone()
	return p
}

// Clone returns a deep copy of the lesson and its parts.
func (l Lesson) Clone() Lesson {
	l.Icon = l.Icon.clone()
	if l.Parts != nil {
		parts := make([]Part, len(l.Parts))
		for i, p := range l.Parts {
			parts[i] = p.Clone()
		}
		l.Parts = parts
	}
	return l
}

// Clone returns a deep copy of the topic and everything below it.
func (t Topic) Clone() Topic {
	t.Icon = t.Icon.clone()
	if t.Lessons != nil {
		lessons := make([]Lesson, len(t.Lessons))
		for i, l := range t.Lessons {
			lessons[i] = l.Clone()
		}
		t.Lessons = lessons
	}
	return t
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for i, topic := range t {
		out[i] = topic.Clone()
	}
	return out
}
