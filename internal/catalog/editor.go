package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Default titles for freshly created items.
const (
	NewTopicTitle  = "Nieuw Onderwerp"
	NewLessonTitle = "Nieuwe Les"
	NewPartTitle   = "Nieuw Onderdeel"
)

// errUnchanged aborts a Mutate without saving.
var errUnchanged = errors.New("unchanged")

// Editor performs the admin create/update/delete/reorder operations. Each
// operation builds a new tree, persists it whole and swaps it in together;
// nothing is saved partially. No field validation happens: empty titles
// and URLs are stored as given.
type Editor struct {
	catalog *Catalog
	ids     IDGenerator
	logger  Logger
}

// NewEditor creates an editor over c.
func NewEditor(c *Catalog, ids IDGenerator, logger Logger) *Editor {
	return &Editor{catalog: c, ids: ids, logger: logger}
}

func (e *Editor) notFound(op string, err error, args ...any) error {
	if errors.Is(err, ErrNotFound) {
		e.logger.Warn(op+": unknown id", append(args, "error", err)...)
	}
	return err
}

// CreateTopic appends a topic with default values and order = count+1, and
// opens it in es.
func (e *Editor) CreateTopic(ctx context.Context, es *EditSession) (Topic, error) {
	var topic Topic
	_, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) {
		topic = Topic{
			ID:        e.ids.New(),
			Title:     NewTopicTitle,
			IsEnabled: true,
			Order:     t.NextTopicOrder(),
			Icon:      DefaultIcon(ClassTopic),
			Lessons:   []Lesson{},
		}
		return t.AddTopic(topic), nil
	})
	if err != nil {
		return Topic{}, err
	}
	e.logger.Info("topic created", "id", topic.ID)
	if es != nil {
		es.openTopic(topic)
	}
	return topic, nil
}

// CreateLesson adds a lesson to topicID after its existing lessons
// (order = max+1) and opens it in es.
func (e *Editor) CreateLesson(ctx context.Context, es *EditSession, topicID string) (Lesson, error) {
	var lesson Lesson
	_, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) {
		topic, ok := t.Topic(topicID)
		if !ok {
			return nil, fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
		}
		lesson = Lesson{
			ID:        e.ids.New(),
			Title:     NewLessonTitle,
			IsEnabled: true,
			Order:     topic.NextLessonOrder(),
			Icon:      DefaultIcon(ClassLesson),
			Parts:     []Part{},
		}
		return t.AddLesson(topicID, lesson)
	})
	if err != nil {
		return Lesson{}, e.notFound("create lesson", err, "topic", topicID)
	}
	e.logger.Info("lesson created", "topic", topicID, "id", lesson.ID)
	if es != nil {
		es.openLesson(topicID, lesson)
	}
	return lesson, nil
}

// CreatePart adds a part to a lesson after its existing parts and opens it
// in es. An open editor for the owning lesson stays open and sees the part.
func (e *Editor) CreatePart(ctx context.Context, es *EditSession, topicID, lessonID string) (Part, error) {
	var part Part
	next, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) {
		lesson, ok := t.Lesson(topicID, lessonID)
		if !ok {
			return nil, fmt.Errorf("lesson %s/%s: %w", topicID, lessonID, ErrNotFound)
		}
		part = Part{
			ID:        e.ids.New(),
			Title:     NewPartTitle,
			IsEnabled: true,
			Order:     lesson.NextPartOrder(),
			Icon:      DefaultIcon(ClassPart),
		}
		return t.AddPart(topicID, lessonID, part)
	})
	if err != nil {
		return Part{}, e.notFound("create part", err, "topic", topicID, "lesson", lessonID)
	}
	e.logger.Info("part created", "topic", topicID, "lesson", lessonID, "id", part.ID)
	if es != nil {
		es.openPart(topicID, lessonID, part)
		es.syncLessonParts(next, topicID, lessonID)
	}
	return part, nil
}

// UpdateTopic replaces the topic with the same id. Unknown ids are logged and
// rejected with ErrNotFound.
func (e *Editor) UpdateTopic(ctx context.Context, topic Topic) (Tree, error) {
	next, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) { return t.ReplaceTopic(topic) })
	if err != nil {
		return nil, e.notFound("update topic", err, "id", topic.ID)
	}
	return next, nil
}

// UpdateLesson replaces a lesson inside topicID.
func (e *Editor) UpdateLesson(ctx context.Context, topicID string, lesson Lesson) (Tree, error) {
	next, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) { return t.ReplaceLesson(topicID, lesson) })
	if err != nil {
		return nil, e.notFound("update lesson", err, "topic", topicID, "id", lesson.ID)
	}
	return next, nil
}

// UpdatePart replaces a part inside a lesson.
func (e *Editor) UpdatePart(ctx context.Context, topicID, lessonID string, part Part) (Tree, error) {
	next, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) { return t.ReplacePart(topicID, lessonID, part) })
	if err != nil {
		return nil, e.notFound("update part", err, "topic", topicID, "lesson", lessonID, "id", part.ID)
	}
	return next, nil
}

// confirmed asks confirm, mapping a "no" to ErrConfirmationDeclined.
func (e *Editor) confirmed(ctx context.Context, confirm Confirmer, prompt string) error {
	ok, err := confirm.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("asking confirmation: %w", err)
	}
	if !ok {
		e.logger.Info("delete cancelled", "prompt", prompt)
		return ErrConfirmationDeclined
	}
	return nil
}

// DeleteTopic asks for confirmation and removes the topic with all its
// lessons and parts.
func (e *Editor) DeleteTopic(ctx context.Context, confirm Confirmer, topicID string) error {
	topic, ok := e.catalog.Tree().Topic(topicID)
	if !ok {
		return e.notFound("delete topic", fmt.Errorf("topic %s: %w", topicID, ErrNotFound), "id", topicID)
	}
	if err := e.confirmed(ctx, confirm, fmt.Sprintf("Onderwerp %q verwijderen?", topic.Title)); err != nil {
		return err
	}
	if _, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) { return t.RemoveTopic(topicID) }); err != nil {
		return e.notFound("delete topic", err, "id", topicID)
	}
	e.logger.Info("topic deleted", "id", topicID, "lessons", len(topic.Lessons))
	return nil
}

// DeleteLesson asks for confirmation and removes the lesson and its parts.
func (e *Editor) DeleteLesson(ctx context.Context, confirm Confirmer, topicID, lessonID string) error {
	lesson, ok := e.catalog.Tree().Lesson(topicID, lessonID)
	if !ok {
		return e.notFound("delete lesson", fmt.Errorf("lesson %s/%s: %w", topicID, lessonID, ErrNotFound), "topic", topicID, "id", lessonID)
	}
	if err := e.confirmed(ctx, confirm, fmt.Sprintf("Les %q verwijderen?", lesson.Title)); err != nil {
		return err
	}
	if _, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) { return t.RemoveLesson(topicID, lessonID) }); err != nil {
		return e.notFound("delete lesson", err, "topic", topicID, "id", lessonID)
	}
	e.logger.Info("lesson deleted", "topic", topicID, "id", lessonID, "parts", len(lesson.Parts))
	return nil
}

// DeletePart asks for confirmation and removes the part.
func (e *Editor) DeletePart(ctx context.Context, confirm Confirmer, topicID, lessonID, partID string) error {
	part, ok := e.catalog.Tree().Part(topicID, lessonID, partID)
	if !ok {
		return e.notFound("delete part", fmt.Errorf("part %s/%s/%s: %w", topicID, lessonID, partID, ErrNotFound), "id", partID)
	}
	if err := e.confirmed(ctx, confirm, fmt.Sprintf("Onderdeel %q verwijderen?", part.Title)); err != nil {
		return err
	}
	if _, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) { return t.RemovePart(topicID, lessonID, partID) }); err != nil {
		return e.notFound("delete part", err, "id", partID)
	}
	e.logger.Info("part deleted", "topic", topicID, "lesson", lessonID, "id", partID)
	return nil
}

// move runs a reorder transform and persists only when something moved.
func (e *Editor) move(ctx context.Context, fn func(Tree) (Tree, bool, error)) (bool, error) {
	_, err := e.catalog.Mutate(ctx, func(t Tree) (Tree, error) {
		next, moved, err := fn(t)
		if err != nil {
			return nil, err
		}
		if !moved {
			return nil, errUnchanged
		}
		return next, nil
	})
	if errors.Is(err, errUnchanged) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MoveTopic swaps the topic at display index with its neighbour in direction
// and renumbers all topics densely from 1. Out-of-range moves are no-ops.
func (e *Editor) MoveTopic(ctx context.Context, index, direction int) (bool, error) {
	return e.move(ctx, func(t Tree) (Tree, bool, error) {
		next, moved := t.MoveTopic(index, direction)
		return next, moved, nil
	})
}

// MoveLesson reorders lessons within a topic.
func (e *Editor) MoveLesson(ctx context.Context, topicID string, index, direction int) (bool, error) {
	moved, err := e.move(ctx, func(t Tree) (Tree, bool, error) { return t.MoveLesson(topicID, index, direction) })
	return moved, e.notFound("move lesson", err, "topic", topicID)
}

// MovePart reorders parts within a lesson.
func (e *Editor) MovePart(ctx context.Context, topicID, lessonID string, index, direction int) (bool, error) {
	moved, err := e.move(ctx, func(t Tree) (Tree, bool, error) { return t.MovePart(topicID, lessonID, index, direction) })
	return moved, e.notFound("move part", err, "topic", topicID, "lesson", lessonID)
}

// Open loads an existing item into es, closing whatever the modal rules
// require.
func (e *Editor) Open(es *EditSession, class ItemClass, topicID, lessonID, id string) error {
	t := e.catalog.Tree()
	switch class {
	case ClassTopic:
		topic, ok := t.Topic(id)
		if !ok {
			return e.notFound("open topic", fmt.Errorf("topic %s: %w", id, ErrNotFound), "id", id)
		}
		es.openTopic(topic)
	case ClassLesson:
		lesson, ok := t.Lesson(topicID, id)
		if !ok {
			return e.notFound("open lesson", fmt.Errorf("lesson %s/%s: %w", topicID, id, ErrNotFound), "id", id)
		}
		es.openLesson(topicID, lesson)
	case ClassPart:
		part, ok := t.Part(topicID, lessonID, id)
		if !ok {
			return e.notFound("open part", fmt.Errorf("part %s/%s/%s: %w", topicID, lessonID, id, ErrNotFound), "id", id)
		}
		es.openPart(topicID, lessonID, part)
	default:
		return fmt.Errorf("unknown item class %q", class)
	}
	return nil
}

// SaveTopic persists the topic draft and closes it. The draft stays open if
// the save fails.
func (e *Editor) SaveTopic(ctx context.Context, es *EditSession) (Topic, error) {
	draft, ok := es.TopicDraft()
	if !ok {
		return Topic{}, ErrNoEditSession
	}
	if _, err := e.UpdateTopic(ctx, draft); err != nil {
		return Topic{}, err
	}
	es.Close(ClassTopic)
	return draft, nil
}

// SaveLesson persists the lesson draft, including parts removed from it, and
// closes it.
func (e *Editor) SaveLesson(ctx context.Context, es *EditSession) (Lesson, error) {
	draft, ok := es.LessonDraft()
	if !ok {
		return Lesson{}, ErrNoEditSession
	}
	if _, err := e.UpdateLesson(ctx, draft.TopicID, draft.Lesson); err != nil {
		return Lesson{}, err
	}
	es.Close(ClassLesson)
	return draft.Lesson, nil
}

// SavePart persists the part draft and closes it. If the owning lesson is
// open in the same session its snapshot picks up the change.
func (e *Editor) SavePart(ctx context.Context, es *EditSession) (Part, error) {
	draft, ok := es.PartDraft()
	if !ok {
		return Part{}, ErrNoEditSession
	}
	next, err := e.UpdatePart(ctx, draft.TopicID, draft.LessonID, draft.Part)
	if err != nil {
		return Part{}, err
	}
	es.Close(ClassPart)
	es.syncLessonParts(next, draft.TopicID, draft.LessonID)
	return draft.Part, nil
}

// Save persists whichever draft is innermost: part, then lesson, then topic.
func (e *Editor) Save(ctx context.Context, es *EditSession) (ItemClass, error) {
	state := es.State()
	switch {
	case state.Part != nil:
		_, err := e.SavePart(ctx, es)
		return ClassPart, err
	case state.Lesson != nil:
		_, err := e.SaveLesson(ctx, es)
		return ClassLesson, err
	case state.Topic != nil:
		_, err := e.SaveTopic(ctx, es)
		return ClassTopic, err
	}
	return "", ErrNoEditSession
}

// RemoveDraftPart drops a part from the open lesson draft after confirmation.
// The removal is persisted when the lesson is saved.
func (e *Editor) RemoveDraftPart(ctx context.Context, es *EditSession, confirm Confirmer, partID string) error {
	draft, ok := es.LessonDraft()
	if !ok {
		return ErrNoEditSession
	}
	if indexOf(draft.Lesson.Parts, partID) < 0 {
		return e.notFound("remove draft part", fmt.Errorf("part %s: %w", partID, ErrNotFound), "id", partID)
	}
	if err := e.confirmed(ctx, confirm, "Verwijderen?"); err != nil {
		return err
	}
	es.removeLessonPart(partID)
	return nil
}

// LessonDraft is an open lesson editor.
type LessonDraft struct {
	TopicID string `json:"topicId"`
	Lesson  Lesson `json:"lesson"`
}

// PartDraft is an open part editor.
type PartDraft struct {
	TopicID  string `json:"topicId"`
	LessonID string `json:"lessonId"`
	Part     Part   `json:"part"`
}

// EditState is a snapshot of the open editors.
type EditState struct {
	Topic  *Topic       `json:"topic,omitempty"`
	Lesson *LessonDraft `json:"lesson,omitempty"`
	Part   *PartDraft   `json:"part,omitempty"`
}

// EditSession holds the modal editor drafts of one admin session. A topic
// editor is exclusive. A part editor may stack on the lesson editor of its
// own lesson; any other open editor is closed when a new one opens.
// Closing without saving discards the draft.
type EditSession struct {
	mu     sync.Mutex
	topic  *Topic
	lesson *LessonDraft
	part   *PartDraft
}

func (es *EditSession) openTopic(t Topic) {
	es.mu.Lock()
	defer es.mu.Unlock()
	t = t.Clone()
	es.topic, es.lesson, es.part = &t, nil, nil
}

func (es *EditSession) openLesson(topicID string, l Lesson) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.topic, es.part = nil, nil
	es.lesson = &LessonDraft{TopicID: topicID, Lesson: l.Clone()}
}

func (es *EditSession) openPart(topicID, lessonID string, p Part) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.topic = nil
	if es.lesson != nil && (es.lesson.TopicID != topicID || es.lesson.Lesson.ID != lessonID) {
		es.lesson = nil
	}
	es.part = &PartDraft{TopicID: topicID, LessonID: lessonID, Part: p.Clone()}
}

// syncLessonParts refreshes the parts of an open lesson draft from t,
// keeping the draft's own field edits.
func (es *EditSession) syncLessonParts(t Tree, topicID, lessonID string) {
	saved, ok := t.Lesson(topicID, lessonID)
	if !ok {
		return
	}
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.lesson == nil || es.lesson.TopicID != topicID || es.lesson.Lesson.ID != lessonID {
		return
	}
	es.lesson.Lesson.Parts = saved.Clone().Parts
}

func (es *EditSession) removeLessonPart(partID string) {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.lesson == nil {
		return
	}
	parts := es.lesson.Lesson.Parts[:0:0]
	for _, p := range es.lesson.Lesson.Parts {
		if p.ID != partID {
			parts = append(parts, p)
		}
	}
	es.lesson.Lesson.Parts = parts
}

// State returns a copy of the open drafts.
func (es *EditSession) State() EditState {
	es.mu.Lock()
	defer es.mu.Unlock()
	var st EditState
	if es.topic != nil {
		t := es.topic.Clone()
		st.Topic = &t
	}
	if es.lesson != nil {
		st.Lesson = &LessonDraft{TopicID: es.lesson.TopicID, Lesson: es.lesson.Lesson.Clone()}
	}
	if es.part != nil {
		st.Part = &PartDraft{TopicID: es.part.TopicID, LessonID: es.part.LessonID, Part: es.part.Part.Clone()}
	}
	return st
}

// TopicDraft returns the open topic draft.
func (es *EditSession) TopicDraft() (Topic, bool) {
	st := es.State()
	if st.Topic == nil {
		return Topic{}, false
	}
	return *st.Topic, true
}

// LessonDraft returns the open lesson draft.
func (es *EditSession) LessonDraft() (LessonDraft, bool) {
	st := es.State()
	if st.Lesson == nil {
		return LessonDraft{}, false
	}
	return *st.Lesson, true
}

// PartDraft returns the open part draft.
func (es *EditSession) PartDraft() (PartDraft, bool) {
	st := es.State()
	if st.Part == nil {
		return PartDraft{}, false
	}
	return *st.Part, true
}

// SetTopic replaces the topic draft's fields. The id cannot change. A nil
// Lessons keeps the draft's lessons.
func (es *EditSession) SetTopic(t Topic) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.topic == nil {
		return ErrNoEditSession
	}
	if t.Lessons == nil {
		t.Lessons = es.topic.Lessons
	}
	t = t.Clone()
	t.ID = es.topic.ID
	es.topic = &t
	return nil
}

// SetLesson replaces the lesson draft's fields. The id cannot change. A nil
// Parts keeps the draft's parts.
func (es *EditSession) SetLesson(l Lesson) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.lesson == nil {
		return ErrNoEditSession
	}
	if l.Parts == nil {
		l.Parts = es.lesson.Lesson.Parts
	}
	l = l.Clone()
	l.ID = es.lesson.Lesson.ID
	es.lesson.Lesson = l
	return nil
}

// SetPart replaces the part draft's fields. The id cannot change.
func (es *EditSession) SetPart(p Part) error {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.part == nil {
		return ErrNoEditSession
	}
	p = p.Clone()
	p.ID = es.part.Part.ID
	es.part.Part = p
	return nil
}

// Close discards the draft of one level.
func (es *EditSession) Close(class ItemClass) {
	es.mu.Lock()
	defer es.mu.Unlock()
	switch class {
	case ClassTopic:
		es.topic = nil
	case ClassLesson:
		es.lesson = nil
	case ClassPart:
		es.part = nil
	}
}

// Discard closes every open editor without saving.
func (es *EditSession) Discard() {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.topic, es.lesson, es.part = nil, nil, nil
}
