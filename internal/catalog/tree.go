package catalog

import (
	"cmp"
	"fmt"
	"slices"
)

// Structural queries and transforms over Tree. Every transform is pure:
// the receiver is left untouched and a new tree is returned for the caller
// to persist.

func byOrder[T Item](a, b T) int { return cmp.Compare(a.SortOrder(), b.SortOrder()) }

// sortedCopy returns items sorted by Order. Ties keep their stored order.
func sortedCopy[T Item](items []T) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, byOrder[T])
	return out
}

// nextOrder returns one past the highest Order among items, or 1 when empty.
func nextOrder[T Item](items []T) int {
	highest := 0
	for _, it := range items {
		if o := it.SortOrder(); o > highest {
			highest = o
		}
	}
	return highest + 1
}

// swapAndRenumber sorts items by Order, swaps index with index+direction and
// assigns Order = position+1 to every element. It reports false, leaving
// items untouched, when direction is not ±1 or the neighbour is out of range.
func swapAndRenumber[T Item](items []T, index, direction int, setOrder func(*T, int)) ([]T, bool) {
	if direction != -1 && direction != 1 {
		return items, false
	}
	target := index + direction
	if index < 0 || index >= len(items) || target < 0 || target >= len(items) {
		return items, false
	}
	out := sortedCopy(items)
	out[index], out[target] = out[target], out[index]
	for i := range out {
		setOrder(&out[i], i+1)
	}
	return out, true
}

func indexOf[T Item](items []T, id string) int {
	return slices.IndexFunc(items, func(it T) bool { return it.ItemID() == id })
}

// SortedTopics returns the topics in display order.
func (t Tree) SortedTopics() []Topic { return sortedCopy(t) }

// SortedLessons returns the lessons in display order.
func (t Topic) SortedLessons() []Lesson { return sortedCopy(t.Lessons) }

// SortedParts returns the parts in display order.
func (l Lesson) SortedParts() []Part { return sortedCopy(l.Parts) }

// NextTopicOrder returns the order a newly appended topic receives.
func (t Tree) NextTopicOrder() int { return len(t) + 1 }

// NextLessonOrder returns max(lesson orders)+1.
func (t Topic) NextLessonOrder() int { return nextOrder(t.Lessons) }

// NextPartOrder returns max(part orders)+1.
func (l Lesson) NextPartOrder() int { return nextOrder(l.Parts) }

// Topic finds a topic by id.
func (t Tree) Topic(id string) (Topic, bool) {
	i := indexOf(t, id)
	if i < 0 {
		return Topic{}, false
	}
	return t[i], true
}

// Lesson finds a lesson within a topic.
func (t Tree) Lesson(topicID, lessonID string) (Lesson, bool) {
	topic, ok := t.Topic(topicID)
	if !ok {
		return Lesson{}, false
	}
	i := indexOf(topic.Lessons, lessonID)
	if i < 0 {
		return Lesson{}, false
	}
	return topic.Lessons[i], true
}

// Part finds a part within a lesson.
func (t Tree) Part(topicID, lessonID, partID string) (Part, bool) {
	lesson, ok := t.Lesson(topicID, lessonID)
	if !ok {
		return Part{}, false
	}
	i := indexOf(lesson.Parts, partID)
	if i < 0 {
		return Part{}, false
	}
	return lesson.Parts[i], true
}

// Count returns the number of topics, lessons and parts in the tree.
func (t Tree) Count() (topics, lessons, parts int) {
	for _, topic := range t {
		topics++
		for _, l := range topic.Lessons {
			lessons++
			parts += len(l.Parts)
		}
	}
	return topics, lessons, parts
}

// AddTopic appends a topic.
func (t Tree) AddTopic(topic Topic) Tree {
	out := t.Clone()
	return append(out, topic.Clone())
}

// ReplaceTopic swaps the topic with the same id for topic.
func (t Tree) ReplaceTopic(topic Topic) (Tree, error) {
	i := indexOf(t, topic.ID)
	if i < 0 {
		return t, fmt.Errorf("topic %s: %w", topic.ID, ErrNotFound)
	}
	out := t.Clone()
	out[i] = topic.Clone()
	return out, nil
}

// RemoveTopic drops a topic together with its lessons and parts.
func (t Tree) RemoveTopic(id string) (Tree, error) {
	i := indexOf(t, id)
	if i < 0 {
		return t, fmt.Errorf("topic %s: %w", id, ErrNotFound)
	}
	out := t.Clone()
	return slices.Delete(out, i, i+1), nil
}

// MoveTopic swaps the topic at display position index with its neighbour in
// direction (-1 or +1) and renumbers every topic to position+1.
func (t Tree) MoveTopic(index, direction int) (Tree, bool) {
	out, moved := swapAndRenumber(t.Clone(), index, direction, func(tp *Topic, o int) { tp.Order = o })
	if !moved {
		return t, false
	}
	return out, true
}

// updateTopic applies fn to a copy of the topic with topicID.
func (t Tree) updateTopic(topicID string, fn func(*Topic) error) (Tree, error) {
	i := indexOf(t, topicID)
	if i < 0 {
		return t, fmt.Errorf("topic %s: %w", topicID, ErrNotFound)
	}
	out := t.Clone()
	if err := fn(&out[i]); err != nil {
		return t, err
	}
	return out, nil
}

// updateLesson applies fn to a copy of the lesson within topicID.
func (t Tree) updateLesson(topicID, lessonID string, fn func(*Lesson) error) (Tree, error) {
	return t.updateTopic(topicID, func(tp *Topic) error {
		i := indexOf(tp.Lessons, lessonID)
		if i < 0 {
			return fmt.Errorf("lesson %s: %w", lessonID, ErrNotFound)
		}
		return fn(&tp.Lessons[i])
	})
}

// AddLesson appends a lesson to a topic.
func (t Tree) AddLesson(topicID string, lesson Lesson) (Tree, error) {
	return t.updateTopic(topicID, func(tp *Topic) error {
		tp.Lessons = append(tp.Lessons, lesson.Clone())
		return nil
	})
}

// ReplaceLesson swaps the lesson with the same id inside topicID.
func (t Tree) ReplaceLesson(topicID string, lesson Lesson) (Tree, error) {
	return t.updateLesson(topicID, lesson.ID, func(l *Lesson) error {
		*l = lesson.Clone()
		return nil
	})
}

// RemoveLesson drops a lesson and its parts.
func (t Tree) RemoveLesson(topicID, lessonID string) (Tree, error) {
	return t.updateTopic(topicID, func(tp *Topic) error {
		i := indexOf(tp.Lessons, lessonID)
		if i < 0 {
			return fmt.Errorf("lesson %s: %w", lessonID, ErrNotFound)
		}
		tp.Lessons = slices.Delete(tp.Lessons, i, i+1)
		return nil
	})
}

// MoveLesson reorders lessons within a topic the same way MoveTopic does.
func (t Tree) MoveLesson(topicID string, index, direction int) (Tree, bool, error) {
	moved := false
	out, err := t.updateTopic(topicID, func(tp *Topic) error {
		tp.Lessons, moved = swapAndRenumber(tp.Lessons, index, direction, func(l *Lesson, o int) { l.Order = o })
		return nil
	})
	if err != nil || !moved {
		return t, false, err
	}
	return out, true, nil
}

// AddPart appends a part to a lesson.
func (t Tree) AddPart(topicID, lessonID string, part Part) (Tree, error) {
	return t.updateLesson(topicID, lessonID, func(l *Lesson) error {
		l.Parts = append(l.Parts, part.Clone())
		return nil
	})
}

// ReplacePart swaps the part with the same id inside a lesson.
func (t Tree) ReplacePart(topicID, lessonID string, part Part) (Tree, error) {
	return t.updateLesson(topicID, lessonID, func(l *Lesson) error {
		i := indexOf(l.Parts, part.ID)
		if i < 0 {
			return fmt.Errorf("part %s: %w", part.ID, ErrNotFound)
		}
		l.Parts[i] = part.Clone()
		return nil
	})
}

// RemovePart drops a part from a lesson.
func (t Tree) RemovePart(topicID, lessonID, partID string) (Tree, error) {
	return t.updateLesson(topicID, lessonID, func(l *Lesson) error {
		i := indexOf(l.Parts, partID)
		if i < 0 {
			return fmt.Errorf("part %s: %w", partID, ErrNotFound)
		}
		l.Parts = slices.Delete(l.Parts, i, i+1)
		return nil
	})
}

// MovePart reorders parts within a lesson the same way MoveTopic does.
func (t Tree) MovePart(topicID, lessonID string, index, direction int) (Tree, bool, error) {
	moved := false
	out, err := t.updateLesson(topicID, lessonID, func(l *Lesson) error {
		l.Parts, moved = swapAndRenumber(l.Parts, index, direction, func(p *Part, o int) { p.Order = o })
		return nil
	})
	if err != nil || !moved {
		return t, false, err
	}
	return out, true, nil
}

// Normalize returns a copy with nil child slices replaced by empty ones so
// every level serialises as a list.
func (t Tree) Normalize() Tree {
	if t == nil {
		return Tree{}
	}
	t = t.Clone()
	for i := range t {
		if t[i].Lessons == nil {
			t[i].Lessons = []Lesson{}
		}
		for j := range t[i].Lessons {
			if t[i].Lessons[j].Parts == nil {
				t[i].Lessons[j].Parts = []Part{}
			}
		}
	}
	return t
}
