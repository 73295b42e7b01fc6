package catalog_test

import (
	"errors"
	"testing"

	"catalog-go/internal/catalog"
)

func navTree() catalog.Tree {
	return catalog.Tree{
		{ID: "t1", Title: "Basis", IsEnabled: true, Order: 1, Lessons: []catalog.Lesson{
			{ID: "l1", Title: "Word", IsEnabled: true, Order: 1, Parts: []catalog.Part{}},
			{ID: "l2", Title: "Locked", IsEnabled: false, Order: 2, Parts: []catalog.Part{}},
		}},
		{ID: "t2", Title: "Later", IsEnabled: false, DateAvailable: "2999-01-01", Order: 2, Lessons: []catalog.Lesson{}},
	}
}

func TestNavigator_DrillDownAndBack(t *testing.T) {
	tree := navTree()
	var n catalog.Navigator

	if n.Location().Level != catalog.LevelRoot {
		t.Fatalf("zero Navigator at %s, want root", n.Location().Level)
	}
	if _, err := n.SelectTopic(tree, "t1"); err != nil {
		t.Fatalf("SelectTopic() error = %v", err)
	}
	if _, err := n.SelectLesson(tree, "l1"); err != nil {
		t.Fatalf("SelectLesson() error = %v", err)
	}
	want := catalog.Location{Level: catalog.LevelLesson, TopicID: "t1", LessonID: "l1"}
	if n.Location() != want {
		t.Fatalf("Location() = %+v, want %+v", n.Location(), want)
	}
	if got := n.Breadcrumb(tree); len(got) != 2 || got[0] != "Basis" || got[1] != "Word" {
		t.Errorf("Breadcrumb() = %v", got)
	}

	n.Back()
	if n.Location() != (catalog.Location{Level: catalog.LevelTopic, TopicID: "t1"}) {
		t.Errorf("after Back: %+v", n.Location())
	}
	n.Back()
	n.Back()
	if n.Location() != (catalog.Location{}) {
		t.Errorf("after Back twice more: %+v, want root", n.Location())
	}
}

func TestNavigator_DisabledIsNotSelectable(t *testing.T) {
	tree := navTree()

	t.Run("disabled topic", func(t *testing.T) {
		var n catalog.Navigator
		_, err := n.SelectTopic(tree, "t2")
		if !errors.Is(err, catalog.ErrNotSelectable) {
			t.Errorf("error = %v, want ErrNotSelectable", err)
		}
		if n.Location().Level != catalog.LevelRoot {
			t.Errorf("state changed to %s", n.Location().Level)
		}
	})

	t.Run("disabled lesson", func(t *testing.T) {
		var n catalog.Navigator
		_, _ = n.SelectTopic(tree, "t1")
		_, err := n.SelectLesson(tree, "l2")
		if !errors.Is(err, catalog.ErrNotSelectable) {
			t.Errorf("error = %v, want ErrNotSelectable", err)
		}
		if n.Location().Level != catalog.LevelTopic {
			t.Errorf("state changed to %s", n.Location().Level)
		}
	})

	t.Run("unknown topic", func(t *testing.T) {
		var n catalog.Navigator
		if _, err := n.SelectTopic(tree, "nope"); !errors.Is(err, catalog.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("lesson from root", func(t *testing.T) {
		var n catalog.Navigator
		if _, err := n.SelectLesson(tree, "l1"); err == nil {
			t.Error("SelectLesson() at root expected error")
		}
	})
}

func TestNavigator_Crumb(t *testing.T) {
	tree := navTree()

	tests := []struct {
		name  string
		setup func(*catalog.Navigator)
		index int
		want  catalog.Location
	}{
		{
			name: "topic crumb from lesson returns to topic",
			setup: func(n *catalog.Navigator) {
				_, _ = n.SelectTopic(tree, "t1")
				_, _ = n.SelectLesson(tree, "l1")
			},
			index: 0,
			want:  catalog.Location{Level: catalog.LevelTopic, TopicID: "t1"},
		},
		{
			name:  "topic crumb at topic stays",
			setup: func(n *catalog.Navigator) { _, _ = n.SelectTopic(tree, "t1") },
			index: 0,
			want:  catalog.Location{Level: catalog.LevelTopic, TopicID: "t1"},
		},
		{
			name: "lesson crumb is the current location",
			setup: func(n *catalog.Navigator) {
				_, _ = n.SelectTopic(tree, "t1")
				_, _ = n.SelectLesson(tree, "l1")
			},
			index: 1,
			want:  catalog.Location{Level: catalog.LevelLesson, TopicID: "t1", LessonID: "l1"},
		},
		{
			name:  "root has no crumbs",
			setup: func(*catalog.Navigator) {},
			index: 0,
			want:  catalog.Location{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n catalog.Navigator
			tt.setup(&n)
			n.Crumb(tt.index)
			if n.Location() != tt.want {
				t.Errorf("Location() = %+v, want %+v", n.Location(), tt.want)
			}
		})
	}
}

func TestNavigator_Reconcile(t *testing.T) {
	tree := navTree()
	var n catalog.Navigator
	_, _ = n.SelectTopic(tree, "t1")
	_, _ = n.SelectLesson(tree, "l1")

	withoutLesson, _ := tree.RemoveLesson("t1", "l1")
	n.Reconcile(withoutLesson)
	if n.Location() != (catalog.Location{Level: catalog.LevelTopic, TopicID: "t1"}) {
		t.Errorf("after lesson removal: %+v", n.Location())
	}

	withoutTopic, _ := tree.RemoveTopic("t1")
	n.Reconcile(withoutTopic)
	if n.Location() != (catalog.Location{}) {
		t.Errorf("after topic removal: %+v", n.Location())
	}
}
