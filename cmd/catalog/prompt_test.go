package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"catalog-go/internal/catalog"
)

func TestPromptConfirmer(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"ja\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"maybe\n", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got, err := newPromptConfirmer(strings.NewReader(tt.input), &out).Confirm(context.Background(), "Delete?")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if out.String() != "Delete? [y/N] " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := parseDirection("up"); err != nil || d != -1 {
		t.Errorf("parseDirection(up) = %d, %v", d, err)
	}
	if d, err := parseDirection("down"); err != nil || d != 1 {
		t.Errorf("parseDirection(down) = %d, %v", d, err)
	}
	if _, err := parseDirection("left"); err == nil {
		t.Error("parseDirection(left) expected error")
	}
}

func TestPrintTree(t *testing.T) {
	tree := catalog.Tree{
		{ID: "t2", Title: "Later", Order: 2, DateAvailable: "2999-01-01"},
		{ID: "t1", Title: "Eerst", Order: 1, IsEnabled: true, Lessons: []catalog.Lesson{
			{ID: "l1", Title: "Les", Order: 1, IsEnabled: true},
		}},
	}
	var buf bytes.Buffer
	printTree(&buf, tree, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Eerst") || !strings.HasPrefix(lines[1], "  Les") {
		t.Errorf("tree not in display order:\n%s", buf.String())
	}
	if !strings.Contains(lines[2], "pending") || !strings.Contains(lines[2], "Beschikbaar vanaf: 01-01-2999") {
		t.Errorf("pending topic line = %q", lines[2])
	}
}
