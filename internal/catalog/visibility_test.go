package catalog_test

import (
	"testing"
	"time"

	"catalog-go/internal/catalog"
)

func TestVisible(t *testing.T) {
	today := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		enabled     bool
		date        string
		wantStatus  catalog.Status
		wantCaption string
	}{
		{name: "enabled", enabled: true, wantStatus: catalog.Active},
		{name: "enabled ignores future date", enabled: true, date: "2999-01-01", wantStatus: catalog.Active},
		{name: "disabled future date", date: "2999-01-01", wantStatus: catalog.Pending, wantCaption: "Beschikbaar vanaf: 01-01-2999"},
		{name: "disabled past date", date: "2000-01-01", wantStatus: catalog.Hidden},
		{name: "disabled today", date: "2024-01-15", wantStatus: catalog.Hidden},
		{name: "disabled tomorrow", date: "2024-01-16", wantStatus: catalog.Pending, wantCaption: "Beschikbaar vanaf: 16-01-2024"},
		{name: "disabled no date", wantStatus: catalog.Hidden},
		{name: "malformed date shown verbatim", date: "soon", wantStatus: catalog.Pending, wantCaption: "Beschikbaar vanaf: soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			topic := catalog.Topic{ID: "t", IsEnabled: tt.enabled, DateAvailable: tt.date}
			v := catalog.Visible(topic, today)
			if v.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", v.Status, tt.wantStatus)
			}
			if got := v.Caption(catalog.ClassTopic); got != tt.wantCaption {
				t.Errorf("Caption() = %q, want %q", got, tt.wantCaption)
			}
			if v.Selectable() != tt.enabled {
				t.Errorf("Selectable() = %v, want %v", v.Selectable(), tt.enabled)
			}
		})
	}
}

func TestVisibility_CaptionPrefixPerLevel(t *testing.T) {
	v := catalog.Visibility{Status: catalog.Pending, Date: "2025-09-01"}
	tests := []struct {
		class catalog.ItemClass
		want  string
	}{
		{catalog.ClassTopic, "Beschikbaar vanaf: 01-09-2025"},
		{catalog.ClassLesson, "Verwacht op: 01-09-2025"},
		{catalog.ClassPart, "Beschikbaar: 01-09-2025"},
	}
	for _, tt := range tests {
		if got := v.Caption(tt.class); got != tt.want {
			t.Errorf("Caption(%s) = %q, want %q", tt.class, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	tests := map[string]string{
		"2025-09-01": "01-09-2025",
		"":           "",
		"2025/09/01": "2025/09/01",
		"next week":  "next week",
	}
	for in, want := range tests {
		if got := catalog.FormatDate(in); got != want {
			t.Errorf("FormatDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStatus_TextRoundTrip(t *testing.T) {
	for _, s := range []catalog.Status{catalog.Active, catalog.Pending, catalog.Hidden} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v) error = %v", s, err)
		}
		var got catalog.Status
		if err := got.UnmarshalText(b); err != nil || got != s {
			t.Errorf("UnmarshalText(%q) = %v, %v", b, got, err)
		}
	}
	var s catalog.Status
	if err := s.UnmarshalText([]byte("gone")); err == nil {
		t.Error("UnmarshalText(gone) expected error")
	}
}
