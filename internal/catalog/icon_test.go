package catalog_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"catalog-go/internal/catalog"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestNewImageIcon(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr error
		prefix  string
	}{
		{name: "png", data: pngHeader, prefix: "data:image/png;base64,"},
		{name: "svg", data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`), prefix: "data:image/svg+xml;base64,"},
		{name: "text", data: []byte("just some text"), wantErr: catalog.ErrUnsupportedImage},
		{name: "too large", data: append(bytes.Clone(pngHeader), make([]byte, catalog.MaxImageSize)...), wantErr: catalog.ErrImageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			icon, err := catalog.NewImageIcon(tt.data)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewImageIcon() error = %v", err)
			}
			if icon.Kind != catalog.IconImage || !strings.HasPrefix(icon.DataURL, tt.prefix) {
				t.Errorf("icon = %+v, want data url with prefix %q", icon, tt.prefix)
			}
		})
	}
}

func TestResolveIcon(t *testing.T) {
	tests := []struct {
		name string
		in   *catalog.Icon
		want *catalog.Icon
	}{
		{name: "nil", in: nil, want: nil},
		{name: "known", in: catalog.SymbolicIcon("Globe"), want: catalog.SymbolicIcon("Globe")},
		{name: "unknown", in: catalog.SymbolicIcon("Nope"), want: catalog.SymbolicIcon(catalog.FallbackIcon)},
		{name: "empty image", in: &catalog.Icon{Kind: catalog.IconImage}, want: catalog.SymbolicIcon(catalog.FallbackIcon)},
		{name: "image", in: &catalog.Icon{Kind: catalog.IconImage, DataURL: "data:x"}, want: &catalog.Icon{Kind: catalog.IconImage, DataURL: "data:x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalog.ResolveIcon(tt.in)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ResolveIcon() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultIcon(t *testing.T) {
	for class, want := range map[catalog.ItemClass]string{
		catalog.ClassTopic:  "BookOpen",
		catalog.ClassLesson: "NotebookText",
		catalog.ClassPart:   "ListChecks",
	} {
		if got := catalog.DefaultIcon(class); !catalog.KnownIcon(got.Name) || got.Name != want {
			t.Errorf("DefaultIcon(%s) = %+v, want %s", class, got, want)
		}
	}
	names := catalog.IconNames()
	names[0] = "mutated"
	if catalog.IconNames()[0] == "mutated" {
		t.Error("IconNames() exposes the registry")
	}
}
