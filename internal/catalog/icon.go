package catalog

import (
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/gabriel-vasile/mimetype"
)

// FallbackIcon is rendered for unknown symbolic names and empty images.
const FallbackIcon = "HelpCircle"

// MaxImageSize caps uploaded icon images.
const MaxImageSize = 300 * 1024

// AllowedImageTypes are the MIME types accepted for uploaded icons.
var AllowedImageTypes = []string{"image/png", "image/jpeg", "image/svg+xml", "image/webp"}

// iconRegistry is the closed set of symbolic icons offered by the editor.
var iconRegistry = []string{
	"BookOpen", "Layers", "NotebookText", "GraduationCap", "ListChecks",
	"Presentation", "Shield", "HelpCircle", "Info", "MessageCircle",
	"Globe", "Settings", "FileText", "Cpu", "Zap", "Monitor", "MousePointer2",
	"Keyboard", "HardDrive", "Wifi", "Cloud", "Lock", "Unlock", "Eye",
	"Search", "Mail", "Bell", "Calendar", "Camera", "Video", "Music",
	"Image", "File", "Folder", "Share2", "Link", "CheckCircle2", "AlertCircle",
	"PlayCircle", "CalendarClock",
}

var knownIcons = func() map[string]struct{} {
	m := make(map[string]struct{}, len(iconRegistry))
	for _, n := range iconRegistry {
		m[n] = struct{}{}
	}
	return m
}()

// IconNames returns the registry in picker order.
func IconNames() []string { return slices.Clone(iconRegistry) }

// KnownIcon reports whether name is in the registry.
func KnownIcon(name string) bool {
	_, ok := knownIcons[name]
	return ok
}

// DefaultIcon returns the icon a new item of class starts with, which is
// also what the editor's reset restores.
func DefaultIcon(class ItemClass) *Icon {
	name := "BookOpen"
	switch class {
	case ClassLesson:
		name = "NotebookText"
	case ClassPart:
		name = "ListChecks"
	}
	return &Icon{Kind: IconSymbolic, Name: name}
}

// SymbolicIcon returns a registry icon.
func SymbolicIcon(name string) *Icon { return &Icon{Kind: IconSymbolic, Name: name} }

// ResolveIcon maps a stored icon to what is rendered. A nil icon renders
// nothing; an unknown name or an empty image renders FallbackIcon.
func ResolveIcon(i *Icon) *Icon {
	if i == nil {
		return nil
	}
	switch {
	case i.Kind == IconImage && i.DataURL != "":
		return &Icon{Kind: IconImage, DataURL: i.DataURL}
	case i.Kind == IconSymbolic && KnownIcon(i.Name):
		return &Icon{Kind: IconSymbolic, Name: i.Name}
	default:
		return &Icon{Kind: IconSymbolic, Name: FallbackIcon}
	}
}

// NewImageIcon turns uploaded bytes into an image icon carrying a data URL.
// The content type is sniffed, not trusted from the client.
func NewImageIcon(data []byte) (*Icon, error) {
	if len(data) > MaxImageSize {
		return nil, fmt.Errorf("%d bytes exceeds %d: %w", len(data), MaxImageSize, ErrImageTooLarge)
	}
	mt := mimetype.Detect(data)
	var accepted string
	for _, allowed := range AllowedImageTypes {
		if mt.Is(allowed) {
			accepted = allowed
			break
		}
	}
	if accepted == "" {
		return nil, fmt.Errorf("%s: %w", mt.String(), ErrUnsupportedImage)
	}
	return &Icon{
		Kind:    IconImage,
		DataURL: "data:" + accepted + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}
