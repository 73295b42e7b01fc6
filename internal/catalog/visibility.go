package catalog

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage format of DateAvailable.
const DateLayout = "2006-01-02"

// Status is the outcome of the visibility policy for one item.
type Status int

const (
	// Active items are selectable.
	Active Status = iota
	// Pending items are disabled but show a future availability date.
	Pending
	// Hidden items are disabled without a future date. They still render, greyed out.
	Hidden
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Pending:
		return "pending"
	case Hidden:
		return "hidden"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText lets Status render as its name in JSON.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a status name.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "active":
		*s = Active
	case "pending":
		*s = Pending
	case "hidden":
		*s = Hidden
	default:
		return fmt.Errorf("unknown status %q", b)
	}
	return nil
}

// Visibility is the result of Visible: the status plus the date surfaced
// for Pending items.
type Visibility struct {
	Status Status
	Date   string
}

// Selectable reports whether the viewer may click through the item.
// Only IsEnabled decides this; the date only changes the caption.
func (v Visibility) Selectable() bool { return v.Status == Active }

// Visible applies the visibility policy to item on the calendar day of today.
func Visible(item Item, today time.Time) Visibility {
	if item.Enabled() {
		return Visibility{Status: Active}
	}
	date := item.AvailableOn()
	if date == "" {
		return Visibility{Status: Hidden}
	}
	if !isFuture(date, today) {
		return Visibility{Status: Hidden}
	}
	return Visibility{Status: Pending, Date: date}
}

// isFuture compares day granularity. Unparseable dates count as future so
// their text is still surfaced verbatim.
func isFuture(date string, today time.Time) bool {
	d, err := time.ParseInLocation(DateLayout, date, today.Location())
	if err != nil {
		return true
	}
	y, m, day := today.Date()
	startOfToday := time.Date(y, m, day, 0, 0, 0, 0, today.Location())
	return d.After(startOfToday)
}

// FormatDate renders a YYYY-MM-DD date as DD-MM-YYYY. Anything that does not
// split into three dash-separated fields is returned unchanged.
func FormatDate(date string) string {
	if date == "" {
		return ""
	}
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// captionPrefix is the label placed before a pending date on each level.
var captionPrefix = map[ItemClass]string{
	ClassTopic:  "Beschikbaar vanaf: ",
	ClassLesson: "Verwacht op: ",
	ClassPart:   "Beschikbaar: ",
}

// Caption returns the date caption for a pending item, or "" otherwise.
func (v Visibility) Caption(class ItemClass) string {
	if v.Status != Pending {
		return ""
	}
	return captionPrefix[class] + FormatDate(v.Date)
}
