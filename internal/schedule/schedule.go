// Package schedule converts the backend's timestamp strings into times and
// back. The backend emits "2025-03-14 08:30:00 IST+0530" (a zone abbreviation
// glued to a numeric offset); every other shape it might send is handled by an
// explicit, ordered list of layouts rather than a best-effort guess.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// ErrUnparseable is returned when no strategy accepts the input.
var ErrUnparseable = errors.New("unparseable timestamp")

// DisplayLayout is how timestamps are shown to the operator.
const DisplayLayout = "Jan 2, 2006, 03:04 PM"

// EditLayout is the editable local representation used by edit buffers.
const EditLayout = "2006-01-02T15:04"

// "2025-03-14 08:30:00 IST+0530", "2025-03-14 08:30:00+0530", "2025-03-14T08:30:00.123 UTC-0000"
var abbrevOffset = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})[ T](\d{2}:\d{2}:\d{2}(?:\.\d+)?) ?(?:[A-Za-z]{2,5})?([+-]\d{2})(\d{2})$`)

var isoSeparator = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)

var tLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var spaceLayouts = []string{
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse converts a backend timestamp. Zone-less inputs are read in loc.
func Parse(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnparseable)
	}
	if m := abbrevOffset.FindStringSubmatch(s); m != nil {
		iso := m[1] + "T" + m[2] + m[3] + ":" + m[4]
		if t, err := time.Parse(time.RFC3339Nano, iso); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
	}
	layouts := spaceLayouts
	if isoSeparator.MatchString(s) {
		layouts = tLayouts
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
}

// FormatDisplay renders raw for humans in loc. Anything it cannot parse is
// returned unchanged.
func FormatDisplay(raw string, loc *time.Location) string {
	t, err := Parse(raw, loc)
	if err != nil {
		return raw
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DisplayLayout)
}

// TimeUntil describes how far away raw is from now: "2d 3h", "5h 12m",
// "12m", "Overdue" for past times and "Unknown" when unparseable.
func TimeUntil(raw string, now time.Time) string {
	t, err := Parse(raw, now.Location())
	if err != nil {
		return "Unknown"
	}
	diff := t.Sub(now)
	if diff < 0 {
		return "Overdue"
	}
	days := int(diff / (24 * time.Hour))
	hours := int(diff % (24 * time.Hour) / time.Hour)
	minutes := int(diff % time.Hour / time.Minute)
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// EditableLocal seeds an edit buffer. An unparseable value is passed through
// so the operator can correct it by hand.
func EditableLocal(raw string, loc *time.Location) string {
	t, err := Parse(raw, loc)
	if err != nil {
		return raw
	}
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(EditLayout)
}

// CanonicalFromEditable converts an edit buffer value into the RFC 3339 UTC
// form the backend accepts.
func CanonicalFromEditable(s string, loc *time.Location) (string, error) {
	t, err := Parse(s, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(time.RFC3339), nil
}

// EventDisplay joins the first token of an event's date and time fields.
func EventDisplay(date, clock string) string {
	return strings.TrimSpace(firstToken(date) + " " + firstToken(clock))
}

func firstToken(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
