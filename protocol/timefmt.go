package protocol

import (
	"time"

	"github.com/c360/signalctl/errors"
)

// Protocol timestamp layouts. Human-readable fields use LayoutHuman;
// retransmission ranges and sequence identifiers use the compact form.
const (
	LayoutHuman   = "2006-01-02 15:04:05"
	LayoutCompact = "20060102150405"
)

// FormatTime renders t in the human-readable protocol form. The zero time
// renders as the empty string.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutHuman)
}

// ParseTime parses the human-readable protocol form in local time.
func ParseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutHuman, s, time.Local)
	if err != nil {
		return time.Time{}, errors.Validation("time", "not in %q form: %q", LayoutHuman, s)
	}
	return t, nil
}

// FormatCompact renders t in the compact protocol form. The zero time
// renders as the empty string.
func FormatCompact(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(LayoutCompact)
}

// ParseCompact parses the compact protocol form in local time.
func ParseCompact(s string) (time.Time, error) {
	t, err := time.ParseInLocation(LayoutCompact, s, time.Local)
	if err != nil {
		return time.Time{}, errors.Validation("time", "not in %q form: %q", LayoutCompact, s)
	}
	return t, nil
}
