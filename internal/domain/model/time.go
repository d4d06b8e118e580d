package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-day layout accepted alongside RFC3339.
const DateLayout = "2006-01-02"

// ParseTime parses a record timestamp. Dates ("2024-01-31") are read as UTC
// midnight; anything else must be RFC3339. The field name is carried in the
// error so callers can point at the offending attribute.
func ParseTime(field, value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, fmt.Errorf("%s: empty value: %w", field, ErrInvalidTimestamp)
	}
	if t, err := time.Parse(DateLayout, v); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %q: %w", field, value, ErrInvalidTimestamp)
	}
	return t.UTC(), nil
}

// ParseOptionalTime is ParseTime for attributes that may be absent. An empty
// value yields the zero time.
func ParseOptionalTime(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return ParseTime(field, value)
}

// Window is a half-open reporting interval [From, To).
type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// NewWindow parses and validates a window from its string bounds.
func NewWindow(from, to string) (Window, error) {
	f, err := ParseTime("from", from)
	if err != nil {
		return Window{}, err
	}
	t, err := ParseTime("to", to)
	if err != nil {
		return Window{}, err
	}
	w := Window{From: f, To: t}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate reports whether the window bounds are usable.
func (w Window) Validate() error {
	if w.From.IsZero() || w.To.IsZero() {
		return fmt.Errorf("window bounds must be set: %w", ErrInvalidWindow)
	}
	if !w.To.After(w.From) {
		return fmt.Errorf("window to %s is not after from %s: %w",
			w.To.Format(time.RFC3339), w.From.Format(time.RFC3339), ErrInvalidWindow)
	}
	return nil
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Before(w.From) && t.Before(w.To)
}

// Previous returns the window of equal length immediately before w.
func (w Window) Previous() Window {
	span := w.To.Sub(w.From)
	return Window{From: w.From.Add(-span), To: w.From}
}

// PreviousMonth returns the calendar-month-shifted window, which is what the
// dashboards compare against for month-over-month deltas.
func (w Window) PreviousMonth() Window {
	return Window{From: w.From.AddDate(0, -1, 0), To: w.To.AddDate(0, -1, 0)}
}
