// Package scheduling contains the slot allocation core: expanding a doctor's
// availability windows into bookable slots, subtracting booked slots, and the
// write-path conflict guard that keeps a (doctor, date, time) triple held by
// at most one non-cancelled appointment.
package scheduling

import (
	"errors"
	"fmt"
	"sort"

	"healthcare-plus-api/internal/domain/entity"
)

var (
	ErrInvalidGranularity = errors.New("granularity must be a positive number of minutes")
	ErrInvalidClock       = errors.New("invalid time, use HH:MM in 24-hour format")
	ErrInvalidWindow      = errors.New("window start must be before window end")
)

const minutesPerDay = 24 * 60

// Window is a contiguous time-of-day interval [Start, End) in minutes since
// midnight. The end boundary is exclusive: a slot must fit fully inside the
// window, so the last slot starts at End minus the granularity.
type Window struct {
	Start int
	End   int
}

// ParseClock converts an "HH:MM" 24-hour string into minutes since midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
		return 0, ErrInvalidClock
	}
	if len(s) != 5 || s[2] != ':' || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

// FormatClock converts minutes since midnight into an "HH:MM" string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NewWindow validates and builds a Window from "HH:MM" boundaries.
func NewWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if s >= e {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: s, End: e}, nil
}

// WindowsFromEntity converts a doctor's stored availability windows. Rows with
// malformed or inverted boundaries are rejected rather than skipped, so a bad
// roster edit surfaces instead of silently shrinking availability.
func WindowsFromEntity(windows []entity.AvailabilityWindow) ([]Window, error) {
	out := make([]Window, 0, len(windows))
	for _, w := range windows {
		parsed, err := NewWindow(w.StartTime, w.EndTime)
		if err != nil {
			return nil, fmt.Errorf("window %q-%q: %w", w.StartTime, w.EndTime, err)
		}
		out = append(out, parsed)
	}
	return out, nil
}

// GenerateSlots expands availability windows into the ordered list of bookable
// slot start times at the given granularity. Windows may overlap and arrive in
// any order; the result is their union, deduplicated and sorted ascending.
//
// A slot is emitted for every t with start <= t and t+granularity <= end,
// stepping by granularity from each window's start. A window shorter than one
// granularity unit contributes nothing.
func GenerateSlots(windows []Window, granularityMinutes int) ([]string, error) {
	if granularityMinutes <= 0 {
		return nil, ErrInvalidGranularity
	}

	seen := make(map[int]struct{})
	starts := make([]int, 0)
	for _, w := range windows {
		if w.Start < 0 || w.End > minutesPerDay || w.Start >= w.End {
			return nil, ErrInvalidWindow
		}
		for t := w.Start; t+granularityMinutes <= w.End; t += granularityMinutes {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			starts = append(starts, t)
		}
	}
	sort.Ints(starts)

	slots := make([]string, len(starts))
	for i, t := range starts {
		slots[i] = FormatClock(t)
	}
	return slots, nil
}

// AlignedToGranularity reports whether the "HH:MM" value falls on a multiple
// of the given granularity. Used when validating window boundaries against the
// admin-facing definition granularity.
func AlignedToGranularity(clock string, granularityMinutes int) (bool, error) {
	if granularityMinutes <= 0 {
		return false, ErrInvalidGranularity
	}
	m, err := ParseClock(clock)
	if err != nil {
		return false, err
	}
	return m%granularityMinutes == 0, nil
}
