package stage

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the layout used for configured stage boundaries.
const TimeLayout = "2006-01-02 15:04:05"

// Window is a half-open [Start, End) interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Timeline maps stages to their scheduled windows. Ended has no window; it
// begins when the investment window closes.
type Timeline struct {
	windows map[Stage]Window
}

// NewTimeline builds a timeline from raw "start"/"end" strings keyed by stage
// code. Stages without both bounds are left unscheduled.
func NewTimeline(raw map[string][2]string, loc *time.Location) (*Timeline, error) {
	if loc == nil {
		loc = time.Local
	}
	tl := &Timeline{windows: make(map[Stage]Window)}
	for code, bounds := range raw {
		s := Stage(code)
		if !s.Valid() {
			return nil, fmt.Errorf("unknown stage %q", code)
		}
		if strings.TrimSpace(bounds[0]) == "" || strings.TrimSpace(bounds[1]) == "" {
			continue
		}
		start, err := ParseTime(bounds[0], loc)
		if err != nil {
			return nil, fmt.Errorf("stage %s start: %w", code, err)
		}
		end, err := ParseTime(bounds[1], loc)
		if err != nil {
			return nil, fmt.Errorf("stage %s end: %w", code, err)
		}
		if !end.After(start) {
			return nil, fmt.Errorf("stage %s: end must be after start: %w", code, ErrInvalidTime)
		}
		tl.windows[s] = Window{Start: start, End: end}
	}
	return tl, nil
}

// Window returns the configured window for s.
func (tl *Timeline) Window(s Stage) (Window, bool) {
	if tl == nil {
		return Window{}, false
	}
	w, ok := tl.windows[s]
	return w, ok
}

// Resolve returns the active stage. A non-empty override code wins; otherwise
// the stage is derived from now. Times before the selection window count as
// selection and times after the investment window count as ended.
func (tl *Timeline) Resolve(now time.Time, override string) Stage {
	if code := strings.TrimSpace(override); code != "" {
		return FromCode(code)
	}

	if w, ok := tl.Window(Selection); ok && now.Before(w.Start) {
		return Selection
	}
	for _, s := range []Stage{Selection, Lock, Investment} {
		if w, ok := tl.Window(s); ok && w.Contains(now) {
			return s
		}
	}
	if w, ok := tl.Window(Investment); ok && !now.Before(w.End) {
		return Ended
	}
	return Selection
}

// ParseTime parses a TimeLayout value, accepting "24:00:00" as midnight of
// the following day.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	t, err := time.ParseInLocation(TimeLayout, value, loc)
	if err == nil {
		return t, nil
	}

	day, clock, ok := strings.Cut(value, " ")
	if ok && clock == "24:00:00" {
		d, derr := time.ParseInLocation("2006-01-02", day, loc)
		if derr == nil {
			return d.AddDate(0, 0, 1), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTime, value)
}
