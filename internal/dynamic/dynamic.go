// Package dynamic implements the stress-transform expression language.
//
// A Dynamic renders a task's base stress into a displayed stress as a
// function of elapsed time. Every variant serializes to a short text token
// and parses back from it; tokens are what the task store persists.
package dynamic

import (
	"errors"
	"strconv"
	"time"
)

var (
	// ErrUnsupportedOperator signals an unknown combiner token inside a
	// combined expression.
	ErrUnsupportedOperator = errors.New("unsupported dynamic operator")

	// ErrDueDateRequired is returned when a due-date-driven dynamic is
	// applied to a task with no resolvable due date.
	ErrDueDateRequired = errors.New("due date is required on tasks using a due-date dynamic")

	// ErrNoLocation is returned when a location-anchored token needs the
	// current position at parse time and none is available.
	ErrNoLocation = errors.New("unable to determine current location")
)

// TaskContext is the slice of task state a dynamic may read while rendering.
// Most variants ignore it and tolerate nil.
type TaskContext interface {
	// CurrentDueDate resolves the due date that currently applies to the
	// task, accounting for recurring due-date schedules.
	CurrentDueDate(now time.Time) (time.Time, error)
}

// LocationProvider reports the user's current position. The ok result is
// false when the position is unknown or the lookup failed.
type LocationProvider interface {
	Current() (lat, lon float64, ok bool)
}

// Dynamic is a serializable stress transform.
type Dynamic interface {
	// Apply renders baseStress as of now, measuring elapsed time from
	// baseline. task may be nil for variants that do not read task state.
	Apply(baseline time.Time, baseStress float64, task TaskContext, now time.Time) (float64, error)

	// Token returns the canonical text form. Parsing it back yields an
	// equivalent dynamic.
	Token() string
}

// elapsedDays measures baseline→now in fractional days. Sub-day precision
// keeps rendered stress continuous across midnight.
func elapsedDays(baseline, now time.Time) float64 {
	return now.Sub(baseline).Seconds() / 86400
}

func fnum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ZeroOutStaticOffsets resets every StaticOffset reachable from d to zero,
// in place. Other variants are left untouched. Used to clear manual stress
// bumps without discarding the rest of a composite expression.
func ZeroOutStaticOffsets(d Dynamic) {
	switch v := d.(type) {
	case *StaticOffset:
		v.Offset = 0
	case *Combined:
		for _, child := range v.Children {
			ZeroOutStaticOffsets(child)
		}
	}
}
