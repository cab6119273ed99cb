// Package cron wraps the gronx evaluator behind the three operations the
// rest of the program needs: validation, next occurrence, previous occurrence.
package cron

import (
	"fmt"
	"time"

	"github.com/adhocore/gronx"
)

// Validate reports whether expr is a usable cron expression.
func Validate(expr string) error {
	if !gronx.New().IsValid(expr) {
		return fmt.Errorf("invalid cron expression: %q", expr)
	}
	return nil
}

// NextAfter returns the first occurrence of expr strictly after ref.
func NextAfter(expr string, ref time.Time) (time.Time, error) {
	next, err := gronx.NextTickAfter(expr, ref, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("cron next occurrence: %w", err)
	}
	return next, nil
}

// PrevBefore returns the last occurrence of expr at or before ref.
func PrevBefore(expr string, ref time.Time) (time.Time, error) {
	prev, err := gronx.PrevTickBefore(expr, ref, true)
	if err != nil {
		return time.Time{}, fmt.Errorf("cron previous occurrence: %w", err)
	}
	return prev, nil
}

// OccurrencesAfter returns the first n occurrences of expr strictly after start,
// in chronological order.
func OccurrencesAfter(expr string, start time.Time, n int) ([]time.Time, error) {
	out := make([]time.Time, 0, n)
	ref := start
	for len(out) < n {
		next, err := NextAfter(expr, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		ref = next
	}
	return out, nil
}
