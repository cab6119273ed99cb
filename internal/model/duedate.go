package model

import (
	"errors"
	"math"
	"time"

	"github.com/jhaenchen/procrastitask/internal/cron"
)

// ErrNoDueDate means the task carries neither a fixed due date nor a
// recurring due-date schedule.
var ErrNoDueDate = errors.New("task has no due date")

// CurrentDueDate resolves the due date that applies right now.
//
// For a recurring schedule, completions consume scheduled occurrences
// strictly one-to-one in chronological order: with N completions on record,
// the current due date is the N+1th occurrence after creation, regardless of
// whether each completion landed before or after its occurrence's nominal
// time.
func (t *Task) CurrentDueDate(now time.Time) (time.Time, error) {
	if t.DueDateCron != "" {
		n := len(t.History)
		occurrences, err := cron.OccurrencesAfter(t.DueDateCron, t.CreatedAt, n+1)
		if err != nil {
			return time.Time{}, err
		}
		return occurrences[n], nil
	}
	if t.DueDate != nil {
		return *t.DueDate, nil
	}
	return time.Time{}, ErrNoDueDate
}

// IsDueSoon reports whether the resolved due date is past, or inside an
// effort-scaled urgency window of two days per hour of estimated work: a
// two-hour task is due soon starting four days out.
func (t *Task) IsDueSoon(now time.Time) bool {
	due, err := t.CurrentDueDate(now)
	if err != nil {
		return false
	}
	if due.Before(now) {
		return true
	}
	windowDays := math.Ceil(float64(t.Duration)/60) * 2
	window := time.Duration(windowDays * 24 * float64(time.Hour))
	return due.Sub(now) < window
}
