// Package model holds the task entity and the derived-state computations
// around it: completion resolution, dynamic baseline dates, and due-date
// recurrence.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhaenchen/procrastitask/internal/dynamic"
)

// Status is a shallow triage state layered on top of the completion flag.
// QUEUED and IN_PROGRESS are user-driven; COMPLETE/INCOMPLETE track the
// derived completion state.
type Status string

const (
	StatusIncomplete Status = "INCOMPLETE"
	StatusInProgress Status = "IN_PROGRESS"
	StatusComplete   Status = "COMPLETE"
	StatusQueued     Status = "QUEUED"
)

// CompletionRecord is an immutable snapshot appended every time a task
// transitions into complete. History, not LastRefreshed, is the source of
// truth for recurrence computations once present.
type CompletionRecord struct {
	CompletedAt        time.Time
	StressAtCompletion float64
}

const DefaultListName = "default"

type Task struct {
	ID          string
	Title       string
	Description string

	Duration   int // minutes
	Difficulty float64
	Stress     float64 // mutable base value
	ListName   string

	// Completed is the raw flag last set by a completion event. Callers
	// should read the derived state via IsComplete/ResolveCompletion: once a
	// recurrence policy is set the raw flag alone is not the truth.
	Completed bool

	DueDate     *time.Time // fixed due date; mutually exclusive with DueDateCron
	DueDateCron string     // recurring due-date schedule
	CoolDown    string     // interval re-arm policy, e.g. "2hr", "3d", "1w"
	Periodicity string     // cron re-arm policy

	CreatedAt     time.Time
	LastRefreshed time.Time

	DependentOn   []string // identifiers of prerequisite tasks
	StressDynamic dynamic.Dynamic

	Status  Status
	History []CompletionRecord
}

func NewTask(title, description string, now time.Time) *Task {
	return &Task{
		ID:            uuid.NewString(),
		Title:         title,
		Description:   description,
		ListName:      DefaultListName,
		CreatedAt:     now,
		LastRefreshed: now,
		Status:        StatusIncomplete,
	}
}

// RenderedStress applies the task's dynamic to its base stress. Without a
// dynamic it is the base stress unchanged.
func (t *Task) RenderedStress(now time.Time) (float64, error) {
	if t.StressDynamic == nil {
		return t.Stress, nil
	}
	baseline, err := t.DynamicBaseDate(now)
	if err != nil {
		return 0, err
	}
	return t.StressDynamic.Apply(baseline, t.Stress, t, now)
}

// Complete marks the task done as of now, snapshotting the rendered stress
// into history. The snapshot is taken before the flag flips so it reflects
// the stress the user actually cleared.
func (t *Task) Complete(now time.Time) error {
	stress, err := t.RenderedStress(now)
	if err != nil {
		return err
	}
	t.Completed = true
	t.LastRefreshed = now
	t.Status = StatusComplete
	t.History = append(t.History, CompletionRecord{
		CompletedAt:        now,
		StressAtCompletion: stress,
	})
	return nil
}

// SetIncomplete reopens the task. It touches LastRefreshed but appends no
// history: only transitions into complete are recorded.
func (t *Task) SetIncomplete(now time.Time) {
	t.Completed = false
	t.LastRefreshed = now
	t.Status = StatusIncomplete
}

func (t *Task) SetInProgress() {
	t.Completed = false
	t.Status = StatusInProgress
}

func (t *Task) SetQueued() {
	t.Status = StatusQueued
}

// Touch records a stress refresh.
func (t *Task) Touch(now time.Time) {
	t.LastRefreshed = now
}

// lastCompletion returns the most recent history entry's timestamp.
func (t *Task) lastCompletion() (time.Time, bool) {
	if len(t.History) == 0 {
		return time.Time{}, false
	}
	return t.History[len(t.History)-1].CompletedAt, true
}
