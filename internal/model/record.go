package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhaenchen/procrastitask/internal/dynamic"
)

// Record is the persisted JSON shape of a task. The stored collection is a
// flat array of these; every field the core reads round-trips losslessly.
type Record struct {
	Identifier    string             `json:"identifier"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Duration      int                `json:"duration"`
	Stress        float64            `json:"stress"`
	Difficulty    float64            `json:"difficulty"`
	IsComplete    bool               `json:"is_complete"`
	DueDate       *string            `json:"due_date"`
	DueDateCron   *string            `json:"due_date_cron,omitempty"`
	LastRefreshed string             `json:"last_refreshed"`
	DependentOn   []string           `json:"dependent_on"`
	StressDynamic *string            `json:"stress_dynamic"`
	CreationDate  string             `json:"creation_date"`
	ListName      string             `json:"list_name"`
	CoolDown      *string            `json:"cool_down"`
	Periodicity   *string            `json:"periodicity"`
	History       []CompletionEntry `json:"history,omitempty"`
	Status        string            `json:"status,omitempty"`
}

type CompletionEntry struct {
	CompletedAt        string  `json:"completed_at"`
	StressAtCompletion float64 `json:"stress_at_completion"`
}

const timeLayout = time.RFC3339Nano

// defaultRefreshed stands in for records persisted before last_refreshed
// existed.
var defaultRefreshed = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// ToRecord converts the task to its persisted shape.
func (t *Task) ToRecord() Record {
	rec := Record{
		Identifier:    t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Duration:      t.Duration,
		Stress:        t.Stress,
		Difficulty:    t.Difficulty,
		IsComplete:    t.Completed,
		LastRefreshed: t.LastRefreshed.Format(timeLayout),
		DependentOn:   t.DependentOn,
		CreationDate:  t.CreatedAt.Format(timeLayout),
		ListName:      t.ListName,
		Status:        string(t.Status),
	}
	if rec.DependentOn == nil {
		rec.DependentOn = []string{}
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(timeLayout)
		rec.DueDate = &s
	}
	if t.DueDateCron != "" {
		s := t.DueDateCron
		rec.DueDateCron = &s
	}
	if t.StressDynamic != nil {
		s := t.StressDynamic.Token()
		rec.StressDynamic = &s
	}
	if t.CoolDown != "" {
		s := t.CoolDown
		rec.CoolDown = &s
	}
	if t.Periodicity != "" {
		s := t.Periodicity
		rec.Periodicity = &s
	}
	for _, h := range t.History {
		rec.History = append(rec.History, CompletionEntry{
			CompletedAt:        h.CompletedAt.Format(timeLayout),
			StressAtCompletion: h.StressAtCompletion,
		})
	}
	return rec
}

// FromRecord rebuilds a task from its persisted shape. The registry parses
// the stored dynamic token; a token that no longer matches any variant is a
// load error.
func FromRecord(rec Record, reg *dynamic.Registry) (*Task, error) {
	t := &Task{
		ID:          rec.Identifier,
		Title:       rec.Title,
		Description: rec.Description,
		Duration:    rec.Duration,
		Stress:      rec.Stress,
		Difficulty:  rec.Difficulty,
		Completed:   rec.IsComplete,
		DependentOn: rec.DependentOn,
		ListName:    rec.ListName,
		Status:      Status(rec.Status),
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.ListName == "" {
		t.ListName = DefaultListName
	}
	if t.DependentOn == nil {
		t.DependentOn = []string{}
	}
	if t.Status == "" {
		if t.Completed {
			t.Status = StatusComplete
		} else {
			t.Status = StatusIncomplete
		}
	}

	var err error
	if t.LastRefreshed, err = parseTime(rec.LastRefreshed, defaultRefreshed); err != nil {
		return nil, fmt.Errorf("task %s: last_refreshed: %w", t.ID, err)
	}
	if t.CreatedAt, err = parseTime(rec.CreationDate, defaultRefreshed); err != nil {
		return nil, fmt.Errorf("task %s: creation_date: %w", t.ID, err)
	}
	if rec.DueDate != nil && *rec.DueDate != "" {
		due, err := time.Parse(timeLayout, *rec.DueDate)
		if err != nil {
			return nil, fmt.Errorf("task %s: due_date: %w", t.ID, err)
		}
		t.DueDate = &due
	}
	if rec.DueDateCron != nil {
		t.DueDateCron = *rec.DueDateCron
	}
	if rec.CoolDown != nil {
		t.CoolDown = *rec.CoolDown
	}
	if rec.Periodicity != nil {
		t.Periodicity = *rec.Periodicity
	}
	if rec.StressDynamic != nil && *rec.StressDynamic != "" {
		d, err := reg.Parse(*rec.StressDynamic)
		if err != nil {
			return nil, fmt.Errorf("task %s: stress_dynamic: %w", t.ID, err)
		}
		t.StressDynamic = d
	}
	for _, h := range rec.History {
		at, err := time.Parse(timeLayout, h.CompletedAt)
		if err != nil {
			return nil, fmt.Errorf("task %s: history completed_at: %w", t.ID, err)
		}
		t.History = append(t.History, CompletionRecord{
			CompletedAt:        at,
			StressAtCompletion: h.StressAtCompletion,
		})
	}
	return t, nil
}

func parseTime(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
