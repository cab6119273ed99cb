package dynamic

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// StepDueDate bumps stress by a percentage once the task is within
// DaysBefore days of its current due date. It requires a task with a
// resolvable due date; applying it without one is a configuration error.
type StepDueDate struct {
	DaysBefore int
	Percentage int
}

func (d *StepDueDate) Apply(_ time.Time, baseStress float64, task TaskContext, now time.Time) (float64, error) {
	if task == nil {
		return 0, ErrDueDateRequired
	}
	due, err := task.CurrentDueDate(now)
	if err != nil {
		return 0, ErrDueDateRequired
	}
	daysUntilDue := due.Sub(now).Seconds() / 86400
	if daysUntilDue <= float64(d.DaysBefore) {
		return baseStress + baseStress*float64(d.Percentage)/100, nil
	}
	return baseStress, nil
}

func (d *StepDueDate) Token() string {
	return fmt.Sprintf("dynamic-step-due.%d.%d", d.DaysBefore, d.Percentage)
}

var stepDuePattern = regexp.MustCompile(`^dynamic-step-due\.(\d+)[.-](\d+)$`)

func parseStepDueDate(text string) (Dynamic, error) {
	m := stepDuePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, fmt.Errorf("not a step-due dynamic: %q", text)
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, err
	}
	pct, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, err
	}
	return &StepDueDate{DaysBefore: days, Percentage: pct}, nil
}
