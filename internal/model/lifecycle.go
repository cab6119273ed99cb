package model

import (
	"time"

	"github.com/jhaenchen/procrastitask/internal/cron"
)

// reArmBuffer is the fraction of a recurrence interval by which a task
// bounces back to incomplete ahead of the nominal boundary. Resetting a
// little early reduces missed re-triggers.
const reArmBuffer = 0.10

// ResolveCompletion derives whether the task counts as complete right now.
// It is pure: reading it never mutates the task. Policies resolve in
// priority order: raw flag, cool-down, periodicity, recurring due date.
func (t *Task) ResolveCompletion(now time.Time) (bool, error) {
	if !t.Completed {
		return false, nil
	}

	if t.CoolDown != "" {
		interval, err := ParseCoolDown(t.CoolDown)
		if err != nil {
			return false, err
		}
		tLast := t.LastRefreshed
		if last, ok := t.lastCompletion(); ok {
			tLast = last
		}
		// Bounce back at 90% of the interval, not 100%.
		elapsed := float64(now.Sub(tLast))
		return elapsed <= (1-reArmBuffer)*float64(interval), nil
	}

	if t.Periodicity != "" {
		next, err := cron.NextAfter(t.Periodicity, now)
		if err != nil {
			return false, err
		}
		prev, err := cron.PrevBefore(t.Periodicity, now)
		if err != nil {
			return false, err
		}
		buffer := time.Duration(reArmBuffer * float64(next.Sub(prev)))
		resetAt := next.Add(-buffer)

		last, ok := t.lastCompletion()
		if !ok || last.Before(prev.Add(-buffer)) {
			// A boundary came and went without a completion.
			return false, nil
		}
		if !last.Before(resetAt) {
			// Completed inside the pre-boundary grace window; holds until
			// the next cycle.
			return true, nil
		}
		if now.After(resetAt) {
			return false, nil
		}
		return true, nil
	}

	if t.DueDateCron != "" {
		// Each scheduled occurrence must be satisfied individually; the
		// task is never durably complete.
		return false, nil
	}

	return t.Completed, nil
}

// ApplyResolution reconciles Status with the derived completion state:
// complete forces COMPLETE, and a stale COMPLETE demotes to INCOMPLETE.
// User-driven IN_PROGRESS/QUEUED are left alone.
func (t *Task) ApplyResolution(now time.Time) error {
	complete, err := t.ResolveCompletion(now)
	if err != nil {
		return err
	}
	if complete {
		t.Status = StatusComplete
	} else if t.Status == StatusComplete {
		t.Status = StatusIncomplete
	}
	return nil
}

// IsComplete is the convenience read of ResolveCompletion. Resolution can
// only fail on malformed cool-down/cron specs, which are validated on
// input; if it does fail the raw flag is the best remaining answer.
func (t *Task) IsComplete(now time.Time) bool {
	complete, err := t.ResolveCompletion(now)
	if err != nil {
		return t.Completed
	}
	return complete
}

// DynamicBaseDate picks the timestamp a stress dynamic measures elapsed
// time from. Each recurrence cycle restarts the clock at the most relevant
// boundary so stress does not compound across cycles.
func (t *Task) DynamicBaseDate(now time.Time) (time.Time, error) {
	if t.Periodicity != "" {
		if last, ok := t.lastCompletion(); ok {
			return cron.NextAfter(t.Periodicity, last)
		}
		return cron.PrevBefore(t.Periodicity, now)
	}

	if t.CoolDown != "" {
		last, ok := t.lastCompletion()
		if !ok {
			return t.CreatedAt, nil
		}
		interval, err := ParseCoolDown(t.CoolDown)
		if err != nil {
			return time.Time{}, err
		}
		expiry := last.Add(interval)
		if expiry.Before(now) {
			return expiry, nil
		}
		return t.CreatedAt, nil
	}

	return t.CreatedAt, nil
}
