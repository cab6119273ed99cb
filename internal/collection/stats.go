package collection

import (
	"sort"
	"time"

	"github.com/jhaenchen/procrastitask/internal/model"
)

// Velocity is the fraction (as a percentage) of total work in flight
// cleared within the trailing window: accomplished stress over accomplished
// plus outstanding.
func (c *Collection) Velocity(window time.Duration, now time.Time) (float64, error) {
	accomplished := c.accomplishedWithin(c.filtered, window, now)
	outstanding, err := c.outstanding(c.filtered, now)
	if err != nil {
		return 0, err
	}
	return velocityPct(accomplished, outstanding), nil
}

// VelocityByList computes the velocity formula partitioned by list name.
func (c *Collection) VelocityByList(window time.Duration, now time.Time) (map[string]float64, error) {
	byList := map[string][]*model.Task{}
	for _, t := range c.filtered {
		byList[t.ListName] = append(byList[t.ListName], t)
	}
	out := make(map[string]float64, len(byList))
	for name, tasks := range byList {
		accomplished := c.accomplishedWithin(tasks, window, now)
		outstanding, err := c.outstanding(tasks, now)
		if err != nil {
			return nil, err
		}
		out[name] = velocityPct(accomplished, outstanding)
	}
	return out, nil
}

func velocityPct(accomplished, outstanding float64) float64 {
	return accomplished / (accomplished + max(outstanding, 1)) * 100
}

func (c *Collection) accomplishedWithin(tasks []*model.Task, window time.Duration, now time.Time) float64 {
	total := 0.0
	for _, t := range tasks {
		for _, rec := range t.History {
			if now.Sub(rec.CompletedAt) < window {
				total += rec.StressAtCompletion
			}
		}
	}
	return total
}

func (c *Collection) outstanding(tasks []*model.Task, now time.Time) (float64, error) {
	total := 0.0
	for _, t := range tasks {
		if t.IsComplete(now) {
			continue
		}
		stress, err := t.RenderedStress(now)
		if err != nil {
			return 0, err
		}
		total += stress
	}
	return total, nil
}

// LastCompleted returns up to n tasks ordered by their most recent
// completion, newest first. Tasks with no completion on record are skipped.
func (c *Collection) LastCompleted(n int) []*model.Task {
	completed := make([]*model.Task, 0, len(c.filtered))
	for _, t := range c.filtered {
		if len(t.History) > 0 {
			completed = append(completed, t)
		}
	}
	sort.SliceStable(completed, func(i, j int) bool {
		return latestCompletion(completed[i]).After(latestCompletion(completed[j]))
	})
	if len(completed) > n {
		completed = completed[:n]
	}
	return completed
}

// CompletedWithin returns tasks whose most recent completion falls inside
// the trailing window, newest first.
func (c *Collection) CompletedWithin(window time.Duration, now time.Time) []*model.Task {
	var out []*model.Task
	for _, t := range c.filtered {
		if len(t.History) == 0 {
			continue
		}
		if now.Sub(latestCompletion(t)) < window {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return latestCompletion(out[i]).After(latestCompletion(out[j]))
	})
	return out
}

// RecentlyCreated returns up to n tasks by creation date, newest first,
// optionally excluding tasks that are already complete.
func (c *Collection) RecentlyCreated(n int, includeComplete bool, now time.Time) []*model.Task {
	out := make([]*model.Task, 0, len(c.filtered))
	for _, t := range c.filtered {
		if !includeComplete && t.IsComplete(now) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func latestCompletion(t *model.Task) time.Time {
	return t.History[len(t.History)-1].CompletedAt
}
