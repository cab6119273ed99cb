// Package collection provides read-oriented queries over a set of tasks:
// ranking for "what should I work on", velocity statistics, and recency
// queries. It owns no tasks; the store does.
package collection

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jhaenchen/procrastitask/internal/model"
)

// urgencyBoost is the fraction of rendered stress added when a task is due
// soon, with a floor of one point so low-stress tasks still move.
const urgencyBoost = 0.33

// Collection is a view over filtered (session-selected lists) and
// unfiltered (everything loaded) tasks.
type Collection struct {
	filtered   []*model.Task
	unfiltered []*model.Task
	byID       map[string]*model.Task
	log        *zap.Logger
}

func New(filtered, unfiltered []*model.Task, log *zap.Logger) *Collection {
	if log == nil {
		log = zap.NewNop()
	}
	byID := make(map[string]*model.Task, len(unfiltered))
	for _, t := range unfiltered {
		byID[t.ID] = t
	}
	return &Collection{
		filtered:   filtered,
		unfiltered: unfiltered,
		byID:       byID,
		log:        log,
	}
}

// SortKey is the ranking score: rendered stress, boosted when due soon.
func (c *Collection) SortKey(t *model.Task, now time.Time) (float64, error) {
	stress, err := t.RenderedStress(now)
	if err != nil {
		return 0, err
	}
	if t.IsDueSoon(now) {
		stress += max(stress*urgencyBoost, 1)
	}
	return stress, nil
}

// DependenciesComplete reports whether every prerequisite of t is complete.
// Lookups go through an identifier index, never recursive traversal, so
// circular dependent_on references cannot loop. A dangling reference is
// logged and skipped rather than poisoning the whole check.
func (c *Collection) DependenciesComplete(t *model.Task) bool {
	for _, id := range t.DependentOn {
		dep, ok := c.byID[id]
		if !ok {
			c.log.Warn("dangling dependency reference, skipping",
				zap.String("task", t.ID), zap.String("dependency", id))
			continue
		}
		if !dep.Completed {
			return false
		}
	}
	return true
}

// DependentCount counts tasks that list t as a prerequisite.
func (c *Collection) DependentCount(t *model.Task) int {
	count := 0
	for _, other := range c.unfiltered {
		for _, id := range other.DependentOn {
			if id == t.ID {
				count++
				break
			}
		}
	}
	return count
}

// Ranked partitions the filtered tasks into the queued section and the
// main section, each sorted by descending sort key. With smartFilter,
// the main section drops completed tasks and tasks with incomplete
// prerequisites; without it everything shows (review/audit views).
func (c *Collection) Ranked(now time.Time, smartFilter bool) (queued, others []*model.Task, err error) {
	for _, t := range c.filtered {
		if t.Status == model.StatusQueued {
			queued = append(queued, t)
			continue
		}
		if smartFilter && (t.IsComplete(now) || !c.DependenciesComplete(t)) {
			continue
		}
		others = append(others, t)
	}
	if err := c.sortByKey(queued, now); err != nil {
		return nil, nil, err
	}
	if err := c.sortByKey(others, now); err != nil {
		return nil, nil, err
	}
	return queued, others, nil
}

func (c *Collection) sortByKey(tasks []*model.Task, now time.Time) error {
	keys := make(map[string]float64, len(tasks))
	for _, t := range tasks {
		k, err := c.SortKey(t, now)
		if err != nil {
			return err
		}
		keys[t.ID] = k
	}
	sort.SliceStable(tasks, func(i, j int) bool {
		return keys[tasks[i].ID] > keys[tasks[j].ID]
	})
	return nil
}
