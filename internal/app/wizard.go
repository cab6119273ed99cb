package app

import (
	"sort"

	"github.com/jhaenchen/procrastitask/internal/model"
)

// StrictMatches recommends tasks that fit both the available minutes and
// the available energy, easiest first.
func StrictMatches(tasks []*model.Task, availableTime, availableEnergy float64) []*model.Task {
	var out []*model.Task
	for _, t := range tasks {
		if float64(t.Duration) <= availableTime && t.Difficulty <= availableEnergy {
			out = append(out, t)
		}
	}
	sortByBaseStress(out)
	return out
}

// StretchMatches recommends tasks that fit the time but sit just above the
// energy level, up to 1.5x.
func StretchMatches(tasks []*model.Task, availableTime, availableEnergy float64) []*model.Task {
	stretch := availableEnergy * 1.5
	var out []*model.Task
	for _, t := range tasks {
		if float64(t.Duration) <= availableTime && t.Difficulty > availableEnergy && t.Difficulty <= stretch {
			out = append(out, t)
		}
	}
	sortByBaseStress(out)
	return out
}

func sortByBaseStress(tasks []*model.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Stress < tasks[j].Stress
	})
}
