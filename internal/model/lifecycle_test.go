package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhaenchen/procrastitask/internal/dynamic"
)

func newTestTask(now time.Time) *Task {
	t := NewTask("test task", "description", now)
	t.Duration = 10
	t.Difficulty = 10
	t.Stress = 10
	return t
}

func TestCompleteAppendsHistorySnapshot(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)
	task.CoolDown = "1hr"

	require.NoError(t, task.Complete(now))
	require.Len(t, task.History, 1)
	assert.Equal(t, now, task.History[0].CompletedAt)
	assert.Equal(t, 10.0, task.History[0].StressAtCompletion)
	assert.Equal(t, StatusComplete, task.Status)

	later := now.Add(30 * time.Minute)
	require.NoError(t, task.Complete(later))
	require.Len(t, task.History, 2)
	assert.Equal(t, later, task.History[1].CompletedAt)
}

func TestCoolDownBouncesToIncomplete(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)
	task.CoolDown = "1hr"
	require.NoError(t, task.Complete(now))

	assert.True(t, task.IsComplete(now.Add(30*time.Minute)))
	// The 90% threshold on a 1hr cool-down falls at 54 minutes.
	assert.True(t, task.IsComplete(now.Add(53*time.Minute)))
	assert.False(t, task.IsComplete(now.Add(55*time.Minute)))
	assert.False(t, task.IsComplete(now.Add(66*time.Minute)))
}

func TestCoolDownUsesMostRecentCompletionFromHistory(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)
	task.CoolDown = "1hr"
	require.NoError(t, task.Complete(now))
	require.NoError(t, task.Complete(now.Add(30*time.Minute)))

	// 40 minutes after the *second* completion the task still holds.
	assert.True(t, task.IsComplete(now.Add(70*time.Minute)))
	assert.False(t, task.IsComplete(now.Add(90*time.Minute)))
}

func TestCoolDownFallsBackToLastRefreshedWithoutHistory(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)
	task.CoolDown = "1hr"
	task.Completed = true
	task.LastRefreshed = now

	assert.True(t, task.IsComplete(now.Add(10*time.Minute)))
	assert.False(t, task.IsComplete(now.Add(2*time.Hour)))
}

func TestIncompleteFlagShortCircuitsRecurrence(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)
	task.Periodicity = "0 8 * * *"

	complete, err := task.ResolveCompletion(now)
	require.NoError(t, err)
	assert.False(t, complete)
}

func TestPeriodicityGraceWindow(t *testing.T) {
	// Weekly boundary at Sunday midnight; 2026-03-08 is a Sunday.
	boundary := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	task := newTestTask(boundary.AddDate(0, 0, -14))
	task.Periodicity = "0 0 * * 0"
	require.NoError(t, task.Complete(boundary))

	// Holds through the week...
	assert.True(t, task.IsComplete(boundary.AddDate(0, 0, 2)))
	assert.True(t, task.IsComplete(boundary.AddDate(0, 0, 6)))
	// ...until 10% before the next boundary (16.8h before Sunday).
	assert.False(t, task.IsComplete(time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)))
}

func TestPeriodicityMissedBoundaryResets(t *testing.T) {
	completed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	task := newTestTask(completed.AddDate(0, 0, -7))
	task.Periodicity = "0 0 * * 0"
	require.NoError(t, task.Complete(completed))

	// A full boundary (2026-03-08) has passed since the completion.
	assert.False(t, task.IsComplete(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)))
}

func TestPeriodicityCompletionInGraceWindowHolds(t *testing.T) {
	// Completing inside the 10% pre-boundary window satisfies the next cycle.
	task := newTestTask(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	task.Periodicity = "0 0 * * 0"
	graceCompletion := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	require.NoError(t, task.Complete(graceCompletion))

	assert.True(t, task.IsComplete(time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)))
}

func TestRecurringDueDateNeverDurablyComplete(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)
	task.DueDateCron = "0 8 * * *"
	require.NoError(t, task.Complete(now))

	assert.False(t, task.IsComplete(now.Add(time.Minute)))
}

func TestPlainTaskUsesRawFlag(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)
	require.NoError(t, task.Complete(now))
	assert.True(t, task.IsComplete(now.AddDate(10, 0, 0)))

	task.SetIncomplete(now)
	assert.False(t, task.IsComplete(now))
}

func TestApplyResolutionDemotesStaleComplete(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)
	task.CoolDown = "1hr"
	require.NoError(t, task.Complete(now))

	later := now.Add(2 * time.Hour)
	require.NoError(t, task.ApplyResolution(later))
	assert.Equal(t, StatusIncomplete, task.Status)

	// User-driven triage states are not touched.
	task.SetQueued()
	require.NoError(t, task.ApplyResolution(later))
	assert.Equal(t, StatusQueued, task.Status)
}

func TestSetInProgressAndIncomplete(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now)

	task.SetInProgress()
	assert.Equal(t, StatusInProgress, task.Status)
	assert.False(t, task.IsComplete(now))

	task.SetIncomplete(now)
	assert.Equal(t, StatusIncomplete, task.Status)
	assert.False(t, task.IsComplete(now))
}

func TestDynamicBaseDateCoolDownExpiry(t *testing.T) {
	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	task := newTestTask(now.Add(-4 * time.Hour))
	task.CoolDown = "1hr"
	task.StressDynamic = &dynamic.Linear{Interval: 1}
	lastCompletion := now.Add(-3 * time.Hour)
	task.History = []CompletionRecord{{CompletedAt: lastCompletion, StressAtCompletion: 5}}
	task.Completed = true

	base, err := task.DynamicBaseDate(now)
	require.NoError(t, err)
	assert.Equal(t, lastCompletion.Add(time.Hour), base)

	stress, err := task.RenderedStress(now)
	require.NoError(t, err)
	assert.Greater(t, stress, 10.0)
}

func TestDynamicBaseDateCoolDownNotYetExpired(t *testing.T) {
	now := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)
	created := now.Add(-4 * time.Hour)
	task := newTestTask(created)
	task.CoolDown = "3hr"
	task.History = []CompletionRecord{{CompletedAt: now.Add(-time.Hour), StressAtCompletion: 5}}

	base, err := task.DynamicBaseDate(now)
	require.NoError(t, err)
	assert.Equal(t, created, base)
}

func TestDynamicBaseDatePeriodicityUsesBoundaryAfterCompletion(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now.AddDate(0, 0, -5))
	task.Periodicity = "0 8 * * *"
	lastCompletion := now.AddDate(0, 0, -2)
	task.History = []CompletionRecord{{CompletedAt: lastCompletion, StressAtCompletion: 5}}

	base, err := task.DynamicBaseDate(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC), base)
}

func TestDynamicBaseDatePeriodicityNoCompletion(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	task := newTestTask(now.AddDate(0, 0, -5))
	task.Periodicity = "0 8 * * *"

	base, err := task.DynamicBaseDate(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC), base)
}

func TestDynamicBaseDateDefaultsToCreation(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	created := now.AddDate(0, 0, -3)
	task := newTestTask(created)

	base, err := task.DynamicBaseDate(now)
	require.NoError(t, err)
	assert.Equal(t, created, base)
}

func TestPeriodicStressRestartsAtBoundaryAfterCompletion(t *testing.T) {
	// Completing a weekly task restarts its stress clock at the boundary
	// that follows the completion, not at the completion itself.
	start := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	task := newTestTask(start.AddDate(0, 0, -21))
	task.Periodicity = "0 0 * * 0"
	task.StressDynamic = &dynamic.Linear{Interval: 1}
	require.NoError(t, task.Complete(start))

	// Twelve days later, elapsed time counts only from the 2026-03-15
	// boundary: five days of growth, not twelve.
	later := start.AddDate(0, 0, 12)
	stress, err := task.RenderedStress(later)
	require.NoError(t, err)
	assert.InDelta(t, task.Stress+5, stress, 1e-6)
}
