package telemetry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func repos(t *testing.T) map[string]Repository {
	t.Helper()
	sqlite, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "telemetry.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })
	return map[string]Repository{
		"memory": NewMemoryRepository(),
		"sqlite": sqlite,
	}
}

func TestRecordAndGetEvents(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.RecordEvent(EventTaskCreated, EventMetadata{"task_id": "t1"}))
			require.NoError(t, repo.RecordEvent(EventTaskCompleted, EventMetadata{"task_id": "t1"}))
			require.NoError(t, repo.RecordEvent(EventStoreSaved, nil))

			all, err := repo.GetEvents(time.Time{}, nil)
			require.NoError(t, err)
			require.Len(t, all, 3)
			assert.Equal(t, EventTaskCreated, all[0].Type)
			assert.Contains(t, all[0].Metadata, `"task_id":"t1"`)

			completions, err := repo.GetEvents(time.Time{}, []EventType{EventTaskCompleted})
			require.NoError(t, err)
			require.Len(t, completions, 1)
			assert.Equal(t, EventTaskCompleted, completions[0].Type)
		})
	}
}

func TestGetEventsSinceFiltersOld(t *testing.T) {
	repo := NewMemoryRepository()
	past := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return past }
	require.NoError(t, repo.RecordEvent(EventTaskDeleted, nil))
	repo.now = func() time.Time { return past.Add(48 * time.Hour) }
	require.NoError(t, repo.RecordEvent(EventStressRefreshed, nil))

	recent, err := repo.GetEvents(past.Add(24*time.Hour), nil)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, EventStressRefreshed, recent[0].Type)
}

func TestClear(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, repo.RecordEvent(EventTaskCreated, nil))
			require.NoError(t, repo.Clear())
			events, err := repo.GetEvents(time.Time{}, nil)
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	}
}
