package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhaenchen/procrastitask/internal/dynamic"
)

func TestRecordRoundTrip(t *testing.T) {
	reg := dynamic.NewRegistry()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	task := NewTask("write report", "the quarterly one", now)
	task.Duration = 90
	task.Difficulty = 6
	task.Stress = 12.5
	task.ListName = "work"
	task.CoolDown = "2d"
	task.DependentOn = []string{"abc", "def"}
	due := now.AddDate(0, 0, 4)
	task.DueDate = &due
	task.StressDynamic = mustParse(t, reg, "static-offset.2 (+) dynamic-linear-day.3")
	require.NoError(t, task.Complete(now))

	data, err := json.Marshal(task.ToRecord())
	require.NoError(t, err)

	var rec Record
	require.NoError(t, json.Unmarshal(data, &rec))
	got, err := FromRecord(rec, reg)
	require.NoError(t, err)

	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, task.Title, got.Title)
	assert.Equal(t, task.Description, got.Description)
	assert.Equal(t, task.Duration, got.Duration)
	assert.Equal(t, task.Difficulty, got.Difficulty)
	assert.Equal(t, task.Stress, got.Stress)
	assert.Equal(t, task.ListName, got.ListName)
	assert.Equal(t, task.CoolDown, got.CoolDown)
	assert.Equal(t, task.DependentOn, got.DependentOn)
	assert.Equal(t, task.Completed, got.Completed)
	assert.Equal(t, task.Status, got.Status)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))
	assert.True(t, got.CreatedAt.Equal(task.CreatedAt))
	assert.True(t, got.LastRefreshed.Equal(task.LastRefreshed))
	require.NotNil(t, got.StressDynamic)
	assert.Equal(t, task.StressDynamic.Token(), got.StressDynamic.Token())
	require.Len(t, got.History, 1)
	assert.True(t, got.History[0].CompletedAt.Equal(task.History[0].CompletedAt))
	assert.Equal(t, task.History[0].StressAtCompletion, got.History[0].StressAtCompletion)
}

func TestFromRecordDefaults(t *testing.T) {
	reg := dynamic.NewRegistry()
	got, err := FromRecord(Record{Title: "bare"}, reg)
	require.NoError(t, err)

	assert.NotEmpty(t, got.ID, "missing identifiers are assigned on load")
	assert.Equal(t, DefaultListName, got.ListName)
	assert.Equal(t, StatusIncomplete, got.Status)
	assert.Equal(t, defaultRefreshed, got.LastRefreshed)
	assert.NotNil(t, got.DependentOn)
}

func TestFromRecordRejectsUnknownDynamic(t *testing.T) {
	reg := dynamic.NewRegistry()
	token := "dynamic-bogus.1"
	_, err := FromRecord(Record{Title: "x", StressDynamic: &token}, reg)
	assert.Error(t, err)
}

func mustParse(t *testing.T, reg *dynamic.Registry, token string) dynamic.Dynamic {
	t.Helper()
	d, err := reg.Parse(token)
	require.NoError(t, err)
	return d
}
