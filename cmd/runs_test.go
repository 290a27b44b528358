package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/moviedb-cli/internal/model"
	"github.com/sells-group/moviedb-cli/internal/store"
)

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	finished := now.Add(1500 * time.Millisecond)
	runs := []model.Run{
		{
			ID:       "abc12345-6789-0000-0000-000000000000",
			DataFile: "movies.csv",
			Status:   model.RunStatusPartial,
			Summary: &model.RunSummary{Movies: 250, Tasks: []model.TaskOutcome{
				{Name: "oscar_movies", Status: model.TaskStatusOK},
				{Name: "movies_by_year", Status: model.TaskStatusFailed},
			}},
			CreatedAt:  now,
			FinishedAt: &finished,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			DataFile:  "https://example.com/datasets/very/long/path/to/the/movies.csv",
			Status:    model.RunStatusRunning,
			CreatedAt: now.Add(-1 * time.Hour),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "DATA FILE")
	assert.Contains(t, output, "abc12345")
	assert.Contains(t, output, "partial")
	assert.Contains(t, output, "250")
	assert.Contains(t, output, "1/2")
	assert.Contains(t, output, "1.5s")
	assert.Contains(t, output, "2025-06-15 10:30")
	assert.Contains(t, output, "running")
	assert.Contains(t, output, "...")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestOpenRunStore_Disabled(t *testing.T) {
	useTestConfig(t)
	cfg.Store.Driver = "none"

	_, err := openRunStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestOpenRunStore_SQLite(t *testing.T) {
	useTestConfig(t)

	st, err := openRunStore(context.Background())
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	runs, err := st.ListRuns(context.Background(), store.RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}
