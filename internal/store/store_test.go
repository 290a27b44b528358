package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/moviedb-cli/internal/config"
)

func TestOpen_None(t *testing.T) {
	s, err := Open(context.Background(), config.StoreConfig{Driver: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestOpen_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(context.Background(), config.StoreConfig{Driver: "sqlite", DatabaseURL: path})
	require.NoError(t, err)
	require.NotNil(t, s)
	defer s.Close() //nolint:errcheck

	runs, err := s.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.FileExists(t, path)
}

func TestOpen_PostgresRequiresURL(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.StoreConfig{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
