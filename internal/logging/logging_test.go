package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	require.Equal(t, slog.LevelError, ParseLevel(" error "))
	require.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")

	log, closer := New("info", path)
	log.With("component", "test").Info("feed tick", "cycle", 7)
	log.Debug("dropped")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	require.Equal(t, "feed tick", record["msg"])
	require.Equal(t, "test", record["component"])
	require.EqualValues(t, 7, record["cycle"])
}

func TestNewConsoleOnly(t *testing.T) {
	log, closer := New("debug", "")
	require.True(t, log.Enabled(context.Background(), slog.LevelDebug))
	require.NoError(t, closer.Close())
}

func TestNewFileKeepsGroups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.log")

	log, closer := New("warn", path)
	log.Info("below level")
	log.WithGroup("feed").Warn("window full", "cycle", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]any
	require.NoError(t, json.Unmarshal(data, &record))
	require.Equal(t, "window full", record["msg"])
	group, ok := record["feed"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 3, group["cycle"])
}
