package testutil

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingHandler(t *testing.T) {
	logger, h := NewTestLogger(t)

	logger.With(slog.String("component", "loader")).
		WithGroup("load").
		Warn("dataset missing", slog.String("path", "data/log.csv"))
	logger.Info("ready")

	records := h.Records()
	require.Len(t, records, 2)

	r := AssertLogged(t, h, slog.LevelWarn, "missing")
	assert.Equal(t, "loader", r.Attrs["component"])
	assert.Equal(t, "data/log.csv", r.Attrs["load.path"])

	_, ok := h.Find(slog.LevelError, "ready")
	assert.False(t, ok)
}

func TestWriteDatasets(t *testing.T) {
	files := WriteDatasets(t, "", ChangeLogCSV, EnrichedCSV)

	assert.NoFileExists(t, files.Master)
	assert.FileExists(t, files.ChangeLog)
	assert.FileExists(t, files.Enriched)
}
