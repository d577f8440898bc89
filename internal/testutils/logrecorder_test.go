package testutils

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogRecorder(t *testing.T) {
	rec := NewLogRecorder()
	log := rec.Logger().With(slog.String("component", "test"))

	log.Warn("first", slog.Int("n", 1))
	log.Debug("second")

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "test", entries[0]["component"])
	assert.Equal(t, int64(1), entries[0]["n"])

	assert.Len(t, rec.Find("second"), 1)
	assert.Empty(t, rec.Find("missing"))
}
