package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	log, err := New(&Config{Level: "debug", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return log
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run("level "+tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json entries carry the standard keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)

		log.Info("service started", zap.String("component", "server"))
		require.NoError(t, log.Sync())

		raw, err := os.ReadFile(path)
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(raw, &entry))
		assert.Equal(t, "service started", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "server", entry["component"])
		assert.Contains(t, entry, "time")
		assert.Contains(t, entry, "caller")
	})

	t.Run("level filters lower entries", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(&Config{Level: "warn", Format: "json", Output: path})
		require.NoError(t, err)

		log.Info("dropped entry")
		log.Warn("kept entry")
		require.NoError(t, log.Sync())

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "dropped entry")
		assert.Contains(t, string(raw), "kept entry")
	})

	t.Run("console format uses capital levels", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(&Config{Level: "info", Format: "console", Output: path})
		require.NoError(t, err)

		log.Info("console entry")
		require.NoError(t, log.Sync())

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), "INFO")
		assert.Contains(t, string(raw), "console entry")
	})

	t.Run("unknown format falls back to json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")
		log, err := New(&Config{Level: "info", Format: "yaml", Output: path})
		require.NoError(t, err)

		log.Info("fallback entry")
		require.NoError(t, log.Sync())

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		var entry map[string]any
		assert.NoError(t, json.Unmarshal(raw, &entry))
	})

	t.Run("unopenable output path is an error", func(t *testing.T) {
		_, err := New(&Config{
			Level:  "info",
			Format: "json",
			Output: filepath.Join(t.TempDir(), "missing", "app.log"),
		})
		assert.Error(t, err)
	})
}

func TestSync(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	log.Info("flushed entry")
	assert.NoError(t, Sync(log))
}
