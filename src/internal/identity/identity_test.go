package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/lixenwraith/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *log.Logger {
	return log.NewLogger()
}

func TestGetOrCreate(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "et", "telemetry.toml")

		first, err := GetOrCreate(path, newTestLogger())
		require.NoError(t, err)
		_, err = uuid.Parse(first)
		assert.NoError(t, err, "generated identity should be UUID-shaped")

		// Second run against the same path returns the same identifier
		second, err := GetOrCreate(path, newTestLogger())
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("RecreatedAfterDelete", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "telemetry.toml")

		first, err := GetOrCreate(path, newTestLogger())
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))

		second, err := GetOrCreate(path, newTestLogger())
		require.NoError(t, err)
		assert.NotEqual(t, first, second, "a deleted identity file yields a fresh identifier")
	})

	t.Run("MissingKeyIsFatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "telemetry.toml")
		require.NoError(t, os.WriteFile(path, []byte("[telemetry]\n"), 0o644))

		_, err := GetOrCreate(path, newTestLogger())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "missing telemetry.id")
	})

	t.Run("CorruptFileIsFatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "telemetry.toml")
		require.NoError(t, os.WriteFile(path, []byte("[[[not toml"), 0o644))

		_, err := GetOrCreate(path, newTestLogger())
		assert.Error(t, err)
	})
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath("tattle")
	assert.Contains(t, path, "tattle")
	assert.Equal(t, "telemetry.toml", filepath.Base(path))
}
