package logger

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_FollowsGoEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	t.Setenv("GO_ENV", "production")
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)

	t.Setenv("GO_ENV", "development")
	cfg = DefaultConfig()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "text", cfg.Format)
}

func TestDefaultConfig_ExplicitLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_OUTPUT", "stdout")
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "stdout", cfg.Output)
}

func TestGetLogger_NamedAndCached(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(&LogConfig{Level: "debug", Format: "json", Output: "file", LogPath: dir,
		AppFile: "app.log", AuditFile: "audit.log", ErrorFile: "error.log", MaxSize: 1}))
	loggersMu.Lock()
	loggers = map[string]*logrus.Logger{}
	loggersMu.Unlock()

	app := GetAppLogger()
	assert.Same(t, app, GetAppLogger())
	assert.NotSame(t, app, GetAuditLogger())
	assert.Equal(t, filepath.Join(dir, "audit.log"), logFilePath("audit"))
	assert.Equal(t, filepath.Join(dir, "prime.log"), logFilePath("prime"))
}
