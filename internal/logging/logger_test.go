package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ozgurozkan01/pyLog/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pylog.log")
	logger, err := New(config.LoggingConfig{Level: "info", Format: "json", OutputFile: path})
	require.NoError(t, err)

	logger.Named(ComponentStore).Info("ready")
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"ready"`)
	assert.Contains(t, out, `"logger":"store"`)
	assert.False(t, strings.Contains(out, "hidden"), "debug entry written at info level")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New(config.LoggingConfig{Level: "chatty", Format: "console"})
	assert.Error(t, err)
}
