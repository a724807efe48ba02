package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gookit/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.DebugLevel},
		{"INFO", slog.InfoLevel},
		{" Warn ", slog.WarnLevel},
		{"error", slog.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestSetup_NoFile(t *testing.T) {
	closeFn, err := Setup("debug", "")
	require.NoError(t, err)
	assert.NoError(t, closeFn())
	t.Cleanup(slog.Reset)
}

func TestSetup_InvalidLevel(t *testing.T) {
	_, err := Setup("loud", "")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

func TestSetup_FileReceivesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cashbench.log")
	closeFn, err := Setup("info", path)
	require.NoError(t, err)
	t.Cleanup(slog.Reset)

	slog.WithFields(slog.M{"txid": "ab"}).Info("transaction composed")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "transaction composed")
	assert.Contains(t, string(data), `"txid"`)
}
