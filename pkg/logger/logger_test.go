package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lms_backend/internal/config"
)

func TestInitLoggerWritesToConfiguredFile(t *testing.T) {
	t.Cleanup(func() { Log = zap.NewNop() })

	path := filepath.Join(t.TempDir(), "nested", "lms.log")
	InitLogger(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{Path: path},
	})

	Log.Debug("hidden in release")
	Log.Info("Submission graded", zap.Uint("submissionID", 7))
	_ = Log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"service":"lms-backend"`)
	assert.Contains(t, out, `"mode":"release"`)
	assert.Contains(t, out, `"msg":"Submission graded"`)
	assert.Contains(t, out, `"submissionID":7`)
	assert.NotContains(t, out, "hidden in release")
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		level string
		want  zapcore.Level
	}{
		{name: "debug mode", mode: "debug", want: zapcore.DebugLevel},
		{name: "release mode", mode: "release", want: zapcore.InfoLevel},
		{name: "explicit level wins", mode: "debug", level: "warn", want: zapcore.WarnLevel},
		{name: "bad level falls back", mode: "release", level: "loud", want: zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.ServerConfig{Mode: tt.mode}, Log: config.LogConfig{Level: tt.level}}
			assert.Equal(t, tt.want, levelFor(cfg))
		})
	}
}
