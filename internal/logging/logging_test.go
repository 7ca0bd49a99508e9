package logging

import (
	"testing"

	"github.com/gradeplanner/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		level string
		debug bool
		warn  bool
	}{
		{"Development Debug", "development", "debug", true, true},
		{"Production Warn", "production", "warn", false, true},
		{"Unknown Level Falls Back To Info", "production", "loud", false, true},
		{"Error Only", "production", "error", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Server: config.ServerConfig{Env: tt.env, LogLevel: tt.level}}
			log, err := New(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.debug, log.Core().Enabled(zapcore.DebugLevel))
			assert.Equal(t, tt.warn, log.Core().Enabled(zapcore.WarnLevel))
		})
	}
}
