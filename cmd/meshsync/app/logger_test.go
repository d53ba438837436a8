package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel_Precedence(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "default",
			config: Config{},
			want:   "info",
		},
		{
			name:   "env variable",
			config: Config{EnvLogLevel: "debug"},
			want:   "debug",
		},
		{
			name:   "verbose beats env",
			config: Config{Verbose: true, EnvLogLevel: "error"},
			want:   "debug",
		},
		{
			name:   "quiet beats env",
			config: Config{Quiet: true, EnvLogLevel: "trace"},
			want:   "warn",
		},
		{
			name:   "quiet wins over verbose",
			config: Config{Verbose: true, Quiet: true},
			want:   "warn",
		},
		{
			name:   "explicit flag beats everything",
			config: Config{LogLevel: "error", Verbose: true, EnvLogLevel: "trace"},
			want:   "error",
		},
		{
			name:   "invalid explicit flag falls back to info",
			config: Config{LogLevel: "loud"},
			want:   "info",
		},
		{
			name:   "invalid env falls back to info",
			config: Config{EnvLogLevel: "loud"},
			want:   "info",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		assert.Equal(t, level, validateLogLevel(level))
	}
	assert.Equal(t, "info", validateLogLevel(""))
	assert.Equal(t, "info", validateLogLevel("fatal"))
	assert.Equal(t, "info", validateLogLevel("INFO"))
}
