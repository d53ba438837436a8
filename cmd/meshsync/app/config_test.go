package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denvermesh/meshsync/internal/sources/letsmesh"
	"github.com/denvermesh/meshsync/internal/sources/meshmapper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MESHMAPPER_URL", "")
	t.Setenv("LETSMESH_URL", "")
	t.Setenv("REGION", "")
	t.Setenv("LOG_LEVEL", "")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, meshmapper.DefaultURL, config.MeshMapperURL)
	assert.Equal(t, letsmesh.DefaultBaseURL, config.LetsMeshURL)
	assert.Equal(t, letsmesh.DefaultRegion, config.Region)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Equal(t, "stderr", config.LogOutput)
	assert.Empty(t, config.LogLevel)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MESHMAPPER_URL", "http://localhost:8080/repeaters.json")
	t.Setenv("LETSMESH_URL", "http://localhost:8081/api/nodes")
	t.Setenv("REGION", "PDX")
	t.Setenv("LOG_LEVEL", "debug")

	config, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/repeaters.json", config.MeshMapperURL)
	assert.Equal(t, "http://localhost:8081/api/nodes", config.LetsMeshURL)
	assert.Equal(t, "PDX", config.Region)
	assert.Equal(t, "debug", config.EnvLogLevel)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{EnvLogLevel: "warn"}

	config.UpdateFromFlags(true, false, true, "")
	assert.True(t, config.Verbose)
	assert.False(t, config.Quiet)
	assert.True(t, config.NoColor)
	assert.Empty(t, config.LogLevel, "empty flag must not clobber")

	config.UpdateFromFlags(false, true, false, "error")
	assert.Equal(t, "error", config.LogLevel)
}
