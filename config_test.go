package fastagi

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()
	assert.Equal(t, defaultReadBufferSize, cfg.ReadBufferSize)
	assert.NotNil(t, cfg.Logger)
}

func TestNewConfig_OptionsApplyInOrder(t *testing.T) {
	logger := zap.NewExample()
	cfg := NewConfig(WithReadBufferSize(1024), WithReadBufferSize(8192), WithLogger(logger))
	assert.Equal(t, 8192, cfg.ReadBufferSize)
	assert.Same(t, logger, cfg.Logger)
}

func TestLoadConfigFromEnv_ReadsPrefixedVariable(t *testing.T) {
	require.NoError(t, os.Setenv("FASTAGI_READ_BUFFER_SIZE", "4096"))
	defer os.Unsetenv("FASTAGI_READ_BUFFER_SIZE")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 4096, cfg.ReadBufferSize)
	assert.NotNil(t, cfg.Logger)
}

func TestLoadConfigFromEnv_DefaultsWhenUnset(t *testing.T) {
	os.Unsetenv("FASTAGI_READ_BUFFER_SIZE")
	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, defaultReadBufferSize, cfg.ReadBufferSize)
}
