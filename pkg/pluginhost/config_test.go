package pluginhost

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultManagerConfig(t *testing.T) {
	cfg := DefaultManagerConfig()
	assert.False(t, cfg.BinaryMode)
	assert.Equal(t, 200*time.Millisecond, cfg.PrePollInterval)
	assert.Equal(t, 2*time.Second, cfg.PostPollInterval)
	assert.Equal(t, 25, cfg.ReadyTickGate)
	assert.Equal(t, "allow.ini", cfg.AllowFile)
	assert.Equal(t, "block.ini", cfg.BlockFile)
	assert.Contains(t, cfg.CompileCommand, "{{.Source}}")
	assert.Contains(t, cfg.CompileCommand, "{{.Output}}")
}

func TestNewManagerConfig_WrapsTypedConfig(t *testing.T) {
	tc := NewManagerConfig()
	require.NotNil(t, tc)
	assert.Equal(t, DefaultManagerConfig(), tc.Value)
}

func TestRunState_String(t *testing.T) {
	assert.Equal(t, "Executing", Executing.String())
	assert.Equal(t, "Paused", Paused.String())
	assert.Equal(t, "Stopped", Stopped.String())
	assert.Equal(t, "RunState(99)", RunState(99).String())
}
