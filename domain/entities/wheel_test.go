package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWheelState_IsEnabled(t *testing.T) {
	s := WheelState{Enabled: map[string]bool{"off": false, "on": true}}

	assert.True(t, s.IsEnabled("on"))
	assert.False(t, s.IsEnabled("off"))
	assert.True(t, s.IsEnabled("never-seen"))
	assert.True(t, WheelState{}.IsEnabled("nil map"))
}

func TestDefaultWheelConfig(t *testing.T) {
	cfg := DefaultWheelConfig()
	assert.Equal(t, DefaultSpinDuration, cfg.SpinDuration)
	assert.NotNil(t, cfg.Items)
	assert.Empty(t, cfg.Items)
}
