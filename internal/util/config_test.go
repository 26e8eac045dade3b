package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewServerConfigDefaults(t *testing.T) {
	cfg := NewServerConfig()
	assert.Equal(t, defaultWriteTimeout, cfg.WriteTimeout)
	assert.Equal(t, defaultReadTimeout, cfg.ReadTimeout)
	assert.Equal(t, defaultIdleTimeout, cfg.IdleTimeout)
}

func TestParseDurationOrDefault(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "90s")
	assert.Equal(t, 90*time.Second, parseDurationOrDefault("SOME_TIMEOUT", time.Minute))

	t.Setenv("SOME_TIMEOUT", "garbage")
	assert.Equal(t, time.Minute, parseDurationOrDefault("SOME_TIMEOUT", time.Minute))

	assert.Equal(t, time.Minute, parseDurationOrDefault("UNSET_TIMEOUT", time.Minute))
}
