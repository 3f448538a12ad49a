package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "localhost:3080", cfg.Addr())
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CARDINAL_HOST", "0.0.0.0")
	t.Setenv("CARDINAL_PORT", "8080")

	cfg := FromEnv()
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestFromEnvIgnoresBadPort(t *testing.T) {
	t.Setenv("CARDINAL_PORT", "not-a-port")

	cfg := FromEnv()
	assert.Equal(t, 3080, cfg.Port)
}
