// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvAsBoolParsing(t *testing.T) {
	t.Setenv("PANTRY_TEST_FLAG", "TRUE")
	assert.True(t, getEnvAsBool("PANTRY_TEST_FLAG", false))

	t.Setenv("PANTRY_TEST_FLAG", "0")
	assert.False(t, getEnvAsBool("PANTRY_TEST_FLAG", true))

	t.Setenv("PANTRY_TEST_FLAG", "maybe")
	assert.True(t, getEnvAsBool("PANTRY_TEST_FLAG", true))

	assert.False(t, getEnvAsBool("PANTRY_TEST_FLAG_UNSET", false))
}

func TestLoadReadsEmailToggle(t *testing.T) {
	t.Setenv("EMAIL_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.Email.Enabled)
}
