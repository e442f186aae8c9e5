package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearEnv clears every REFITGEN_* variable the server reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"REFITGEN_MAX_INLINE_SIZE", "REFITGEN_FETCH_TIMEOUT",
		"REFITGEN_ALLOW_PRIVATE_IPS", "REFITGEN_VALIDATE_STRICT",
		"REFITGEN_ISSUE_LIMIT", "REFITGEN_MAX_LIMIT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	c := loadConfig()

	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 30*time.Second, c.FetchTimeout)
	assert.False(t, c.AllowPrivateIPs)
	assert.False(t, c.ValidateStrict)
	assert.Equal(t, 100, c.IssueLimit)
	assert.Equal(t, 1000, c.MaxLimit)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REFITGEN_MAX_INLINE_SIZE", "2048")
	t.Setenv("REFITGEN_FETCH_TIMEOUT", "5s")
	t.Setenv("REFITGEN_ALLOW_PRIVATE_IPS", "true")
	t.Setenv("REFITGEN_VALIDATE_STRICT", "1")
	t.Setenv("REFITGEN_ISSUE_LIMIT", "20")
	t.Setenv("REFITGEN_MAX_LIMIT", "40")

	c := loadConfig()

	assert.Equal(t, int64(2048), c.MaxInlineSize)
	assert.Equal(t, 5*time.Second, c.FetchTimeout)
	assert.True(t, c.AllowPrivateIPs)
	assert.True(t, c.ValidateStrict)
	assert.Equal(t, 20, c.IssueLimit)
	assert.Equal(t, 40, c.MaxLimit)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("REFITGEN_MAX_INLINE_SIZE", "-1")
	t.Setenv("REFITGEN_FETCH_TIMEOUT", "soon")
	t.Setenv("REFITGEN_ALLOW_PRIVATE_IPS", "maybe")
	t.Setenv("REFITGEN_ISSUE_LIMIT", "many")

	c := loadConfig()

	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Equal(t, 30*time.Second, c.FetchTimeout)
	assert.False(t, c.AllowPrivateIPs)
	assert.Equal(t, 100, c.IssueLimit)
}
