package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds the configurable MCP server defaults.
// Loaded once at startup from REFITGEN_* environment variables.
type serverConfig struct {
	// Input limits.
	MaxInlineSize int64
	FetchTimeout  time.Duration

	// AllowPrivateIPs lets url inputs reach private and loopback hosts.
	AllowPrivateIPs bool

	// Validate tool defaults.
	ValidateStrict bool
	IssueLimit     int
	MaxLimit       int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from REFITGEN_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		MaxInlineSize:   int64(envInt("REFITGEN_MAX_INLINE_SIZE", 10*1024*1024)),
		FetchTimeout:    envDuration("REFITGEN_FETCH_TIMEOUT", 30*time.Second),
		AllowPrivateIPs: envBool("REFITGEN_ALLOW_PRIVATE_IPS", false),
		ValidateStrict:  envBool("REFITGEN_VALIDATE_STRICT", false),
		IssueLimit:      envInt("REFITGEN_ISSUE_LIMIT", 100),
		MaxLimit:        envInt("REFITGEN_MAX_LIMIT", 1000),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
