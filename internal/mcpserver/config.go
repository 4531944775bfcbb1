package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// MaxInlineSize caps inline spec content passed to tools, in bytes.
	MaxInlineSize int64

	// RewriteLimit is the default pagination limit for rewrite listings.
	RewriteLimit int
	// MaxLimit caps any client-requested pagination limit.
	MaxLimit int

	// CheckOutput enables the structural output check by default for the
	// prep tool.
	CheckOutput bool
	// UserAgent overrides the User-Agent for HTTP fetches.
	UserAgent string
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from APIMPREP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		MaxInlineSize: envInt64("APIMPREP_MAX_INLINE_SIZE", 10*1024*1024),
		RewriteLimit:  envInt("APIMPREP_REWRITE_LIMIT", 100),
		MaxLimit:      envInt("APIMPREP_MAX_LIMIT", 1000),
		CheckOutput:   envBool("APIMPREP_CHECK_OUTPUT", false),
		UserAgent:     os.Getenv("APIMPREP_USER_AGENT"),
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

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}
