package config

import (
	"os"
	"strings"
)

// Environment variable name constants for PROJCLEAN_ prefixed overrides.
const (
	// EnvRules overrides the rule list with a comma-separated list of rule
	// strings.
	EnvRules = "PROJCLEAN_RULES"
	// EnvExclude overrides the exclude set with a comma-separated list of
	// directory names.
	EnvExclude = "PROJCLEAN_EXCLUDE"
	// EnvTime overrides the age filter.
	EnvTime = "PROJCLEAN_TIME"
	// EnvSize overrides the size filter.
	EnvSize = "PROJCLEAN_SIZE"
	// EnvCwd overrides the scan root.
	EnvCwd = "PROJCLEAN_CWD"
	// EnvLogFormat overrides the log output format (not a resolved field).
	EnvLogFormat = "PROJCLEAN_LOG_FORMAT"
	// EnvDebug forces debug-level logging (not a resolved field).
	EnvDebug = "PROJCLEAN_DEBUG"
)

// buildEnvMap reads PROJCLEAN_* environment variables and returns a flat map
// suitable for use with a koanf confmap provider. Only non-empty env vars
// are included.
func buildEnvMap() map[string]any {
	m := make(map[string]any)

	if v := os.Getenv(EnvRules); v != "" {
		m["rules"] = splitCommaList(v)
	}
	if v := os.Getenv(EnvExclude); v != "" {
		m["exclude"] = splitCommaList(v)
	}
	if v := os.Getenv(EnvTime); v != "" {
		m["time"] = v
	}
	if v := os.Getenv(EnvSize); v != "" {
		m["size"] = v
	}
	if v := os.Getenv(EnvCwd); v != "" {
		m["cwd"] = v
	}

	return m
}

func splitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
