package config

import "strings"

// resolveEnvVar expands ${VAR:-default} syntax in config values.
func resolveEnvVar(value string, getenv func(string) string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	// Parse ${VAR:-default} or ${VAR}
	content := strings.TrimSuffix(strings.TrimPrefix(value, "${"), "}")

	var varName, defaultVal string
	if idx := strings.Index(content, ":-"); idx != -1 {
		varName = content[:idx]
		defaultVal = content[idx+2:]
	} else {
		varName = content
	}

	if v := getenv(varName); v != "" {
		return v
	}
	return defaultVal
}

// envBool accepts 1, true and yes in any case.
func envBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// splitKeys parses a comma-separated credential list, dropping blanks.
func splitKeys(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
