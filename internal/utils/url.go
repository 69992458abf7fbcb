package utils

import "strings"

// JoinEndpointURL joins a base URL and path, collapsing doubled slashes
// while keeping the scheme separator ("https://").
func JoinEndpointURL(base, path string) string {
	u := base + path
	scheme := ""
	if i := strings.Index(u, "://"); i >= 0 {
		scheme, u = u[:i+3], u[i+3:]
	}
	for strings.Contains(u, "//") {
		u = strings.ReplaceAll(u, "//", "/")
	}
	return scheme + u
}
