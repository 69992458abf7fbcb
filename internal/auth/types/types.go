// Package types defines common authentication types.
package types

import "strings"

// =============================================================================
// DECISION TYPES
// =============================================================================

// Decision is the outcome of checking a presented credential.
type Decision int

const (
	// Authorized means the bearer token is in the accepted set.
	Authorized Decision = iota

	// Unauthorized means the token is absent, empty, or not accepted.
	Unauthorized

	// NotConfigured means the accepted set is empty. This is a deployment
	// fault, distinct from a bad client credential.
	NotConfigured
)

// String returns the decision name for logs and telemetry.
func (d Decision) String() string {
	switch d {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	case NotConfigured:
		return "not_configured"
	default:
		return "unknown"
	}
}

// =============================================================================
// HEADER CONSTANTS
// =============================================================================

const (
	// HeaderAuthorization is the standard Authorization header.
	HeaderAuthorization = "Authorization"

	// HeaderContentType is the Content-Type header.
	HeaderContentType = "Content-Type"
)

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// BearerToken extracts the bearer token value from an Authorization header.
// The scheme is matched case-insensitively.
// Input: "Bearer abc" -> "abc", "bearer  abc " -> "abc", "abc" -> ""
func BearerToken(authHeader string) string {
	authHeader = strings.TrimSpace(authHeader)

	const bearerPrefix = "bearer "
	if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(authHeader[len(bearerPrefix):])
}
