// Package auth gates client requests on a fixed set of bearer credentials.
//
// The accepted set is built once at startup from configuration and never
// mutated, so a Gate is safe for concurrent use without locking.
package auth

import (
	"github.com/hlai/ai-hub-gateway/internal/auth/types"
)

// Re-export types for convenience
type Decision = types.Decision

// Re-export constants
const (
	Authorized    = types.Authorized
	Unauthorized  = types.Unauthorized
	NotConfigured = types.NotConfigured

	HeaderAuthorization = types.HeaderAuthorization
	HeaderContentType   = types.HeaderContentType
)

// Re-export functions
var BearerToken = types.BearerToken
