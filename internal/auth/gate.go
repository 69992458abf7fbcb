package auth

import "github.com/hlai/ai-hub-gateway/internal/utils"

// Gate validates bearer credentials against an immutable accepted set.
type Gate struct {
	keys map[string]struct{}
}

// NewGate copies keys into a new Gate. Blank keys are ignored.
func NewGate(keys []string) *Gate {
	g := &Gate{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k != "" {
			g.keys[k] = struct{}{}
		}
	}
	return g
}

// Authorize checks the raw Authorization header value.
func (g *Gate) Authorize(header string) Decision {
	if len(g.keys) == 0 {
		return NotConfigured
	}
	token := BearerToken(header)
	if token == "" {
		return Unauthorized
	}
	if _, ok := g.keys[token]; !ok {
		return Unauthorized
	}
	return Authorized
}

// Configured reports whether any credential is accepted.
func (g *Gate) Configured() bool { return len(g.keys) > 0 }

// Count returns the number of accepted credentials.
func (g *Gate) Count() int { return len(g.keys) }

// ClientID returns a log-safe fingerprint of the caller's credential.
func ClientID(header string) string {
	return utils.MaskKey(BearerToken(header))
}
