package auth

import (
	"github.com/rs/zerolog/log"

	"github.com/hlai/ai-hub-gateway/internal/config"
)

// SetupGate builds the Gate from the loaded configuration.
func SetupGate(cfg *config.Config) *Gate {
	gate := NewGate(cfg.Gateway.APIKeys)
	if !gate.Configured() {
		log.Warn().Msg("auth: no gateway API keys configured, all authenticated routes will return 503")
	} else {
		log.Info().Int("keys", gate.Count()).Msg("auth: gateway credentials loaded")
	}
	return gate
}
