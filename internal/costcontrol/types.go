// Package costcontrol implements per-client spend accounting.
//
// DESIGN: Every successful upstream completion is priced from its reported token
// usage and attributed to the calling credential's fingerprint. Accounting is
// report-only: nothing is ever blocked on spend. Figures are served on /stats.
package costcontrol

import (
	"fmt"
	"time"
)

// CostControlConfig holds cost accounting settings.
type CostControlConfig struct {
	Enabled bool `yaml:"enabled"` // Whether spend is recorded at all

	// Pricing overrides the built-in table, keyed by model or deployment name.
	Pricing map[string]ModelPricing `yaml:"pricing"`
}

// Validate checks cost control configuration.
func (c *CostControlConfig) Validate() error {
	for model, p := range c.Pricing {
		if p.InputPerMTok < 0 || p.OutputPerMTok < 0 {
			return fmt.Errorf("cost_control.pricing[%s] must be >= 0", model)
		}
	}
	return nil
}

// ClientSpend tracks accumulated cost for a single client credential.
type ClientSpend struct {
	ClientID     string
	Cost         float64
	RequestCount int
	InputTokens  int
	OutputTokens int
	Model        string
	CreatedAt    time.Time
	LastUpdated  time.Time
}

// ClientSpendSnapshot is a read-only copy of a client's spend for /stats.
type ClientSpendSnapshot struct {
	ClientID     string    `json:"client_id"`
	Cost         float64   `json:"cost_usd"`
	RequestCount int       `json:"requests"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	Model        string    `json:"model,omitempty"`
	LastUpdated  time.Time `json:"last_updated"`
}
