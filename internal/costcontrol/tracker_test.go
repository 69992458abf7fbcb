package costcontrol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetModelPricing(t *testing.T) {
	tests := []struct {
		name     string
		model    string
		expected ModelPricing
	}{
		{"exact", "gpt-4o", ModelPricing{InputPerMTok: 2.5, OutputPerMTok: 10}},
		{"versioned id uses family", "gpt-4o-mini-2025-01-01", ModelPricing{InputPerMTok: 0.15, OutputPerMTok: 0.60}},
		{"case insensitive", "GPT-4.1-mini", ModelPricing{InputPerMTok: 0.4, OutputPerMTok: 1.6}},
		{"unknown falls back", "my-grader-deployment", defaultPricing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetModelPricing(tt.model, nil))
		})
	}
}

func TestGetModelPricing_OverrideWins(t *testing.T) {
	overrides := map[string]ModelPricing{"grader": {InputPerMTok: 1, OutputPerMTok: 2}}
	assert.Equal(t, overrides["grader"], GetModelPricing("grader", overrides))
}

func TestTracker_RecordUsage(t *testing.T) {
	tr := NewTracker(CostControlConfig{Enabled: true})
	defer tr.Close()

	cost := tr.RecordUsage("client-a", "gpt-4o", 1_000_000, 100_000)
	assert.InDelta(t, 3.5, cost, 1e-9)

	tr.RecordUsage("client-a", "gpt-4o", 1_000_000, 0)
	tr.RecordUsage("client-b", "gpt-4o-mini", 1_000_000, 0)

	assert.InDelta(t, 6.0, tr.GetClientCost("client-a"), 1e-9)
	assert.InDelta(t, 6.15, tr.GetGlobalCost(), 1e-6)

	clients := tr.AllClients()
	require.Len(t, clients, 2)
	assert.Equal(t, "client-a", clients[0].ClientID)
	assert.Equal(t, 2, clients[0].RequestCount)
	assert.Equal(t, 2_000_000, clients[0].InputTokens)
}

func TestTracker_DisabledRecordsNothing(t *testing.T) {
	tr := NewTracker(CostControlConfig{})
	defer tr.Close()

	assert.Zero(t, tr.RecordUsage("client-a", "gpt-4o", 1000, 1000))
	assert.Empty(t, tr.AllClients())
	assert.Zero(t, tr.GetGlobalCost())
}

func TestTracker_EvictStale(t *testing.T) {
	tr := NewTracker(CostControlConfig{Enabled: true})
	defer tr.Close()

	tr.RecordUsage("client-a", "gpt-4o", 1_000_000, 0)
	tr.evictStale(time.Now().Add(clientTTL + time.Minute))

	assert.Empty(t, tr.AllClients())
	assert.InDelta(t, 0, tr.GetGlobalCost(), 1e-9)
}

func TestCostControlConfig_Validate(t *testing.T) {
	cfg := CostControlConfig{Pricing: map[string]ModelPricing{"x": {InputPerMTok: -1}}}
	assert.Error(t, cfg.Validate())

	cfg.Pricing["x"] = ModelPricing{InputPerMTok: 1, OutputPerMTok: 1}
	assert.NoError(t, cfg.Validate())
}
