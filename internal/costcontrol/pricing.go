package costcontrol

import "strings"

// ModelPricing holds per-million-token pricing for a model.
type ModelPricing struct {
	InputPerMTok  float64 `yaml:"input_per_mtok"`  // USD per million input tokens
	OutputPerMTok float64 `yaml:"output_per_mtok"` // USD per million output tokens
}

// modelPricingTable maps model names to their pricing.
var modelPricingTable = map[string]ModelPricing{
	"gpt-4o":                 {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-2024-11-20":      {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-2024-08-06":      {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-mini":            {InputPerMTok: 0.15, OutputPerMTok: 0.60},
	"gpt-4o-mini-2024-07-18": {InputPerMTok: 0.15, OutputPerMTok: 0.60},
	"gpt-4.1":                {InputPerMTok: 2, OutputPerMTok: 8},
	"gpt-4.1-mini":           {InputPerMTok: 0.4, OutputPerMTok: 1.6},
	"gpt-4.1-nano":           {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gpt-35-turbo":           {InputPerMTok: 0.5, OutputPerMTok: 1.5},
}

// defaultPricing is used for unknown models (conservative to avoid under-reporting).
var defaultPricing = ModelPricing{InputPerMTok: 10, OutputPerMTok: 30}

// modelFamilyPricing maps model family prefixes to pricing.
// Longest prefix wins, so "gpt-4o-mini" is not priced as "gpt-4o".
var modelFamilyPricing = map[string]ModelPricing{
	"gpt-4o-mini":  {InputPerMTok: 0.15, OutputPerMTok: 0.60},
	"gpt-4o":       {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4.1-nano": {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gpt-4.1-mini": {InputPerMTok: 0.4, OutputPerMTok: 1.6},
	"gpt-4.1":      {InputPerMTok: 2, OutputPerMTok: 8},
	"gpt-35-turbo": {InputPerMTok: 0.5, OutputPerMTok: 1.5},
	"gpt-4":        {InputPerMTok: 10, OutputPerMTok: 30},
}

// GetModelPricing returns pricing for a model.
// Tries overrides, exact match, then prefix/family match (longest prefix wins), then default.
func GetModelPricing(model string, overrides map[string]ModelPricing) ModelPricing {
	if p, ok := overrides[model]; ok {
		return p
	}

	// Azure echoes versioned ids like "gpt-4o-2024-08-06"; lowercase for matching
	model = strings.ToLower(model)
	if p, ok := modelPricingTable[model]; ok {
		return p
	}

	bestPrefix := ""
	var bestPricing ModelPricing
	for prefix, p := range modelFamilyPricing {
		if strings.HasPrefix(model, prefix) && len(prefix) > len(bestPrefix) {
			bestPrefix = prefix
			bestPricing = p
		}
	}
	if bestPrefix != "" {
		return bestPricing
	}

	return defaultPricing
}

// CalculateCost computes the cost in USD from token counts.
func CalculateCost(inputTokens, outputTokens int, pricing ModelPricing) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * pricing.InputPerMTok
	outputCost := float64(outputTokens) / 1_000_000 * pricing.OutputPerMTok
	return inputCost + outputCost
}
