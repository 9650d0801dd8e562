package adapter

import "github.com/modellens/modellens/pkg/catalog"

// Cost captures a normalized cost estimate.
type Cost struct {
	Currency     string  `json:"currency"`
	Amount       float64 `json:"amount"`
	IsEstimate   bool    `json:"is_estimate"`
	PricingModel string  `json:"pricing_model,omitempty"`
}

// EstimateCost prices usage against the descriptor's per-1k rates. It
// reports false when the descriptor carries no pricing or when usage lacks
// the prompt/completion split the rates need.
func EstimateCost(model catalog.Descriptor, usage Usage) (Cost, bool) {
	if model.Pricing.IsZero() {
		return Cost{Currency: "USD"}, false
	}
	if usage.PromptTokens == 0 && usage.CompletionTokens == 0 {
		return Cost{Currency: "USD"}, false
	}

	promptCost := (float64(usage.PromptTokens) / 1000.0) * model.Pricing.PromptPer1K
	completionCost := (float64(usage.CompletionTokens) / 1000.0) * model.Pricing.CompletionPer1K
	return Cost{
		Currency:     "USD",
		Amount:       promptCost + completionCost,
		IsEstimate:   true,
		PricingModel: "per_1k_tokens",
	}, true
}
