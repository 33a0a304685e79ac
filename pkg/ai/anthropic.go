package ai

import (
	"context"
	"fmt"
)

// AnthropicConfig placeholder for anthropic integration configuration.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// AnthropicScorer is a stub implementation that can be expanded once the SDK is available.
type AnthropicScorer struct{}

// NewAnthropicScorer constructs a new stub scorer.
func NewAnthropicScorer(cfg AnthropicConfig) (*AnthropicScorer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is required")
	}
	return &AnthropicScorer{}, nil
}

// Score is not yet implemented for Anthropic models.
func (a *AnthropicScorer) Score(ctx context.Context, input ScoreInput) (RubricResult, error) {
	return RubricResult{}, fmt.Errorf("anthropic scorer not implemented")
}
