// Package llm provides the Gemini client and model-tier configuration shared
// by resume parsing, question generation, and answer analysis.
package llm

// ModelTier represents the capability level a call needs.
type ModelTier string

const (
	// TierLite is for extraction tasks: resume parsing, keyword pulls
	TierLite ModelTier = "lite"
	// TierStandard is for structured generation: interview questions
	TierStandard ModelTier = "standard"
	// TierAdvanced is for grading reasoning: per-answer analysis and the report
	TierAdvanced ModelTier = "advanced"
)

// Config holds the model selection and generation settings.
type Config struct {
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default Gemini model mapping.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.0-flash-lite",
			TierStandard: "gemini-2.0-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.1,
	}
}

// GetModel returns the model name for a tier, falling back to standard and
// then lite when the requested tier is not configured.
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the Config with the model for one tier replaced.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	models := make(map[ModelTier]string, len(c.Models)+1)
	for t, m := range c.Models {
		models[t] = m
	}
	models[tier] = model

	return &Config{Models: models, Temperature: c.Temperature}
}
