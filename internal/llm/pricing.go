package llm

// ModelCost holds the pricing for a model in USD.
// Token prices are per 1 million tokens. Media models that bill per
// generated asset rather than per token set PerCall instead.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
	PerCall       float64
}

// Cost calculates the total USD cost for the given usage.
func (c ModelCost) Cost(calls, inputTokens, outputTokens int) float64 {
	return float64(calls)*c.PerCall +
		float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// Configured aliases such as "gemini-flash" resolve to their model first.
func LookupCost(modelID string) *ModelCost {
	for _, aliases := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		if id, ok := aliases[modelID]; ok {
			modelID = id
			break
		}
	}
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the text, image and speech models quizwise can be
// configured with. Last updated: 2026-10-12.
var modelCosts = map[string]ModelCost{
	// Anthropic
	"claude-3-5-haiku-20241022":  {InputPerMTok: 0.8, OutputPerMTok: 4},
	"claude-3-7-sonnet-20250219": {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-haiku-4-5-20251001":  {InputPerMTok: 1, OutputPerMTok: 5},
	"claude-sonnet-4-20250514":   {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-sonnet-4-5-20250929": {InputPerMTok: 3, OutputPerMTok: 15},
	"claude-opus-4-5-20251101":   {InputPerMTok: 5, OutputPerMTok: 25},

	// OpenAI text
	"gpt-4.1":      {InputPerMTok: 2, OutputPerMTok: 8},
	"gpt-4.1-mini": {InputPerMTok: 0.4, OutputPerMTok: 1.6},
	"gpt-4o":       {InputPerMTok: 2.5, OutputPerMTok: 10},
	"gpt-4o-mini":  {InputPerMTok: 0.15, OutputPerMTok: 0.6},
	"gpt-5":        {InputPerMTok: 1.25, OutputPerMTok: 10},
	"gpt-5-mini":   {InputPerMTok: 0.25, OutputPerMTok: 2},
	"gpt-5-nano":   {InputPerMTok: 0.05, OutputPerMTok: 0.4},

	// OpenAI media, one standard 1024x1024 image or one short tutor reply
	"dall-e-2":        {PerCall: 0.02},
	"dall-e-3":        {PerCall: 0.04},
	"gpt-image-1":     {PerCall: 0.042},
	"tts-1":           {PerCall: 0.015},
	"tts-1-hd":        {PerCall: 0.03},
	"gpt-4o-mini-tts": {PerCall: 0.015},

	// Google (Gemini)
	"gemini-2.0-flash":                          {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gemini-2.0-flash-001":                      {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gemini-2.0-flash-lite":                     {InputPerMTok: 0.075, OutputPerMTok: 0.3},
	"gemini-2.0-flash-preview-image-generation": {PerCall: 0.039},
	"gemini-2.5-flash":                          {InputPerMTok: 0.3, OutputPerMTok: 2.5},
	"gemini-2.5-flash-lite":                     {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"gemini-2.5-flash-image":                    {PerCall: 0.039},
	"gemini-2.5-flash-preview-tts":              {PerCall: 0.01},
	"gemini-2.5-pro":                            {InputPerMTok: 1.25, OutputPerMTok: 10},

	// OpenRouter model IDs carry a vendor prefix
	"google/gemini-2.0-flash-001": {InputPerMTok: 0.1, OutputPerMTok: 0.4},
	"openai/gpt-4o-mini":          {InputPerMTok: 0.15, OutputPerMTok: 0.6},
}
