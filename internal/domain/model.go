package domain

import "strings"

// ModelCapabilities describes what a given model can consume.
type ModelCapabilities struct {
	Vision bool
}

// ModelInfo is the static catalogue entry for one text model.
type ModelInfo struct {
	ID          string
	Name        string
	Description string

	// Prices in USD per 1000 tokens.
	PricePer1KInput  float64
	PricePer1KOutput float64

	// Scores 0..5 shown in the /settings menu.
	Scores map[string]int

	Capabilities ModelCapabilities
}

// AvailableTextModels is the menu order for /settings; the first entry is the
// fallback for users with no model selected.
var AvailableTextModels = []string{
	"gpt-3.5-turbo",
	"gpt-3.5-turbo-16k",
	"gpt-4",
	"gpt-4o",
	"gpt-4-1106-preview",
	"gpt-4-vision-preview",
}

var TextModels = map[string]ModelInfo{
	"gpt-3.5-turbo": {
		ID:               "gpt-3.5-turbo",
		Name:             "ChatGPT",
		Description:      "ChatGPT is that well-known model. It's <b>fast</b> and <b>cheap</b>. Ideal for everyday tasks.",
		PricePer1KInput:  0.0015,
		PricePer1KOutput: 0.002,
		Scores:           map[string]int{"Smart": 3, "Fast": 5, "Cheap": 5},
	},
	"gpt-3.5-turbo-16k": {
		ID:               "gpt-3.5-turbo-16k",
		Name:             "GPT-3.5-16K",
		Description:      "ChatGPT with a 16K context window for longer dialogs.",
		PricePer1KInput:  0.003,
		PricePer1KOutput: 0.004,
		Scores:           map[string]int{"Smart": 3, "Fast": 5, "Cheap": 4},
	},
	"gpt-4": {
		ID:               "gpt-4",
		Name:             "GPT-4",
		Description:      "GPT-4 is the <b>smartest</b> and most advanced model. Use it for complex tasks.",
		PricePer1KInput:  0.03,
		PricePer1KOutput: 0.06,
		Scores:           map[string]int{"Smart": 5, "Fast": 2, "Cheap": 2},
	},
	"gpt-4o": {
		ID:               "gpt-4o",
		Name:             "GPT-4o",
		Description:      "GPT-4o is fast, smart and understands <b>images</b>.",
		PricePer1KInput:  0.005,
		PricePer1KOutput: 0.015,
		Scores:           map[string]int{"Smart": 5, "Fast": 4, "Cheap": 3},
		Capabilities:     ModelCapabilities{Vision: true},
	},
	"gpt-4-1106-preview": {
		ID:               "gpt-4-1106-preview",
		Name:             "GPT-4 Turbo",
		Description:      "GPT-4 Turbo: a faster and cheaper GPT-4 with fresher knowledge.",
		PricePer1KInput:  0.01,
		PricePer1KOutput: 0.03,
		Scores:           map[string]int{"Smart": 5, "Fast": 4, "Cheap": 3},
	},
	"gpt-4-vision-preview": {
		ID:               "gpt-4-vision-preview",
		Name:             "GPT-4 Vision",
		Description:      "GPT-4 Vision understands <b>images</b> alongside text.",
		PricePer1KInput:  0.01,
		PricePer1KOutput: 0.03,
		Scores:           map[string]int{"Smart": 5, "Fast": 3, "Cheap": 3},
		Capabilities:     ModelCapabilities{Vision: true},
	},
}

// Non-chat service prices, USD.
const (
	DallEPricePerImage   = 0.018
	WhisperPricePerMin   = 0.006
	ImageGenerationModel = "dalle-2"
)

// GetModel returns the catalogue entry for id.
func GetModel(id string) (ModelInfo, error) {
	m, ok := TextModels[id]
	if !ok {
		return ModelInfo{}, ErrModelNotFound
	}
	return m, nil
}

// SupportsVision reports whether a model accepts inline images. Unknown models
// are matched by name so that a stale selection degrades gracefully.
func SupportsVision(modelID string) bool {
	if m, ok := TextModels[modelID]; ok {
		return m.Capabilities.Vision
	}
	id := strings.ToLower(modelID)
	return strings.Contains(id, "vision") || strings.Contains(id, "4o")
}
