// Package ai defines the advisory capability used to phrase collaboration rationale.
// The capability never computes scores; it only turns ranked candidates into free text.
package ai

import (
	"context"
	"errors"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	// SystemInstruction is sent to every provider alongside the prompt.
	SystemInstruction = "You are a helpful research collaboration advisor. Always respond with valid JSON."

	DefaultTemperature = 0.7
)

// ErrNotConfigured is returned when advice is requested without a configured provider.
var ErrNotConfigured = errors.New("advisory capability is not configured")

// Capability turns a prompt into a free-text response.
type Capability interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Describer is implemented by capabilities that can name their provider and model for logs.
type Describer interface {
	Provider() string
	Model() string
}

// Describe returns provider and model of c when available.
func Describe(c Capability) (provider, model string) {
	if d, ok := c.(Describer); ok {
		return d.Provider(), d.Model()
	}
	return "", ""
}
