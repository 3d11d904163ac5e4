package ai

import (
	"context"
	"errors"
)

// ErrTransport marks failures talking to the generation service: network, quota,
// timeouts and API errors. Generators wrap every call failure with it.
var ErrTransport = errors.New("generation transport failure")

// Profile is a named generation setting. Only the fixed profiles below are used.
type Profile struct {
	Name        string
	Temperature float32
	// Structured biases the service toward emitting bare JSON.
	Structured bool
}

var (
	// ProfileExtraction is deterministic structured output for decomposing documents.
	ProfileExtraction = Profile{Name: "extraction", Temperature: 0, Structured: true}
	// ProfileAnalysis is low temperature structured output for judgments.
	ProfileAnalysis = Profile{Name: "analysis", Temperature: 0.2, Structured: true}
	// ProfileSuggestion allows more variety for suggestions and career paths.
	ProfileSuggestion = Profile{Name: "suggestion", Temperature: 0.7, Structured: true}
	// ProfileFlat is deterministic plain text, used when a comma separated line is expected.
	ProfileFlat = Profile{Name: "flat", Temperature: 0, Structured: false}
)

// Generator returns raw text produced by the generation service for a prompt.
// An empty string with a nil error means the service answered with nothing.
type Generator interface {
	Generate(ctx context.Context, prompt string, profile Profile) (string, error)
}
