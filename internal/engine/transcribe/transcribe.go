// Package transcribe turns downloaded audio into text. Two providers: a local
// whisper.cpp binary and the OpenAI Whisper API, selected by configuration.
package transcribe

import (
	"context"
	"errors"
	"fmt"
)

// Segment is one timed slice of a transcript, in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is a completed transcription.
type Result struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	Language string    `json:"language,omitempty"`
}

// Transcriber converts an audio file into a Result. Implementations do not
// delete the input file; artifact lifecycle belongs to the caller.
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// New selects a provider by name. Empty means whispercpp.
func New(provider, openAIKey string) (Transcriber, error) {
	switch provider {
	case "", "whispercpp":
		return &WhisperCpp{}, nil
	case "openai":
		if openAIKey == "" {
			return nil, errors.New("transcribe: openai provider requires OPENAI_API_KEY")
		}
		return NewOpenAI(openAIKey), nil
	default:
		return nil, fmt.Errorf("transcribe: unknown provider %q", provider)
	}
}
