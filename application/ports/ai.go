package ports

import (
	"context"
	"encoding/json"
)

// AIClient is the outbound port for the AI collaborator. Failures from
// either call surface as upstream errors; callers never see transport
// details.
type AIClient interface {
	// Transcribe converts spoken audio to text. The filename carries
	// the extension the transcription model needs to pick a decoder.
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)

	// GenerateStructured sends a prompt that demands a JSON reply and
	// returns the extracted JSON document. The reply may wrap the
	// document in a fenced code block; extraction handles both shapes.
	GenerateStructured(ctx context.Context, prompt string) (json.RawMessage, error)
}
