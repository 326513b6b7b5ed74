// Package speech defines the audio collaborator contracts: transcription of
// user audio in, synthesized speech out.
package speech

import (
	"context"
	"io"
)

// Transcriber converts recorded audio to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename, language string) (string, error)
}

// Synthesizer renders text to MP3 audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}
