package transcriber

import "context"

// Transcriber turns a staged audio file into text in the given source language.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (string, error)
}
