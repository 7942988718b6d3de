package engine

import "context"

type Message struct {
	Role    string
	Content string
}

type GenerateOptions struct {
	MaxTokens   int
	Temperature float64
}

// Audio is a single encoded audio payload, normally a WAV container.
type Audio struct {
	Data     []byte
	Filename string
	MimeType string
}

type TranscribeOptions struct {
	// Language is an optional BCP-47 / ISO-639-1 hint such as "en" or "en-US".
	Language string
}

// Completer turns a chat message list into generated text.
type Completer interface {
	GenerateText(ctx context.Context, model string, messages []Message, opts GenerateOptions) (string, error)
}

// Transcriber turns recorded speech into text.
type Transcriber interface {
	Transcribe(ctx context.Context, model string, audio Audio, opts TranscribeOptions) (string, error)
}
