package mock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/yungbote/medqa-backend/internal/engine"
)

// Engine is an offline stand-in for both upstream capabilities. Output is a
// deterministic function of the input so tests and local runs are stable.
type Engine struct {
	// Transcript, when set, is returned by every Transcribe call.
	Transcript string
}

var (
	_ engine.Completer   = (*Engine)(nil)
	_ engine.Transcriber = (*Engine)(nil)
)

func New() *Engine {
	return &Engine{}
}

func (e *Engine) GenerateText(ctx context.Context, model string, messages []engine.Message, opts engine.GenerateOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var user string
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, "user") {
			user = messages[i].Content
			break
		}
	}
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	sum := sha256.Sum256([]byte(model + "\n" + user))
	return fmt.Sprintf("mock answer %s (%d prompt bytes)", hex.EncodeToString(sum[:4]), len(user)), nil
}

func (e *Engine) Transcribe(ctx context.Context, model string, audio engine.Audio, opts engine.TranscribeOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(audio.Data) == 0 {
		return "", fmt.Errorf("mock: empty audio")
	}
	if e.Transcript != "" {
		return e.Transcript, nil
	}
	return fmt.Sprintf("mock transcript of %d bytes", len(audio.Data)), nil
}
