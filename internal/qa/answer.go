package qa

import (
	"context"
	"strings"

	"github.com/yungbote/medqa-backend/internal/engine"
)

type AnswerOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// AnswerClient sends a built prompt as one user turn and returns the trimmed reply.
type AnswerClient struct {
	engine engine.Completer
	opts   AnswerOptions
}

func NewAnswerClient(eng engine.Completer, opts AnswerOptions) *AnswerClient {
	return &AnswerClient{engine: eng, opts: opts}
}

func (c *AnswerClient) Model() string { return c.opts.Model }

func (c *AnswerClient) Answer(ctx context.Context, prompt string) (string, error) {
	out, err := c.engine.GenerateText(ctx, c.opts.Model, []engine.Message{
		{Role: "user", Content: prompt},
	}, engine.GenerateOptions{
		MaxTokens:   c.opts.MaxTokens,
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		return "", fail(OpCompletion, err)
	}
	return strings.TrimSpace(out), nil
}
