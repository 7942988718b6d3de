package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/medqa-backend/internal/platform/logger"
	"github.com/yungbote/medqa-backend/internal/prompt"
	"github.com/yungbote/medqa-backend/internal/qa"
)

// QA is the slice of qa.Service the handlers depend on.
type QA interface {
	Preview(question string) (prompt.Prompt, error)
	Transcribe(ctx context.Context, in qa.AudioInput) (string, error)
	Submit(ctx context.Context, req qa.Request) <-chan qa.Outcome
}

type Options struct {
	// MaxUploadBytes caps a single uploaded audio file.
	MaxUploadBytes int64
}

func Register(rg *gin.RouterGroup, log *logger.Logger, svc QA, opts Options) {
	registerValidators()
	h := &handlers{log: log, svc: svc, opts: opts}

	rg.POST("/answer", h.answer)
	rg.POST("/answer/audio", h.answerAudio)
	rg.POST("/prompt", h.prompt)
	rg.POST("/transcribe", h.transcribe)
}

type handlers struct {
	log  *logger.Logger
	svc  QA
	opts Options
}

// await waits for the single outcome, giving up when the caller goes away.
func await(ctx context.Context, ch <-chan qa.Outcome) (qa.Result, error) {
	select {
	case out := <-ch:
		return out.Result, out.Err
	case <-ctx.Done():
		return qa.Result{}, ctx.Err()
	}
}
