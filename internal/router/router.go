package router

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/medqa-backend/internal/config"
	"github.com/yungbote/medqa-backend/internal/engine"
	"github.com/yungbote/medqa-backend/internal/engine/gcpspeech"
	"github.com/yungbote/medqa-backend/internal/engine/mock"
	"github.com/yungbote/medqa-backend/internal/engine/oaihttp"
)

type CompletionRoute struct {
	Model      string
	EngineType string
	Engine     engine.Completer
}

type TranscriptionRoute struct {
	Model      string
	Language   string
	EngineType string
	Engine     engine.Transcriber
}

type Router struct {
	Completion    CompletionRoute
	Transcription TranscriptionRoute

	closers []io.Closer
}

func New(ctx context.Context, cfg *config.Config) (*Router, error) {
	r := &Router{}

	comp, err := r.build(ctx, cfg.Completion.Engine)
	if err != nil {
		return nil, fmt.Errorf("completion engine: %w", err)
	}
	completer, ok := comp.(engine.Completer)
	if !ok {
		_ = r.Close()
		return nil, fmt.Errorf("completion engine: type %q cannot generate text", cfg.Completion.Engine.Type)
	}
	r.Completion = CompletionRoute{
		Model:      cfg.Completion.Model,
		EngineType: cfg.Completion.Engine.Type,
		Engine:     completer,
	}

	// share one engine when both routes point at the same upstream
	trans := comp
	if !sameEngine(cfg.Completion.Engine, cfg.Transcription.Engine) {
		trans, err = r.build(ctx, cfg.Transcription.Engine)
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("transcription engine: %w", err)
		}
	}
	transcriber, ok := trans.(engine.Transcriber)
	if !ok {
		_ = r.Close()
		return nil, fmt.Errorf("transcription engine: type %q cannot transcribe", cfg.Transcription.Engine.Type)
	}
	r.Transcription = TranscriptionRoute{
		Model:      cfg.Transcription.Model,
		Language:   cfg.Transcription.Language,
		EngineType: cfg.Transcription.Engine.Type,
		Engine:     transcriber,
	}
	return r, nil
}

func (r *Router) build(ctx context.Context, ec config.EngineConfig) (any, error) {
	switch strings.ToLower(strings.TrimSpace(ec.Type)) {
	case config.EngineMock:
		return mock.New(), nil
	case config.EngineOAIHTTP, "openai_http":
		return oaihttp.New(ec)
	case config.EngineGCPSpeech:
		e, err := gcpspeech.New(ctx, ec)
		if err != nil {
			return nil, err
		}
		r.closers = append(r.closers, e)
		return e, nil
	default:
		return nil, fmt.Errorf("unsupported engine type %q", ec.Type)
	}
}

func sameEngine(a, b config.EngineConfig) bool {
	return a.Type == b.Type && a.BaseURL == b.BaseURL && a.APIKey == b.APIKey &&
		a.ChatCompletionsPath == b.ChatCompletionsPath && a.TranscriptionsPath == b.TranscriptionsPath &&
		a.Timeout == b.Timeout
}

// Close releases engines holding connections (gRPC clients).
func (r *Router) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
