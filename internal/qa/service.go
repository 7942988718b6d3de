package qa

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/yungbote/medqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/medqa-backend/internal/platform/logger"
	"github.com/yungbote/medqa-backend/internal/prompt"
)

const tracerName = "github.com/yungbote/medqa-backend/internal/qa"

// Result is everything a surface needs to render one answered question.
type Result struct {
	Transcript string
	Question   string
	Variant    prompt.Variant
	Answer     string
}

// AudioInput carries either captured PCM16 frames or an uploaded file.
type AudioInput struct {
	Frames     [][]byte
	SampleRate int

	File     []byte
	Filename string
}

// Request is one user action. Audio wins over Question when set.
type Request struct {
	Question string
	Audio    *AudioInput
}

// Outcome is delivered exactly once on the channel returned by Submit.
type Outcome struct {
	Result Result
	Err    error
}

type Service struct {
	log         *logger.Logger
	builder     *prompt.Builder
	answers     *AnswerClient
	transcripts *TranscriptionClient

	inflight *semaphore.Weighted
	tracer   trace.Tracer
}

func NewService(log *logger.Logger, builder *prompt.Builder, answers *AnswerClient, transcripts *TranscriptionClient, maxInflight int) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if maxInflight <= 0 {
		maxInflight = 1
	}
	return &Service{
		log:         log.With("service", "QAService"),
		builder:     builder,
		answers:     answers,
		transcripts: transcripts,
		inflight:    semaphore.NewWeighted(int64(maxInflight)),
		tracer:      otel.Tracer(tracerName),
	}
}

// Preview builds the prompt without calling the completion engine.
func (s *Service) Preview(question string) (prompt.Prompt, error) {
	if strings.TrimSpace(question) == "" {
		return prompt.Prompt{}, ErrEmptyQuestion
	}
	return s.builder.Build(question), nil
}

func (s *Service) Ask(ctx context.Context, question string) (Result, error) {
	ctx = ctxutil.Default(ctx)
	if strings.TrimSpace(question) == "" {
		return Result{}, ErrEmptyQuestion
	}

	p := s.builder.Build(question)

	ctx, span := s.tracer.Start(ctx, "qa.ask", trace.WithAttributes(
		attribute.String("qa.variant", string(p.Variant)),
		attribute.String("qa.model", s.answers.Model()),
		attribute.Int("qa.prompt_bytes", len(p.Text)),
	))
	defer span.End()

	start := time.Now()
	answer, err := s.bounded(ctx, func(ctx context.Context) (string, error) {
		return s.answers.Answer(ctx, p.Text)
	})
	if err != nil {
		endWithError(span, err)
		s.log.Warn("Answer failed",
			"request_id", ctxutil.RequestID(ctx),
			"variant", p.Variant,
			"question", question,
			"error", err,
		)
		return Result{}, err
	}

	s.log.Info("Answered question",
		"request_id", ctxutil.RequestID(ctx),
		"variant", p.Variant,
		"question", question,
		"answer_bytes", len(answer),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{Question: question, Variant: p.Variant, Answer: answer}, nil
}

// Transcribe runs only the speech-to-text step.
func (s *Service) Transcribe(ctx context.Context, in AudioInput) (string, error) {
	return s.transcribe(ctx, []attribute.KeyValue{
		attribute.Bool("qa.frames", len(in.File) == 0),
		attribute.Int("qa.audio_bytes", audioBytes(in)),
	}, func(ctx context.Context) (string, error) {
		if len(in.File) > 0 {
			return s.transcripts.TranscribeFile(ctx, in.File, in.Filename)
		}
		return s.transcripts.TranscribeFrames(ctx, in.Frames, in.SampleRate)
	})
}

// TranscribePath transcribes a recording on local disk.
func (s *Service) TranscribePath(ctx context.Context, path string) (string, error) {
	return s.transcribe(ctx, []attribute.KeyValue{
		attribute.Bool("qa.frames", false),
	}, func(ctx context.Context) (string, error) {
		return s.transcripts.TranscribePath(ctx, path)
	})
}

func (s *Service) transcribe(ctx context.Context, attrs []attribute.KeyValue, fn func(context.Context) (string, error)) (string, error) {
	ctx = ctxutil.Default(ctx)
	ctx, span := s.tracer.Start(ctx, "qa.transcribe", trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	text, err := s.bounded(ctx, fn)
	if err != nil {
		endWithError(span, err)
		s.log.Warn("Transcription failed", "request_id", ctxutil.RequestID(ctx), "error", err)
		return "", err
	}
	span.SetAttributes(attribute.Int("qa.transcript_bytes", len(text)))
	s.log.Info("Transcribed audio",
		"request_id", ctxutil.RequestID(ctx),
		"transcript", text,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

// AskAudio transcribes the recording and answers the transcript as the question.
func (s *Service) AskAudio(ctx context.Context, in AudioInput) (Result, error) {
	transcript, err := s.Transcribe(ctx, in)
	if err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(transcript) == "" {
		return Result{Transcript: transcript}, ErrEmptyQuestion
	}
	res, err := s.Ask(ctx, transcript)
	res.Transcript = transcript
	return res, err
}

// Submit runs req on its own goroutine. The channel receives exactly one
// Outcome and is then closed.
func (s *Service) Submit(ctx context.Context, req Request) <-chan Outcome {
	ctx = ctxutil.Default(ctx)
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		var (
			res Result
			err error
		)
		if req.Audio != nil {
			res, err = s.AskAudio(ctx, *req.Audio)
		} else {
			res, err = s.Ask(ctx, req.Question)
		}
		out <- Outcome{Result: res, Err: err}
	}()
	return out
}

// bounded holds one in-flight slot for the duration of fn.
func (s *Service) bounded(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if err := s.inflight.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.inflight.Release(1)
	return fn(ctx)
}

func endWithError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func audioBytes(in AudioInput) int {
	if len(in.File) > 0 {
		return len(in.File)
	}
	n := 0
	for _, f := range in.Frames {
		n += len(f)
	}
	return n
}
