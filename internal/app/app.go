package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/medqa-backend/internal/audio"
	"github.com/yungbote/medqa-backend/internal/config"
	"github.com/yungbote/medqa-backend/internal/httpapi"
	"github.com/yungbote/medqa-backend/internal/observability"
	"github.com/yungbote/medqa-backend/internal/platform/localmedia"
	"github.com/yungbote/medqa-backend/internal/platform/logger"
	"github.com/yungbote/medqa-backend/internal/prompt"
	"github.com/yungbote/medqa-backend/internal/qa"
	"github.com/yungbote/medqa-backend/internal/router"
)

var Version = "dev"

type App struct {
	Log    *logger.Logger
	Config *config.Config
	QA     *qa.Service

	router       *router.Router
	shutdownOtel func(context.Context) error
}

type Options struct {
	// ConfigPath overrides MEDQA_CONFIG_PATH and config discovery.
	ConfigPath string

	// Quiet discards logs. Terminal commands use it so logs do not mix with output.
	Quiet bool
}

// New loads configuration once and wires every collaborator explicitly.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	log := logger.Nop()
	if !opts.Quiet {
		log, err = logger.New(cfg.Env)
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "medqa",
		Environment: cfg.Env,
		Version:     Version,
	})

	r, err := router.New(ctx, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	tools := localmedia.New(log, localmedia.Options{
		FFmpegPath: cfg.Audio.FFmpegPath,
		Timeout:    cfg.Audio.ConvertTimeout.Duration,
	})
	norm := audio.NewNormalizer(tools, cfg.Audio.FrameSampleRate)

	svc := qa.NewService(log,
		prompt.NewBuilder(prompt.LoadPolicy(log)),
		qa.NewAnswerClient(r.Completion.Engine, qa.AnswerOptions{
			Model:       r.Completion.Model,
			MaxTokens:   cfg.Completion.MaxTokens,
			Temperature: cfg.Completion.Temperature,
		}),
		qa.NewTranscriptionClient(r.Transcription.Engine, norm, qa.TranscriptionOptions{
			Model:    r.Transcription.Model,
			Language: r.Transcription.Language,
		}),
		cfg.QA.MaxInflight,
	)

	log.Debug("App wired",
		"completion_engine", r.Completion.EngineType,
		"completion_model", r.Completion.Model,
		"transcription_engine", r.Transcription.EngineType,
		"transcription_model", r.Transcription.Model,
	)

	return &App{
		Log:          log,
		Config:       cfg,
		QA:           svc,
		router:       r,
		shutdownOtel: shutdownOtel,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := httpapi.NewServer(a.Config, a.Log, a.QA)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", a.Config.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout.Duration)
		defer cancel()
		a.Log.Info("HTTP server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Close flushes traces and releases engine connections.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout.Duration)
	defer cancel()
	errs := []error{a.router.Close()}
	if a.shutdownOtel != nil {
		errs = append(errs, a.shutdownOtel(ctx))
	}
	a.Log.Sync()
	return errors.Join(errs...)
}
