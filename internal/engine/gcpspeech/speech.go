package gcpspeech

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/status"

	"github.com/yungbote/medqa-backend/internal/config"
	"github.com/yungbote/medqa-backend/internal/engine"
)

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

// Engine transcribes short recordings with Google Cloud Speech-to-Text.
// It does not implement engine.Completer.
type Engine struct {
	recognize recognizeFunc
	close     func() error
	timeout   time.Duration
}

var _ engine.Transcriber = (*Engine)(nil)

func New(ctx context.Context, cfg config.EngineConfig) (*Engine, error) {
	c, err := speech.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	e := NewWithRecognizer(func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return c.Recognize(ctx, req)
	}, cfg.Timeout.Duration)
	e.close = c.Close
	return e, nil
}

// NewWithRecognizer is intended for tests.
func NewWithRecognizer(fn recognizeFunc, timeout time.Duration) *Engine {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Engine{recognize: fn, timeout: timeout}
}

func (e *Engine) Close() error {
	if e == nil || e.close == nil {
		return nil
	}
	return e.close()
}

// Transcribe ignores model when it names a non-Google model (e.g. "whisper-1").
func (e *Engine) Transcribe(ctx context.Context, model string, audio engine.Audio, opts engine.TranscribeOptions) (string, error) {
	if len(audio.Data) == 0 {
		return "", errors.New("empty audio payload")
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	req := &speechpb.RecognizeRequest{
		Config: buildRecognitionConfig(model, audio, opts),
		Audio:  &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio.Data}},
	}
	resp, err := e.recognize(ctx, req)
	if err != nil {
		if st, ok := status.FromError(err); ok {
			return "", fmt.Errorf("speech recognize: %s", st.Message())
		}
		return "", fmt.Errorf("speech recognize: %w", err)
	}
	return joinTranscript(resp), nil
}

func buildRecognitionConfig(model string, audio engine.Audio, opts engine.TranscribeOptions) *speechpb.RecognitionConfig {
	lang := strings.TrimSpace(opts.Language)
	if lang == "" {
		lang = "en-US"
	}
	rc := &speechpb.RecognitionConfig{
		LanguageCode:               lang,
		Encoding:                   inferEncoding(audio.MimeType, audio.Filename),
		EnableAutomaticPunctuation: true,
	}
	if isGoogleModel(model) {
		rc.Model = model
	}
	return rc
}

func isGoogleModel(model string) bool {
	switch strings.TrimSpace(model) {
	case "default", "command_and_search", "phone_call", "video", "latest_long", "latest_short", "medical_dictation", "medical_conversation":
		return true
	}
	return false
}

func inferEncoding(mimeType string, filename string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case strings.Contains(m, "wav") || ext == ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac") || ext == ".flac":
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mp3") || strings.Contains(m, "mpeg") || ext == ".mp3":
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "ogg") || ext == ".ogg" || ext == ".opus":
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}

func joinTranscript(resp *speechpb.RecognizeResponse) string {
	if resp == nil {
		return ""
	}
	var full strings.Builder
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		text := strings.TrimSpace(r.Alternatives[0].Transcript)
		if text == "" {
			continue
		}
		if full.Len() > 0 {
			full.WriteString(" ")
		}
		full.WriteString(text)
	}
	return full.String()
}
