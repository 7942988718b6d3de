package qa

import (
	"context"
	"os"
	"path/filepath"

	"github.com/yungbote/medqa-backend/internal/audio"
	"github.com/yungbote/medqa-backend/internal/engine"
)

type TranscriptionOptions struct {
	Model    string
	Language string
}

// TranscriptionClient normalises recordings to WAV and returns the engine's
// transcript unmodified.
type TranscriptionClient struct {
	engine engine.Transcriber
	norm   *audio.Normalizer
	opts   TranscriptionOptions
}

func NewTranscriptionClient(eng engine.Transcriber, norm *audio.Normalizer, opts TranscriptionOptions) *TranscriptionClient {
	if norm == nil {
		norm = audio.NewNormalizer(nil, 0)
	}
	return &TranscriptionClient{engine: eng, norm: norm, opts: opts}
}

// TranscribeFrames submits a buffered PCM16 capture. sampleRate <= 0 uses the configured default.
func (c *TranscriptionClient) TranscribeFrames(ctx context.Context, frames [][]byte, sampleRate int) (string, error) {
	if !audio.HasFrames(frames) {
		return "", ErrNoAudio
	}
	return c.submit(ctx, c.norm.FromFrames(frames, sampleRate))
}

// TranscribeFile submits an uploaded recording in any container ffmpeg can decode.
func (c *TranscriptionClient) TranscribeFile(ctx context.Context, data []byte, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrNoAudio
	}
	clip, err := c.norm.FromFile(ctx, data, filename)
	if err != nil {
		return "", fail(OpDecode, err)
	}
	return c.submit(ctx, clip)
}

// TranscribePath reads a local recording and submits it like TranscribeFile.
func (c *TranscriptionClient) TranscribePath(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return c.TranscribeFile(ctx, data, filepath.Base(path))
}

func (c *TranscriptionClient) submit(ctx context.Context, clip audio.Clip) (string, error) {
	text, err := c.engine.Transcribe(ctx, c.opts.Model, engine.Audio{
		Data:     clip.Data,
		Filename: clip.Filename,
		MimeType: clip.MimeType,
	}, engine.TranscribeOptions{Language: c.opts.Language})
	if err != nil {
		return "", fail(OpTranscription, err)
	}
	return text, nil
}
