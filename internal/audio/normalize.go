package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yungbote/medqa-backend/internal/platform/localmedia"
)

// Clip is a WAV payload ready for a transcription engine.
type Clip struct {
	Data     []byte
	Filename string
	MimeType string
}

// Normalizer turns uploads in any common container into single-channel PCM16 WAV.
type Normalizer struct {
	tools      localmedia.Tools
	sampleRate int
}

func NewNormalizer(tools localmedia.Tools, sampleRate int) *Normalizer {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Normalizer{tools: tools, sampleRate: sampleRate}
}

// FromFrames encodes captured PCM16 frames. sampleRate <= 0 uses the normalizer's rate.
func (n *Normalizer) FromFrames(frames [][]byte, sampleRate int) Clip {
	if sampleRate <= 0 {
		sampleRate = n.sampleRate
	}
	return Clip{
		Data:     EncodePCM16Mono(frames, sampleRate),
		Filename: "capture.wav",
		MimeType: "audio/wav",
	}
}

// FromFile passes mono PCM16 WAV through untouched and converts everything
// else (other containers, stereo, 24-bit or float WAV) with ffmpeg.
func (n *Normalizer) FromFile(ctx context.Context, data []byte, filename string) (Clip, error) {
	base := wavName(filename)
	if f, ok := ReadFormat(data); ok && f.IsPCM16Mono() {
		return Clip{Data: data, Filename: base, MimeType: "audio/wav"}, nil
	}
	if n.tools == nil {
		return Clip{}, fmt.Errorf("decode %s: no converter configured for audio that is not mono 16-bit PCM WAV", displayName(filename))
	}

	inPath, cleanup, err := n.tools.WriteTempFile(ctx, data, filepath.Ext(filename))
	if err != nil {
		return Clip{}, err
	}
	defer cleanup()

	outPath := strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".out.wav"
	defer func() { _ = os.Remove(outPath) }()

	if _, err := n.tools.ConvertToWAV(ctx, inPath, outPath, localmedia.WAVOptions{SampleRateHz: n.sampleRate}); err != nil {
		return Clip{}, fmt.Errorf("decode %s: %w", displayName(filename), err)
	}
	wav, err := os.ReadFile(outPath)
	if err != nil {
		return Clip{}, fmt.Errorf("read converted audio: %w", err)
	}
	return Clip{Data: wav, Filename: base, MimeType: "audio/wav"}, nil
}

func wavName(filename string) string {
	base := filepath.Base(strings.TrimSpace(filename))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "audio.wav"
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".wav"
}

func displayName(filename string) string {
	if strings.TrimSpace(filename) == "" {
		return "audio"
	}
	return filepath.Base(filename)
}
