package localmedia

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/medqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/medqa-backend/internal/platform/logger"
)

// Tools wraps the ffmpeg binary used to normalise uploaded recordings.
//
// REQUIRED BINARIES in the server runtime:
// - ffmpeg for any container that is not already WAV
type Tools interface {
	AssertReady(ctx context.Context) error

	// ConvertToWAV decodes inputPath and writes single-channel PCM16 WAV to outPath.
	ConvertToWAV(ctx context.Context, inputPath string, outPath string, opts WAVOptions) (string, error)

	// Helpers for callers who only have bytes:
	WriteTempFile(ctx context.Context, data []byte, suffix string) (string, func(), error)
}

type WAVOptions struct {
	SampleRateHz int
}

type Options struct {
	FFmpegPath string
	WorkRoot   string
	Timeout    time.Duration
}

type tools struct {
	log *logger.Logger

	ffmpegPath string
	workRoot   string

	defaultTimeout time.Duration
}

func New(log *logger.Logger, opts Options) Tools {
	if log == nil {
		log = logger.Nop()
	}
	ffmpeg := strings.TrimSpace(opts.FFmpegPath)
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	root := strings.TrimSpace(opts.WorkRoot)
	if root == "" {
		root = filepath.Join(os.TempDir(), "medqa-audio")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &tools{
		log:            log.With("service", "MediaTools"),
		ffmpegPath:     ffmpeg,
		workRoot:       root,
		defaultTimeout: timeout,
	}
}

func (m *tools) AssertReady(ctx context.Context) error {
	if _, err := exec.LookPath(m.ffmpegPath); err != nil {
		return fmt.Errorf("missing required binary %q in PATH: %w", m.ffmpegPath, err)
	}
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return fmt.Errorf("create workRoot: %w", err)
	}
	return nil
}

func (m *tools) WriteTempFile(ctx context.Context, data []byte, suffix string) (string, func(), error) {
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return "", func() {}, fmt.Errorf("mkdir workRoot: %w", err)
	}
	h := sha256.Sum256(data)
	base := hex.EncodeToString(h[:])[:16]
	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	// identical uploads in flight must not share a path
	f, err := os.CreateTemp(m.workRoot, base+"-*"+suffix)
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("close temp file: %w", err)
	}
	return path, cleanup, nil
}

func (m *tools) ConvertToWAV(ctx context.Context, inputPath string, outPath string, opts WAVOptions) (string, error) {
	ctx = ctxutil.Default(ctx)
	if err := m.AssertReady(ctx); err != nil {
		return "", err
	}
	if inputPath == "" {
		return "", fmt.Errorf("inputPath required")
	}
	if outPath == "" {
		return "", fmt.Errorf("outPath required")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("mkdir outPath dir: %w", err)
	}

	sr := opts.SampleRateHz
	if sr <= 0 {
		sr = 16000
	}

	ctx, cancel := context.WithTimeout(ctx, m.defaultTimeout)
	defer cancel()

	args := wavArgs(inputPath, outPath, sr)
	start := time.Now()
	cmd := exec.CommandContext(ctx, m.ffmpegPath, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg convert audio failed: %w; out=%s", err, tail(out, 2048))
	}
	if _, err := os.Stat(outPath); err != nil {
		return "", fmt.Errorf("audio output missing at %s", outPath)
	}
	m.log.Debug("Converted audio", "sample_rate", sr, "duration_ms", time.Since(start).Milliseconds(), "request_id", ctxutil.RequestID(ctx))
	return outPath, nil
}

func wavArgs(inputPath, outPath string, sampleRate int) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", inputPath,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		outPath,
	}
}

func tail(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[len(b)-n:])
}
