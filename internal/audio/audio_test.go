package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/medqa-backend/internal/platform/localmedia"
)

func TestEncodePCM16Mono(t *testing.T) {
	frames := [][]byte{{0x01, 0x00, 0x02, 0x00}, {}, {0x03, 0x00}}
	wav := EncodePCM16Mono(frames, 16000)

	if len(wav) != 44+6 {
		t.Fatalf("len=%d", len(wav))
	}
	if !IsWAV(wav) {
		t.Fatalf("missing RIFF/WAVE header")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Fatalf("chunk ids: %q %q", wav[12:16], wav[36:40])
	}
	le := binary.LittleEndian
	if got := le.Uint32(wav[4:8]); got != 36+6 {
		t.Fatalf("riff size=%d", got)
	}
	if got := le.Uint16(wav[20:22]); got != 1 {
		t.Fatalf("format=%d", got)
	}
	if got := le.Uint16(wav[22:24]); got != 1 {
		t.Fatalf("channels=%d", got)
	}
	if got := le.Uint32(wav[24:28]); got != 16000 {
		t.Fatalf("sample rate=%d", got)
	}
	if got := le.Uint32(wav[28:32]); got != 32000 {
		t.Fatalf("byte rate=%d", got)
	}
	if got := le.Uint16(wav[34:36]); got != 16 {
		t.Fatalf("bits=%d", got)
	}
	if got := le.Uint32(wav[40:44]); got != 6 {
		t.Fatalf("data size=%d", got)
	}
	want := []byte{0x01, 0x00, 0x02, 0x00, 0x03, 0x00}
	if string(wav[44:]) != string(want) {
		t.Fatalf("samples=%v", wav[44:])
	}
}

func TestEncodeDropsTrailingOddByte(t *testing.T) {
	wav := EncodePCM16Mono([][]byte{{0x01, 0x00, 0x02}}, 8000)
	if got := binary.LittleEndian.Uint32(wav[40:44]); got != 2 {
		t.Fatalf("data size=%d", got)
	}
}

func TestHasFrames(t *testing.T) {
	if HasFrames(nil) || HasFrames([][]byte{{}, {0x01}}) {
		t.Fatalf("expected no frames")
	}
	if !HasFrames([][]byte{{}, {0x01, 0x00}}) {
		t.Fatalf("expected frames")
	}
}

type fakeTools struct {
	dir       string
	converted int
	err       error
}

func (f *fakeTools) AssertReady(ctx context.Context) error { return nil }

func (f *fakeTools) WriteTempFile(ctx context.Context, data []byte, suffix string) (string, func(), error) {
	p := filepath.Join(f.dir, "in"+suffix)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		return "", func() {}, err
	}
	return p, func() { _ = os.Remove(p) }, nil
}

func (f *fakeTools) ConvertToWAV(ctx context.Context, inputPath, outPath string, opts localmedia.WAVOptions) (string, error) {
	f.converted++
	if f.err != nil {
		return "", f.err
	}
	wav := EncodePCM16Mono([][]byte{{0x00, 0x00}}, opts.SampleRateHz)
	return outPath, os.WriteFile(outPath, wav, 0o600)
}

func TestFromFilePassesWAVThrough(t *testing.T) {
	ft := &fakeTools{dir: t.TempDir()}
	n := NewNormalizer(ft, 16000)
	in := EncodePCM16Mono([][]byte{{0x10, 0x00}}, 44100)

	clip, err := n.FromFile(context.Background(), in, "dir/question.WAV")
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if ft.converted != 0 {
		t.Fatalf("wav should not be converted")
	}
	if string(clip.Data) != string(in) || clip.Filename != "question.wav" || clip.MimeType != "audio/wav" {
		t.Fatalf("clip=%+v", clip.Filename)
	}
}

// withFormat rewrites the fmt chunk of a canonical header.
func withFormat(wav []byte, channels, bits uint16, rate uint32) []byte {
	out := append([]byte(nil), wav...)
	le := binary.LittleEndian
	le.PutUint16(out[22:24], channels)
	le.PutUint32(out[24:28], rate)
	le.PutUint16(out[34:36], bits)
	return out
}

func TestReadFormat(t *testing.T) {
	f, ok := ReadFormat(EncodePCM16Mono([][]byte{{1, 0}}, 16000))
	if !ok || !f.IsPCM16Mono() || f.SampleRate != 16000 {
		t.Fatalf("format=%+v ok=%v", f, ok)
	}

	// a LIST chunk before fmt must be skipped
	le := binary.LittleEndian
	var b []byte
	b = append(b, "RIFF\x00\x00\x00\x00WAVE"...)
	b = append(b, "LIST"...)
	b = le.AppendUint32(b, 3)
	b = append(b, 'a', 'b', 'c', 0)
	b = append(b, EncodePCM16Mono(nil, 8000)[12:]...)
	if f, ok := ReadFormat(b); !ok || f.SampleRate != 8000 || !f.IsPCM16Mono() {
		t.Fatalf("format=%+v ok=%v", f, ok)
	}

	if _, ok := ReadFormat([]byte("RIFF\x00\x00\x00\x00WAVE")); ok {
		t.Fatalf("header without fmt chunk should not parse")
	}
	if f, _ := ReadFormat(withFormat(EncodePCM16Mono(nil, 16000), 2, 24, 44100)); f.IsPCM16Mono() {
		t.Fatalf("stereo 24-bit reported as mono pcm16")
	}
}

func TestFromFileConvertsStereoWAV(t *testing.T) {
	ft := &fakeTools{dir: t.TempDir()}
	n := NewNormalizer(ft, 16000)
	in := withFormat(EncodePCM16Mono([][]byte{{1, 0, 2, 0, 3, 0}}, 44100), 2, 24, 44100)

	clip, err := n.FromFile(context.Background(), in, "stereo.wav")
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if ft.converted != 1 {
		t.Fatalf("converted=%d", ft.converted)
	}
	f, ok := ReadFormat(clip.Data)
	if !ok || !f.IsPCM16Mono() || f.SampleRate != 16000 {
		t.Fatalf("format=%+v ok=%v", f, ok)
	}
}

func TestFromFileStereoWAVWithoutConverter(t *testing.T) {
	n := NewNormalizer(nil, 16000)
	in := withFormat(EncodePCM16Mono([][]byte{{1, 0}}, 16000), 2, 16, 16000)
	if _, err := n.FromFile(context.Background(), in, "stereo.wav"); err == nil {
		t.Fatalf("expected error for stereo wav without converter")
	}
}

func TestFromFileConvertsOtherContainers(t *testing.T) {
	ft := &fakeTools{dir: t.TempDir()}
	n := NewNormalizer(ft, 16000)

	clip, err := n.FromFile(context.Background(), []byte("ID3 not really mp3"), "question.mp3")
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if ft.converted != 1 {
		t.Fatalf("converted=%d", ft.converted)
	}
	if !IsWAV(clip.Data) || clip.Filename != "question.wav" {
		t.Fatalf("clip=%s", clip.Filename)
	}
	if got := binary.LittleEndian.Uint32(clip.Data[24:28]); got != 16000 {
		t.Fatalf("sample rate=%d", got)
	}
	entries, _ := os.ReadDir(ft.dir)
	if len(entries) != 0 {
		t.Fatalf("temp files left behind: %d", len(entries))
	}
}

func TestFromFileConversionError(t *testing.T) {
	ft := &fakeTools{dir: t.TempDir(), err: errors.New("ffmpeg convert audio failed: exit status 1")}
	n := NewNormalizer(ft, 16000)

	_, err := n.FromFile(context.Background(), []byte("garbage"), "question.ogg")
	if err == nil || err.Error() != "decode question.ogg: ffmpeg convert audio failed: exit status 1" {
		t.Fatalf("err=%v", err)
	}
}

func TestFromFileWithoutConverter(t *testing.T) {
	n := NewNormalizer(nil, 0)
	if _, err := n.FromFile(context.Background(), []byte("garbage"), ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFromFramesDefaultRate(t *testing.T) {
	n := NewNormalizer(nil, 22050)
	clip := n.FromFrames([][]byte{{0x01, 0x00}}, 0)
	if got := binary.LittleEndian.Uint32(clip.Data[24:28]); got != 22050 {
		t.Fatalf("sample rate=%d", got)
	}
	if clip.Filename != "capture.wav" {
		t.Fatalf("filename=%q", clip.Filename)
	}
}
