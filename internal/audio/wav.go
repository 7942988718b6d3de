package audio

import (
	"bytes"
	"encoding/binary"
)

const (
	wavHeaderSize = 44
	bitsPerSample = 16
	numChannels   = 1
)

// EncodePCM16Mono concatenates raw little-endian PCM16 mono frames and wraps
// them in a canonical 44-byte RIFF/WAVE header. A trailing odd byte is dropped.
func EncodePCM16Mono(frames [][]byte, sampleRate int) []byte {
	size := 0
	for _, f := range frames {
		size += len(f)
	}
	pcm := make([]byte, 0, size)
	for _, f := range frames {
		pcm = append(pcm, f...)
	}
	if len(pcm)%2 != 0 {
		pcm = pcm[:len(pcm)-1]
	}

	blockAlign := numChannels * bitsPerSample / 8
	byteRate := sampleRate * blockAlign

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + len(pcm))
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	_ = binary.Write(&buf, binary.LittleEndian, uint16(numChannels))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// IsWAV reports whether data starts with a RIFF/WAVE header.
func IsWAV(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE"
}

// HasFrames reports whether any frame carries at least one sample.
func HasFrames(frames [][]byte) bool {
	for _, f := range frames {
		if len(f) >= 2 {
			return true
		}
	}
	return false
}

// Format is the subset of a WAV fmt chunk needed to decide whether audio can be
// forwarded as-is.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// IsPCM16Mono reports whether f is uncompressed 16-bit single-channel audio.
func (f Format) IsPCM16Mono() bool {
	return f.AudioFormat == 1 && f.Channels == numChannels && f.BitsPerSample == bitsPerSample
}

// ReadFormat walks the RIFF chunks of a WAV payload and decodes its fmt chunk.
func ReadFormat(data []byte) (Format, bool) {
	if !IsWAV(data) {
		return Format{}, false
	}
	le := binary.LittleEndian
	for off := 12; off+8 <= len(data); {
		id := string(data[off : off+4])
		size := int(le.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return Format{}, false
		}
		if id == "fmt " {
			if size < 16 {
				return Format{}, false
			}
			return Format{
				AudioFormat:   le.Uint16(data[body : body+2]),
				Channels:      le.Uint16(data[body+2 : body+4]),
				SampleRate:    le.Uint32(data[body+4 : body+8]),
				BitsPerSample: le.Uint16(data[body+14 : body+16]),
			}, true
		}
		// chunks are word aligned
		off = body + size + size%2
	}
	return Format{}, false
}
