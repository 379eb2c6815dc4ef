// Package media converts model output into browser-friendly payloads:
// RIFF/WAVE audio and base64 data URIs.
package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Default speech format: mono, 24 kHz, 16-bit signed little-endian.
const (
	DefaultChannels      = 1
	DefaultSampleRate    = 24000
	DefaultBitsPerSample = 16
)

// PCMFormat describes raw interleaved PCM samples.
type PCMFormat struct {
	Channels      int
	SampleRate    int
	BitsPerSample int
}

// SpeechFormat is the format every speech provider returns.
var SpeechFormat = PCMFormat{
	Channels:      DefaultChannels,
	SampleRate:    DefaultSampleRate,
	BitsPerSample: DefaultBitsPerSample,
}

func (f PCMFormat) blockAlign() int { return f.Channels * f.BitsPerSample / 8 }

func (f PCMFormat) validate() error {
	if f.Channels <= 0 || f.SampleRate <= 0 {
		return fmt.Errorf("invalid PCM format %+v", f)
	}
	if f.BitsPerSample <= 0 || f.BitsPerSample%8 != 0 || f.BitsPerSample > 32 {
		return fmt.Errorf("unsupported bits per sample %d", f.BitsPerSample)
	}
	return nil
}

// ErrEmptyAudio is returned when there are no samples to encode.
var ErrEmptyAudio = errors.New("no audio samples")

// wavePCM is the WAVE format tag for integer PCM.
const wavePCM = 1

// EncodeWAV wraps raw little-endian PCM in a RIFF/WAVE container. A
// trailing partial frame is dropped.
func EncodeWAV(pcm []byte, f PCMFormat) ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	align := f.blockAlign()
	n := len(pcm) - len(pcm)%align
	if n == 0 {
		return nil, ErrEmptyAudio
	}

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: f.Channels, SampleRate: f.SampleRate},
		Data:           samples(pcm[:n], f.BitsPerSample/8),
		SourceBitDepth: f.BitsPerSample,
	}

	out := &seekBuffer{}
	enc := wav.NewEncoder(out, f.SampleRate, f.BitsPerSample, f.Channels, wavePCM)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finish wav: %w", err)
	}
	return out.buf, nil
}

// samples splits little-endian PCM into one int per sample. Samples wider
// than a byte are sign-extended; 8-bit PCM is unsigned and kept as is.
func samples(pcm []byte, width int) []int {
	out := make([]int, len(pcm)/width)
	for i := range out {
		b := pcm[i*width : (i+1)*width]
		switch width {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(int16(binary.LittleEndian.Uint16(b)))
		case 3:
			v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
			out[i] = int(v<<8) >> 8
		default:
			out[i] = int(int32(binary.LittleEndian.Uint32(b)))
		}
	}
	return out
}

// seekBuffer is an in-memory io.WriteSeeker; the encoder seeks back to
// patch chunk sizes on Close.
type seekBuffer struct {
	buf []byte
	pos int
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	if end := b.pos + len(p); end > len(b.buf) {
		b.buf = append(b.buf, make([]byte, end-len(b.buf))...)
	}
	n := copy(b.buf[b.pos:], p)
	b.pos += n
	return n, nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = int64(b.pos)
	case io.SeekEnd:
		base = int64(len(b.buf))
	default:
		return 0, fmt.Errorf("seek: invalid whence %d", whence)
	}
	abs := base + offset
	if abs < 0 {
		return 0, errors.New("seek: negative position")
	}
	b.pos = int(abs)
	return abs, nil
}

// SpeechToWAV encodes speech PCM using SpeechFormat.
func SpeechToWAV(pcm []byte) ([]byte, error) {
	return EncodeWAV(pcm, SpeechFormat)
}
