// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/utils"
)

// HeaderSize is the length of the canonical RIFF/fmt/data header Encode
// writes.
const HeaderSize = 44

// encodeChunk is the number of frames converted per write.
const encodeChunk = 4096

// Encoding selects the sample format of the data chunk.
type Encoding int

const (
	// PCM16 is format code 1, 16 bit signed integers.
	PCM16 Encoding = iota
	// Float32 is format code 3, 32 bit IEEE floats.
	Float32
)

// ParseEncoding accepts "pcm16" or "float32".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(s) {
	case "pcm16", "":
		return PCM16, nil
	case "float32":
		return Float32, nil
	}

	return PCM16, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, s)
}

func (e Encoding) String() string {
	if e == Float32 {
		return "float32"
	}

	return "pcm16"
}

// FormatCode is the fmt chunk audio format field.
func (e Encoding) FormatCode() uint16 {
	if e == Float32 {
		return formatFloat
	}

	return formatPCM
}

func (e Encoding) BytesPerSample() int {
	if e == Float32 {
		return 4
	}

	return 2
}

// EncodedSize returns the total file size Encode produces.
func EncodedSize(frames, channels int, enc Encoding) int {
	return HeaderSize + frames*channels*enc.BytesPerSample()
}

// Encode writes buf as a RIFF/WAVE file. Samples are interleaved frame by
// frame. PCM16 clamps to [-1, 1] and scales negatives by 32768 and positives
// by 32767, truncating toward zero; Float32 clamps and writes the raw bits.
func Encode(w io.Writer, buf *audio.Buffer, enc Encoding) error {
	channels := buf.Channels()
	if channels == 0 {
		return ErrEmptyBuffer
	}

	if enc != PCM16 && enc != Float32 {
		return fmt.Errorf("%w: %d", ErrUnsupportedEncoding, enc)
	}

	frames := buf.Frames()
	bps := enc.BytesPerSample()
	blockAlign := channels * bps
	dataSize := uint32(frames * blockAlign)

	header := make([]byte, HeaderSize)

	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], HeaderSize-8+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], enc.FormatCode())
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(buf.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(buf.SampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bps*8))

	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}

	if frames == 0 {
		return nil
	}

	out := make([]byte, min(frames, encodeChunk)*blockAlign)

	for start := 0; start < frames; start += encodeChunk {
		n := min(encodeChunk, frames-start)
		chunk := out[:n*blockAlign]

		for f := range n {
			for ch := range channels {
				v := buf.Data[ch][start+f]
				off := f*blockAlign + ch*bps

				if enc == Float32 {
					binary.LittleEndian.PutUint32(chunk[off:], math.Float32bits(utils.ClampUnit(v)))
					continue
				}
				binary.LittleEndian.PutUint16(chunk[off:], uint16(utils.Float32ToInt16(v)))
			}
		}

		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("write wav data: %w", err)
		}
	}

	return nil
}
