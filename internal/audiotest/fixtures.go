// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/ik5/audtrim/audio"
)

// NewSineBuffer returns a buffer of the given length holding a sine wave of
// amplitude amp on every channel.
func NewSineBuffer(sampleRate, channels int, seconds, frequency float64, amp float32) *audio.Buffer {
	frames := int(seconds * float64(sampleRate))
	buf := audio.NewBuffer(sampleRate, channels, frames)
	wave := sine(sampleRate, frequency)

	for ch := range channels {
		for f := range frames {
			buf.Data[ch][f] = amp * wave(f, ch)
		}
	}

	return buf
}

// NewRampBuffer returns a buffer where channel ch at frame f holds
// f/frames, negated on odd channels. Useful to check that slices keep
// channels apart.
func NewRampBuffer(sampleRate, channels, frames int) *audio.Buffer {
	buf := audio.NewBuffer(sampleRate, channels, frames)

	for ch := range channels {
		for f := range frames {
			v := float32(f) / float32(frames)
			if ch%2 == 1 {
				v = -v
			}
			buf.Data[ch][f] = v
		}
	}

	return buf
}

// WAV16 builds a canonical 44 byte header PCM16 WAV file from interleaved
// samples.
func WAV16(sampleRate, channels int, samples []int16) []byte {
	var b bytes.Buffer

	dataSize := uint32(len(samples) * 2)

	b.WriteString("RIFF")
	_ = binary.Write(&b, binary.LittleEndian, 36+dataSize)
	b.WriteString("WAVE")

	b.WriteString("fmt ")
	_ = binary.Write(&b, binary.LittleEndian, uint32(16))
	_ = binary.Write(&b, binary.LittleEndian, uint16(1))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	_ = binary.Write(&b, binary.LittleEndian, uint32(sampleRate*channels*2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(channels*2))
	_ = binary.Write(&b, binary.LittleEndian, uint16(16))

	b.WriteString("data")
	_ = binary.Write(&b, binary.LittleEndian, dataSize)
	_ = binary.Write(&b, binary.LittleEndian, samples)

	return b.Bytes()
}

// SineWAV16 renders seconds of a 440 Hz tone at half scale as PCM16 WAV.
func SineWAV16(sampleRate, channels int, seconds float64) []byte {
	frames := int(seconds * float64(sampleRate))
	wave := sine(sampleRate, 440)
	samples := make([]int16, frames*channels)

	for f := range frames {
		v := int16(math.Round(float64(wave(f, 0)) * 16383))
		for ch := range channels {
			samples[f*channels+ch] = v
		}
	}

	return WAV16(sampleRate, channels, samples)
}
