// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"testing"

	"github.com/ik5/audtrim/audio"
)

// mockMP3Reader simulates the gomp3.Decoder for testing. chunk limits the
// bytes returned per Read.
type mockMP3Reader struct {
	sampleRate int
	data       []byte
	offset     int
	chunk      int
	err        error
}

func newMockMP3Reader(sampleRate int, samples []int16, chunk int) *mockMP3Reader {
	data := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(data[2*i:], uint16(s))
	}

	return &mockMP3Reader{sampleRate: sampleRate, data: data, chunk: chunk}
}

func (m *mockMP3Reader) SampleRate() int { return m.sampleRate }

func (m *mockMP3Reader) Read(buf []byte) (int, error) {
	if m.err != nil {
		return 0, m.err
	}

	if m.offset >= len(m.data) {
		return 0, io.EOF
	}

	end := len(m.data)
	if m.chunk > 0 {
		end = min(end, m.offset+m.chunk)
	}

	n := copy(buf, m.data[m.offset:end])
	m.offset += n

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for name, data := range map[string][]byte{
		"garbage": []byte("This is not MP3 data"),
		"empty":   {},
	} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%s) error = nil, want error", name)
		}
	}
}

func TestSource_Collect(t *testing.T) {
	t.Parallel()

	samples := []int16{0, 0, 16384, -16384, 32767, -32768}

	for _, chunk := range []int{0, 1, 3} {
		src := &source{dec: newMockMP3Reader(44100, samples, chunk), sampleRate: 44100, frames: 3}

		buf, err := audio.Collect(context.Background(), src)
		if err != nil {
			t.Fatalf("chunk %d: Collect() error = %v", chunk, err)
		}

		if buf.Frames() != 3 || buf.Channels() != 2 {
			t.Fatalf("chunk %d: got %d frames %d ch, want 3 frames 2 ch", chunk, buf.Frames(), buf.Channels())
		}

		if buf.Data[0][2] != 1 || buf.Data[1][2] != -1 {
			t.Errorf("chunk %d: last frame = %v, %v, want 1, -1", chunk, buf.Data[0][2], buf.Data[1][2])
		}

		if buf.Data[0][1] != 16384.0/32767 || buf.Data[1][1] != -0.5 {
			t.Errorf("chunk %d: frame 1 = %v, %v", chunk, buf.Data[0][1], buf.Data[1][1])
		}
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockMP3Reader{err: io.ErrUnexpectedEOF}}

	if _, err := src.ReadSamples(make([]float32, 4)); err == nil || err == io.EOF {
		t.Errorf("ReadSamples() error = %v, want wrapped io.ErrUnexpectedEOF", err)
	}
}

func TestSource_Metadata(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMockMP3Reader(22050, nil, 0), sampleRate: 22050, frames: -1}

	if src.SampleRate() != 22050 || src.Channels() != 2 || src.Frames() != -1 {
		t.Errorf("metadata = %d Hz %d ch %d frames", src.SampleRate(), src.Channels(), src.Frames())
	}
}
