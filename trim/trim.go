// SPDX-License-Identifier: EPL-2.0

package trim

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/region"
)

// MIMEType of every exported file.
const MIMEType = "audio/wav"

// DefaultName is used when the source carries no file name.
const DefaultName = "audio-trimmed.wav"

var ErrNoAudio = errors.New("nothing to export")

// Options control one export.
type Options struct {
	Encoding wav.Encoding
	// SourceName is the original file name, used to derive Result.Name.
	SourceName string
}

// Result is the exported file. The caller owns it.
type Result struct {
	Bytes    []byte
	MIMEType string
	Name     string
	// Frames is the number of frames per channel in the file.
	Frames int
	// Region is the range actually exported, after clamping.
	Region region.Region
}

// Export encodes the part of buf covered by r. An invalid or empty region is
// not an error: the whole buffer is exported instead.
func Export(buf *audio.Buffer, r region.Region, opts Options) (*Result, error) {
	if buf == nil || buf.Channels() == 0 || buf.Frames() == 0 {
		return nil, ErrNoAudio
	}

	if buf.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", audio.ErrInvalidSampleRate, buf.SampleRate)
	}

	r, startFrame, endFrame := frameRange(buf, r)

	slice, err := buf.Slice(startFrame, endFrame)
	if err != nil {
		return nil, fmt.Errorf("slice region %s: %w", r, err)
	}

	var out bytes.Buffer
	out.Grow(wav.EncodedSize(slice.Frames(), slice.Channels(), opts.Encoding))

	if err := wav.Encode(&out, slice, opts.Encoding); err != nil {
		return nil, fmt.Errorf("encode region %s: %w", r, err)
	}

	return &Result{
		Bytes:    out.Bytes(),
		MIMEType: MIMEType,
		Name:     SuggestedName(opts.SourceName),
		Frames:   slice.Frames(),
		Region:   r,
	}, nil
}

// frameRange bounds r to the buffer and converts it to frame indices with
// floor(t * rate). Anything that ends up empty selects the full buffer.
func frameRange(buf *audio.Buffer, r region.Region) (region.Region, int, int) {
	duration := buf.Duration()
	frames := buf.Frames()
	full := region.Region{Start: 0, End: duration}

	if math.IsNaN(r.Start) || math.IsNaN(r.End) {
		return full, 0, frames
	}

	start := math.Min(math.Max(r.Start, 0), duration)
	end := math.Min(r.End, duration)

	if !(end > start) {
		return full, 0, frames
	}

	startFrame := audio.FrameAt(start, buf.SampleRate)
	endFrame := min(audio.FrameAt(end, buf.SampleRate), frames)

	if endFrame <= startFrame {
		return full, 0, frames
	}

	return region.Region{Start: start, End: end}, startFrame, endFrame
}

// SuggestedName strips the extension from name and appends "-trimmed.wav".
func SuggestedName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == "" {
		return DefaultName
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		return DefaultName
	}

	return stem + "-trimmed.wav"
}
