// SPDX-License-Identifier: EPL-2.0

package decode

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/formats/aiff"
	"github.com/ik5/audtrim/formats/flac"
	"github.com/ik5/audtrim/formats/mp3"
	"github.com/ik5/audtrim/formats/opus"
	"github.com/ik5/audtrim/formats/vorbis"
	"github.com/ik5/audtrim/formats/wav"
)

// extFormats maps file extensions to format keys when sniffing fails.
var extFormats = map[string]string{
	"wav":  audio.FormatWAV,
	"wave": audio.FormatWAV,
	"aif":  audio.FormatAIFF,
	"aiff": audio.FormatAIFF,
	"aifc": audio.FormatAIFF,
	"flac": audio.FormatFLAC,
	"mp3":  audio.FormatMP3,
	"ogg":  audio.FormatVorbis,
	"oga":  audio.FormatVorbis,
	"opus": audio.FormatOpus,
	"aac":  audio.FormatAAC,
	"m4a":  audio.FormatAAC,
}

// DefaultRegistry returns a registry with every built-in format.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(audio.FormatWAV, wav.Decoder{})
	r.Register(audio.FormatAIFF, aiff.Decoder{})
	r.Register(audio.FormatFLAC, flac.Decoder{})
	r.Register(audio.FormatMP3, mp3.Decoder{})
	r.Register(audio.FormatVorbis, vorbis.Decoder{})
	r.Register(audio.FormatOpus, opus.Decoder{})

	return r
}

// Decoder turns an asset into a fully decoded buffer.
type Decoder struct {
	registry *audio.Registry
	logger   *slog.Logger
}

type Option func(*Decoder)

// WithRegistry replaces the default format registry.
func WithRegistry(r *audio.Registry) Option {
	return func(d *Decoder) { d.registry = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Decoder) { d.logger = l }
}

func New(opts ...Option) *Decoder {
	d := &Decoder{}
	for _, opt := range opts {
		opt(d)
	}

	if d.registry == nil {
		d.registry = DefaultRegistry()
	}

	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}

	return d
}

// Formats lists the format keys this decoder can handle.
func (d *Decoder) Formats() []string {
	return d.registry.Formats()
}

// Detect returns the format key for data, falling back to the extension of
// name when the magic bytes are not recognized.
func Detect(data []byte, ext string) string {
	if f := audio.DetectFormat(data[:min(len(data), audio.SniffLen)]); f != "" {
		return f
	}

	return extFormats[ext]
}

// Decode reads the whole asset and decodes it. Every failure is returned as
// *Error except cancellation of ctx, which is returned as ctx.Err() wrapped.
func (d *Decoder) Decode(ctx context.Context, asset *audio.Asset) (*audio.Buffer, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	name := ""
	if asset != nil {
		name = asset.Name
	}

	data, err := readAsset(asset)
	if err != nil {
		return nil, &Error{Asset: name, Err: err}
	}

	if len(data) == 0 {
		return nil, &Error{Asset: name, Err: ErrEmptyInput}
	}

	format := Detect(data, asset.Ext())
	if format == "" {
		return nil, &Error{Asset: name, Err: ErrUnrecognized}
	}

	dec, ok := d.registry.Get(format)
	if !ok {
		return nil, &Error{Asset: name, Format: format, Err: ErrUnsupported}
	}

	d.logger.DebugContext(ctx, "decoding asset", "asset", name, "format", format, "bytes", len(data))

	src, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &Error{Asset: name, Format: format, Err: err}
	}
	defer src.Close()

	buf, err := audio.Collect(ctx, src)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("decode %s: %w", name, ctx.Err())
		}
		return nil, &Error{Asset: name, Format: format, Err: err}
	}

	if buf.SampleRate <= 0 {
		return nil, &Error{Asset: name, Format: format, Err: ErrBadRate}
	}

	if buf.Frames() == 0 {
		return nil, &Error{Asset: name, Format: format, Err: ErrNoFrames}
	}

	d.logger.DebugContext(ctx, "decoded asset",
		"asset", name,
		"format", format,
		"sample_rate", buf.SampleRate,
		"channels", buf.Channels(),
		"frames", buf.Frames(),
	)

	return buf, nil
}

func readAsset(asset *audio.Asset) ([]byte, error) {
	rc, err := asset.Open()
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read asset: %w", err)
	}

	return data, nil
}
