// SPDX-License-Identifier: EPL-2.0

package audtrim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/decode"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/region"
	"github.com/ik5/audtrim/trim"
)

// Options for Trim.
type Options struct {
	// MaxDuration caps the selection in seconds. Zero or less means no cap.
	MaxDuration float64
	Encoding    wav.Encoding
	// Decoder overrides the default format registry.
	Decoder *decode.Decoder
	Logger  *slog.Logger
}

// Trim decodes asset and exports [start, end) seconds of it.
func Trim(ctx context.Context, asset *audio.Asset, start, end float64, opts Options) (*trim.Result, error) {
	if asset == nil {
		return nil, errors.New("nil asset")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dec := opts.Decoder
	if dec == nil {
		dec = decode.New(decode.WithLogger(logger))
	}

	buf, err := dec.Decode(ctx, asset)
	if err != nil {
		return nil, err
	}

	r := Select(start, end, buf.Duration(), opts.MaxDuration)
	logger.Debug("trim", "asset", asset.Name, "region", r.String(), "duration", buf.Duration())

	res, err := trim.Export(buf, r, trim.Options{Encoding: opts.Encoding, SourceName: asset.Name})
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", asset.Name, err)
	}

	return res, nil
}

// Select applies the editor's clamp to [start, end) and falls back to the
// default region when nothing is left.
func Select(start, end, duration, max float64) region.Region {
	r, err := region.Clamp(start, end, duration, max)
	if err != nil {
		return region.DefaultRegion(duration, max)
	}

	return r
}
