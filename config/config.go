// SPDX-License-Identifier: EPL-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"

	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/waveform"
)

// Prefix is prepended to every environment variable name.
const Prefix = "AUDTRIM_"

var ErrInvalid = errors.New("config: invalid value")

// Config holds the engine settings read from AUDTRIM_* variables.
type Config struct {
	// Region settings. MaxDuration <= 0 means no limit.
	MaxDuration float64 `env:"MAX_DURATION, default=0" validate:"gte=0"`

	// Export settings
	Encoding string `env:"ENCODING, default=pcm16" validate:"oneof=pcm16 float32"`

	// Layout gate and frame clock
	GateAttempts int `env:"GATE_ATTEMPTS, default=60" validate:"gte=1,lte=600"`
	FrameRate    int `env:"FRAME_RATE, default=60" validate:"gte=1,lte=240"`

	// Resource lifecycle
	ReleaseDelay time.Duration `env:"RELEASE_DELAY, default=100ms" validate:"gte=0s,lte=10s"`
	TempDir      string        `env:"TEMP_DIR"`

	// Playback and visualization
	OutputRate   int    `env:"OUTPUT_RATE, default=48000" validate:"gte=8000,lte=192000"`
	SpectrumSize int    `env:"SPECTRUM_SIZE, default=2048" validate:"gte=64,lte=32768"`
	SpectrumBars int    `env:"SPECTRUM_BARS, default=32" validate:"gte=1,lte=256"`
	SummaryMode  string `env:"SUMMARY_MODE, default=peak" validate:"oneof=peak rms"`

	// Logging settings
	LogFormat string `env:"LOG_FORMAT, default=text" validate:"oneof=text json"` // "json" or "text"
	LogLevel  string `env:"LOG_LEVEL, default=info"`                            // "debug", "info", "warn", "error"
}

// Load reads the configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration through l. Names are looked up with the
// AUDTRIM_ prefix.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(Prefix, l),
	})
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %q", ErrInvalid, Prefix+envName(verrs[0].Field()), verrs[0].Tag())
		}

		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if c.SpectrumSize&(c.SpectrumSize-1) != 0 {
		return fmt.Errorf("%w: %sSPECTRUM_SIZE %d is not a power of two", ErrInvalid, Prefix, c.SpectrumSize)
	}

	return nil
}

// envName turns a field name like ReleaseDelay into RELEASE_DELAY.
func envName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i > 0 && r >= 'A' && r <= 'Z' {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}

	return strings.ToUpper(b.String())
}

// WavEncoding is the parsed export encoding.
func (c *Config) WavEncoding() wav.Encoding {
	enc, err := wav.ParseEncoding(c.Encoding)
	if err != nil {
		return wav.PCM16
	}

	return enc
}

// Mode is the parsed waveform summary mode.
func (c *Config) Mode() waveform.Mode {
	if strings.EqualFold(c.SummaryMode, "rms") {
		return waveform.RMS
	}

	return waveform.Peak
}

// NewLogger creates a structured logger writing to w. When LogFormat is
// "json" it emits JSON, otherwise human-readable text.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(c.LogLevel)}

	if strings.ToLower(c.LogFormat) == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{MaxDuration: %g, Encoding: %s, GateAttempts: %d, FrameRate: %d, ReleaseDelay: %s, TempDir: %s, OutputRate: %d, SpectrumSize: %d, SpectrumBars: %d, SummaryMode: %s, LogFormat: %s, LogLevel: %s}",
		c.MaxDuration,
		c.Encoding,
		c.GateAttempts,
		c.FrameRate,
		c.ReleaseDelay,
		c.TempDir,
		c.OutputRate,
		c.SpectrumSize,
		c.SpectrumBars,
		c.SummaryMode,
		c.LogFormat,
		c.LogLevel,
	)
}

// parseLogLevel converts a string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
