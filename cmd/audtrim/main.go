// SPDX-License-Identifier: EPL-2.0

// Command audtrim cuts a section out of an audio file and writes it as WAV.
//
//	audtrim -start 12.5 -end 40 -max 30 interview.mp3
//	audtrim -edit interview.mp3
//
// Settings not covered by flags come from AUDTRIM_* environment variables.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ik5/audtrim"
	"github.com/ik5/audtrim/audio"
	"github.com/ik5/audtrim/config"
	"github.com/ik5/audtrim/formats/wav"
	"github.com/ik5/audtrim/frame"
	"github.com/ik5/audtrim/playback"
	"github.com/ik5/audtrim/session"
	"github.com/ik5/audtrim/storage"
	"github.com/ik5/audtrim/trim"
	"github.com/ik5/audtrim/tui"
)

var (
	start    = flag.Float64("start", 0, "Selection start in seconds")
	end      = flag.Float64("end", -1, "Selection end in seconds (default: end of file)")
	maxDur   = flag.Float64("max", -1, "Maximum selection length in seconds (default: AUDTRIM_MAX_DURATION)")
	useFloat = flag.Bool("float", false, "Write 32-bit float samples instead of 16-bit PCM")
	out      = flag.String("out", "", "Output path (default: <input>-trimmed.wav next to the input)")
	edit     = flag.Bool("edit", false, "Open the interactive region editor")
	logFile  = flag.String("log-file", "", "Log file path (editor mode logs nowhere by default)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <input>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, "audtrim:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, input string) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if *maxDur >= 0 {
		cfg.MaxDuration = *maxDur
	}

	enc := cfg.WavEncoding()
	if *useFloat {
		enc = wav.Float32
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Debug("configuration", "config", cfg.String())

	asset, err := audio.NewFileAsset(input)
	if err != nil {
		return err
	}

	if *edit {
		return runEditor(ctx, cfg, enc, asset, input, logger)
	}

	// An open end runs to the end of the recording, or MaxDuration past start.
	endAt := *end
	if endAt < 0 {
		endAt = math.Inf(1)
	}

	res, err := audtrim.Trim(ctx, asset, *start, endAt, audtrim.Options{
		MaxDuration: cfg.MaxDuration,
		Encoding:    enc,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return writeResult(outputPath(input, res), res, logger)
}

func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	switch {
	case *logFile != "":
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return cfg.NewLogger(f), func() { _ = f.Close() }, nil
	case *edit:
		// The editor owns the terminal.
		return cfg.NewLogger(io.Discard), func() {}, nil
	default:
		return cfg.NewLogger(os.Stderr), func() {}, nil
	}
}

func runEditor(ctx context.Context, cfg *config.Config, enc wav.Encoding, asset *audio.Asset, input string, logger *slog.Logger) error {
	store, err := storage.NewStore(cfg.TempDir, storage.WithLogger(logger))
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	queue := frame.NewQueue()
	opts := []session.EngineOption{
		session.WithScheduler(queue),
		session.WithReleaseDelay(cfg.ReleaseDelay),
		session.WithGateAttempts(cfg.GateAttempts),
		session.WithSpectrum(cfg.SpectrumSize, cfg.SpectrumBars),
		session.WithLogger(logger),
	}

	dev, err := playback.NewOtoDevice(cfg.OutputRate, logger)
	if err != nil {
		logger.Warn("no audio output, previews disabled", "error", err)
	} else {
		opts = append(opts, session.WithDevice(dev))
	}

	eng := session.NewEngine(store, opts...)
	defer func() { _ = eng.CloseAll() }()

	canvas := frame.NewCanvas(frame.Size{})

	s, err := eng.Open(ctx, asset, canvas, session.Options{
		MaxDuration: cfg.MaxDuration,
		Mode:        cfg.Mode(),
		Encoding:    enc,
	})
	if err != nil {
		return err
	}

	m := tui.NewModel(s, canvas, queue, tui.Options{
		FPS: cfg.FrameRate,
		OnConfirm: func(res *trim.Result) error {
			return writeResult(outputPath(input, res), res, logger)
		},
	})

	final, err := tui.Run(m)
	if err != nil {
		return err
	}

	if final.Result() == nil {
		if err := s.Err(); err != nil && !errors.Is(err, session.ErrClosed) {
			return err
		}
	}

	return nil
}

func outputPath(input string, res *trim.Result) string {
	if *out != "" {
		return *out
	}

	return filepath.Join(filepath.Dir(input), res.Name)
}

func writeResult(path string, res *trim.Result, logger *slog.Logger) error {
	if err := os.WriteFile(path, res.Bytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("wrote trimmed audio",
		"path", path,
		"region", res.Region.String(),
		"frames", res.Frames,
		"bytes", len(res.Bytes),
	)

	return nil
}
