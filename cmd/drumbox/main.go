// SPDX-License-Identifier: EPL-2.0

// Command drumbox plays drumbot patterns through the system audio device or
// renders them to a WAV file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/drumbox"
	"github.com/ik5/drumbox/audio"
	"github.com/ik5/drumbox/device/otodev"
	"github.com/ik5/drumbox/engine"
	"github.com/ik5/drumbox/internal/config"
	"github.com/ik5/drumbox/internal/observe"
	"github.com/ik5/drumbox/library"
	"github.com/ik5/drumbox/sequencer"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ─────────────────────────────────────────────────────────────
	configPath := flag.String("config", "", "path to the YAML configuration file; empty uses the defaults")
	patternName := flag.String("pattern", "", "pattern to play, overrides patterns.name")
	listOnly := flag.Bool("list", false, "print the available pattern names and exit")
	outPath := flag.String("out", "", "render to this WAV file instead of the audio device")
	flag.Parse()

	// ── Configuration ─────────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "drumbox: %v\n", err)
		return 1
	}
	if *patternName != "" {
		cfg.Patterns.Name = *patternName
	}
	if *outPath != "" {
		cfg.Output.Device = config.DeviceWAV
		cfg.Output.Path = *outPath
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "drumbox: %v\n", err)
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Patterns ──────────────────────────────────────────────────────────────
	if *listOnly {
		names, err := listPatterns(ctx, cfg)
		if err != nil {
			slog.Error("failed to list patterns", "err", err)
			return 1
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return 0
	}

	patterns, err := loadPatterns(ctx, cfg)
	if err != nil {
		slog.Error("failed to load patterns", "source", cfg.Patterns.Source, "err", err)
		return 1
	}
	pattern, err := pickPattern(patterns, cfg.Patterns.Name)
	if err != nil {
		slog.Error("no pattern to play", "err", err)
		return 1
	}

	// ── Samples ───────────────────────────────────────────────────────────────
	lib := library.New(cfg.Samples.Dir, library.WithLogger(logger))
	ref, err := lib.Sound(cfg.Samples.Reference)
	if err != nil {
		slog.Error("failed to load reference sample", "instrument", cfg.Samples.Reference, "err", err)
		return 1
	}
	format, err := audio.DeriveFormat(ref.Spec())
	if err != nil {
		slog.Error("reference sample cannot be mixed", "instrument", cfg.Samples.Reference, "err", err)
		return 1
	}
	for _, inst := range pattern.Instruments() {
		// Missing instruments only cost their hits; the rest still plays.
		if _, err := lib.Sound(inst); err != nil {
			slog.Warn("instrument unavailable", "instrument", inst, "err", err)
		}
	}

	slog.Info("drumbox starting",
		"pattern", pattern.Name,
		"steps", pattern.StepCount,
		"bpm", pattern.BeatsPerMinute,
		"input_spec", ref.Spec().String(),
		"output_format", format.String(),
		"device", cfg.Output.Device,
	)

	// ── Metrics ───────────────────────────────────────────────────────────────
	mp, shutdownMetrics, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to init metrics", "err", err)
		return 1
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(sctx); err != nil {
			slog.Warn("metrics shutdown", "err", err)
		}
	}()
	metrics, err := observe.NewMetrics(mp)
	if err != nil {
		slog.Error("failed to create metrics", "err", err)
		return 1
	}

	// ── Run ───────────────────────────────────────────────────────────────────
	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	g, gctx := errgroup.WithContext(runCtx)

	if addr := cfg.Metrics.ListenAddr; addr != "" {
		serveMetrics(gctx, g, addr)
	}

	g.Go(func() error {
		defer cancelRun()
		if cfg.Output.Device == config.DeviceWAV {
			return render(gctx, cfg, pattern, lib, format, metrics)
		}
		return play(gctx, cfg, pattern, lib, format, metrics)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("drumbox stopped", "err", err)
		return 1
	}
	slog.Info("drumbox stopped")
	return 0
}

// play runs the pattern on the system audio device until ctx is done, or
// once through when looping is off.
func play(ctx context.Context, cfg *config.Config, p sequencer.Pattern, lib *library.Library, format audio.Format, metrics *observe.Metrics) error {
	dev := otodev.New(otodev.WithBufferSize(cfg.Output.Buffer), otodev.WithLogger(slog.Default()))

	engCtx, stopEngine := context.WithCancel(ctx)
	defer stopEngine()

	eng, err := engine.Start(engCtx, dev, format,
		engine.WithLogger(slog.Default()),
		engine.WithObserver(metrics),
	)
	if err != nil {
		return fmt.Errorf("starting playback: %w", err)
	}
	slog.Info("device negotiated", "device", dev.Name(), "device_format", eng.DeviceFormat().String())

	drv, err := sequencer.NewDriver(p, eng, lib,
		sequencer.WithLoop(cfg.Patterns.Loop),
		sequencer.WithLogger(slog.Default()),
		sequencer.WithObserver(metrics),
	)
	if err != nil {
		return err
	}

	if err := drv.Run(ctx); err != nil {
		stopEngine()
		eng.Join()
		return err
	}

	// Let the last hits ring out before closing the device.
	drainCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	waitIdle(drainCtx, eng)

	stopEngine()
	if err := eng.Join(); err != nil {
		return fmt.Errorf("playback: %w", err)
	}
	slog.Info("pattern finished", "clips", eng.Clips(), "failed_hits", drv.Failures())
	return nil
}

func waitIdle(ctx context.Context, eng *engine.Engine) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for eng.ActiveCount() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-eng.Done():
			return
		case <-ticker.C:
		}
	}
}

// render writes the pattern to the configured WAV file.
func render(ctx context.Context, cfg *config.Config, p sequencer.Pattern, lib *library.Library, format audio.Format, metrics *observe.Metrics) error {
	f, err := os.Create(cfg.Output.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cfg.Output.Path, err)
	}
	defer f.Close()

	loops := renderLoops(p, cfg.Output.Duration, cfg.Patterns.Loop)
	stats, err := drumbox.RenderPattern(ctx, f, format, p, lib, loops,
		drumbox.WithLogger(slog.Default()),
		drumbox.WithMixerObserver(metrics),
		drumbox.WithSequencerObserver(metrics),
	)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", cfg.Output.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", cfg.Output.Path, err)
	}

	slog.Info("render finished",
		"path", cfg.Output.Path,
		"loops", loops,
		"frames", stats.Frames,
		"clips", stats.Clips,
		"failed_hits", stats.Failures,
	)
	return nil
}

func serveMetrics(ctx context.Context, g *errgroup.Group, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observe.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	g.Go(func() error {
		slog.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})
}
