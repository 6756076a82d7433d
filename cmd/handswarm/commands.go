package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/akmonengine/handswarm/config"
	"github.com/akmonengine/handswarm/logging"
	"github.com/akmonengine/handswarm/perception"
	"github.com/akmonengine/handswarm/render"
	"github.com/akmonengine/handswarm/render/raylib"
	"github.com/akmonengine/handswarm/render/term"
	"github.com/akmonengine/handswarm/swarm"
)

// loadConfig reads --config over the defaults, then --preset and the command
// flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if preset != "" && !config.Apply(cfg, preset) {
		return nil, fmt.Errorf("unknown preset %q, available: %s", preset, strings.Join(config.ListPresets(), ", "))
	}

	flags := cmd.Flags()
	if flags.Lookup("engine") != nil && flags.Changed("engine") {
		cfg.Render.Engine = engineName
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Lookup("frames") != nil && flags.Changed("frames") {
		cfg.Render.Frames, _ = flags.GetInt("frames")
	}
	if flags.Lookup("debug") != nil && flags.Changed("debug") {
		cfg.Render.Debug = debugView
	}

	return cfg, cfg.Validate()
}

// newLogger logs to --log, or stderr unless the terminal engine owns it
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	var w io.Writer = os.Stderr
	closer := func() {}

	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, func() { f.Close() }
	case cfg.Render.Engine == "terminal":
		return logging.Discard(), closer, nil
	}

	logger, err := logging.New(cfg.Log, w)
	if err != nil {
		closer()
		return nil, nil, err
	}

	return logger, closer, nil
}

func newEngine(cfg *config.Config) (render.Engine, error) {
	r := cfg.Render
	switch r.Engine {
	case "headless":
		e := render.NewHeadless(r.Width, r.Height)
		e.FPS, e.MaxFrames = r.FPS, r.Frames
		return e, nil
	case "terminal":
		e := term.New(80, 24)
		e.FPS, e.MaxFrames = r.FPS, r.Frames
		return e, nil
	case "raylib":
		e := raylib.New(r.Width, r.Height)
		e.FPS, e.MaxFrames = r.FPS, r.Frames
		return e, nil
	}

	return nil, fmt.Errorf("unknown engine %q", r.Engine)
}

func newLoop(cfg *config.Config, engine render.Engine, logger *slog.Logger) (*swarm.Loop, error) {
	video, detector, err := perception.FromConfig(cfg.Video)
	if err != nil {
		return nil, err
	}

	c, err := swarm.NewContext(cfg, engine, video, detector, logger)
	if err != nil {
		return nil, err
	}

	return swarm.NewLoop(c), nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	engine, err := newEngine(cfg)
	if err != nil {
		return err
	}
	loop, err := newLoop(cfg, engine, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return loop.Start(ctx)
}

func benchSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	frames, _ := cmd.Flags().GetInt("frames")
	cfg.Seed, _ = cmd.Flags().GetInt64("seed")
	cfg.Render.Engine = "headless"
	cfg.Render.FPS = 0
	cfg.Render.Frames = frames

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	engine := render.NewHeadless(cfg.Render.Width, cfg.Render.Height)
	engine.MaxFrames = frames

	loop, err := newLoop(cfg, engine, logger)
	if err != nil {
		return err
	}

	radii := make([]float64, 0, frames)
	var worst time.Duration
	engine.OnRender = func(*render.Scene) {
		stats := loop.Stats()
		radii = append(radii, stats.MeanRadius)
		worst = max(worst, stats.LastFrame)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	start := time.Now()
	if err := loop.Start(ctx); err != nil {
		return err
	}
	elapsed := time.Since(start)
	stats := loop.Stats()

	out := cmd.OutOrStdout()
	if len(radii) > 1 {
		fmt.Fprintln(out, asciigraph.Plot(radii,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("mean swarm radius"),
		))
		fmt.Fprintln(out)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frames\t%d\n", stats.Frames)
	fmt.Fprintf(w, "bodies\t%d\n", cfg.Bodies.Count)
	fmt.Fprintf(w, "elapsed\t%s\n", elapsed.Round(time.Millisecond))
	if elapsed > 0 {
		fmt.Fprintf(w, "frames/s\t%.0f\n", float64(stats.Frames)/elapsed.Seconds())
	}
	fmt.Fprintf(w, "slowest frame\t%s\n", worst)
	fmt.Fprintf(w, "touches\t%d\n", stats.Touches)
	fmt.Fprintf(w, "final radius\t%.3f\n", stats.MeanRadius)

	return w.Flush()
}

func recordSource(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Video.Source == "replay" {
		return fmt.Errorf("recording a replay would only copy %s", cfg.Video.ReplayFile)
	}

	video, detector, err := perception.FromConfig(cfg.Video)
	if err != nil {
		return err
	}

	frames, _ := cmd.Flags().GetInt("frames")
	outFile, _ := cmd.Flags().GetString("out")

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	rec, err := perception.Capture(ctx, video, detector, frames)
	if err != nil {
		return err
	}
	rec.Meta = map[string]string{
		"source":   cfg.Video.Source,
		"recorded": time.Now().UTC().Format(time.RFC3339),
	}
	if err := rec.Save(outFile); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d frames written to %s\n", len(rec.Frames), outFile)

	return nil
}

func printConfig(cmd *cobra.Command, args []string) error {
	if listOnly {
		for _, name := range config.ListPresets() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if outFile, _ := cmd.Flags().GetString("out"); outFile != "" {
		return config.Save(outFile, cfg)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)

	return err
}
