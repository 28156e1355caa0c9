// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command watercolor renders a scene as a watercolor painting.
//
// Without -save it runs a headless frame loop at -fps until interrupted,
// optionally serving the tuning channel on -tweak. With -save it renders one
// frame to <renders>/<name>.png and exits.
//
//	watercolor -save still
//	watercolor -tweak localhost:8080 -dilution_variable 0.8 scenes/room.yaml
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/watercolor"
	"github.com/gogpu/watercolor/internal/tweak"
	"github.com/gogpu/watercolor/params"
	"github.com/gogpu/watercolor/render"
	"github.com/gogpu/watercolor/scene"
	"github.com/gogpu/watercolor/texture"
)

//go:embed demo.yaml
var demoScene string

type config struct {
	width, height int
	paper         string
	preset        string
	save          string
	renders       string
	tweakAddr     string
	fps           float64
	frames        int
	verbose       bool
	scene         string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	store, err := params.NewStore(params.Defaults())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg, err := parseFlags(args, store, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	watercolor.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
	log := watercolor.Logger()

	if err := drive(ctx, cfg, store, stdout, log); err != nil {
		log.Error("watercolor: fatal", "err", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, store *params.Store, stderr io.Writer) (*config, error) {
	cfg := &config{}
	fs := flag.NewFlagSet("watercolor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.width, "width", 640, "frame width")
	fs.IntVar(&cfg.height, "height", 480, "frame height")
	fs.StringVar(&cfg.paper, "paper", "", "paper texture `file` (default: procedural paper)")
	fs.StringVar(&cfg.preset, "preset", "", "YAML parameter preset `file`")
	fs.StringVar(&cfg.save, "save", "", "render one frame to <renders>/`name`.png and exit")
	fs.StringVar(&cfg.renders, "renders", watercolor.DefaultRendersDir, "capture `dir`ectory")
	fs.StringVar(&cfg.tweakAddr, "tweak", "", "serve the tuning channel on `addr`")
	fs.Float64Var(&cfg.fps, "fps", 30, "frame rate of the interactive loop")
	fs.IntVar(&cfg.frames, "frames", 0, "stop the interactive loop after `n` frames (0: run until interrupted)")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")

	// One flag per parameter. Values are staged in order, after the preset.
	var overrides [][2]string
	for _, h := range store.Describe() {
		name := h.Name
		usage := h.Usage
		if h.Ranged {
			usage = fmt.Sprintf("%s [%v, %v]", usage, h.Min, h.Max)
		}
		fs.Func(name, usage, func(s string) error {
			overrides = append(overrides, [2]string{name, s})
			return nil
		})
	}
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: watercolor [flags] [scene.yaml]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(stderr, "watercolor: at most one scene file")
		fs.Usage()
		return nil, errors.New("too many arguments")
	}
	cfg.scene = fs.Arg(0)

	if cfg.preset != "" {
		if err := params.ApplyPresetFile(cfg.preset, store); err != nil {
			fmt.Fprintln(stderr, err)
			return nil, err
		}
	}
	for _, o := range overrides {
		if err := store.SetString(o[0], o[1]); err != nil {
			fmt.Fprintf(stderr, "watercolor: -%s: %v\n", o[0], err)
			return nil, err
		}
	}
	if cfg.save != "" {
		if err := store.SetString("capture", cfg.save); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func loadScene(name string) (*scene.Scene, error) {
	if name == "" {
		return scene.Decode(strings.NewReader(demoScene))
	}
	return scene.LoadFile(name)
}

// drive sets up the renderer and runs it until the capture is written, the
// frame limit is reached or ctx ends.
func drive(ctx context.Context, cfg *config, store *params.Store, stdout io.Writer, log *slog.Logger) error {
	s, err := loadScene(cfg.scene)
	if err != nil {
		return err
	}
	opts := []watercolor.Option{
		watercolor.WithParameters(store),
		watercolor.WithRendersDir(cfg.renders),
	}
	if cfg.paper != "" {
		paper, err := texture.Load(cfg.paper)
		if err != nil {
			return err
		}
		opts = append(opts, watercolor.WithPaper(paper))
	}
	r, err := watercolor.New(s, opts...)
	if err != nil {
		return err
	}
	target, err := render.NewScreenTarget(cfg.width, cfg.height, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		return err
	}

	if cfg.save != "" {
		f, err := r.RenderFrame(ctx, target)
		if err != nil {
			return err
		}
		if f.CaptureErr != nil {
			return f.CaptureErr
		}
		fmt.Fprintln(stdout, f.CapturePath)
		return nil
	}

	if cfg.tweakAddr != "" {
		srv := &http.Server{
			Addr:              cfg.tweakAddr,
			Handler:           tweak.New(store, r, log),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info("watercolor: tuning channel listening", "addr", cfg.tweakAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Warn("watercolor: tuning channel stopped", "err", err)
			}
		}()
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdown)
		}()
	}
	return loop(ctx, r, target, cfg, log)
}

func loop(ctx context.Context, r *watercolor.Renderer, target *render.ScreenTarget, cfg *config, log *slog.Logger) error {
	fps := cfg.fps
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Duration(float64(time.Second) / fps))
	defer ticker.Stop()

	last := time.Now()
	for n := 0; cfg.frames == 0 || n < cfg.frames; n++ {
		now := time.Now()
		r.Params().Advance(now.Sub(last).Seconds())
		last = now

		f, err := r.RenderFrame(ctx, target)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		if f.Done {
			log.Info("watercolor: capture done, exiting", "path", f.CapturePath)
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
