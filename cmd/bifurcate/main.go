// Command bifurcate computes a logistic-map bifurcation diagram and shows it
// while it is being computed.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/comalice/bifurcx"
	"github.com/comalice/bifurcx/internal/production"
	"github.com/comalice/bifurcx/outlet"
	"github.com/comalice/bifurcx/render/ebitenplot"
	"github.com/comalice/bifurcx/render/raster"
	"github.com/comalice/bifurcx/render/term"
)

var (
	preset    = flag.String("preset", "default", "resolution preset (default, sparse, normal, dense)")
	config    = flag.String("config", "", "profile file (.yaml or .json); overrides -preset")
	save      = flag.String("save", "", "write the effective profile to this file and exit")
	mode      = flag.String("mode", "", "sweep (mu) or iterate; overrides the profile")
	lanes     = flag.Int("lanes", 0, "worker units per run (0 = half the CPUs, at least 2)")
	exec      = flag.String("exec", "auto", "execution path: auto, parallel or cooperative")
	burnin    = flag.Int("burnin", -1, "map applications discarded before recording (sweep mode)")
	iters     = flag.Int("iterations", 0, "override iterations")
	rendererF = flag.String("renderer", "term", "term, window or none")
	pngPath   = flag.String("png", "", "export the final frame as PNG")
	frame     = flag.Duration("frame", 16667*time.Microsecond, "redraw interval")
	cols      = flag.Int("cols", 100, "terminal columns")
	rows      = flag.Int("rows", 30, "terminal rows")
	width     = flag.Int("width", 1100, "window/raster width in pixels")
	height    = flag.Int("height", 700, "window/raster height in pixels")
	verbose   = flag.Bool("v", false, "log engine events to stderr")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := run(); err != nil {
		log.Fatalf("bifurcate: %v", err)
	}
}

func run() error {
	profile, err := resolveProfile()
	if err != nil {
		return err
	}
	if *save != "" {
		if err := production.SaveFile(*save, profile); err != nil {
			return err
		}
		fmt.Printf("Saved profile %q to %s\n", profile.Name, *save)
		return nil
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if !*verbose {
		logger = log.New(io.Discard, "", 0)
	}

	s := profile.Settings
	var (
		renderer outlet.Renderer
		window   *ebitenplot.Window
	)
	switch *rendererF {
	case "term":
		renderer = term.New(os.Stdout, *cols, *rows, s)
	case "window":
		window = ebitenplot.New("bifurcate: "+profile.Name, *width, *height, s)
		renderer = window
	case "none":
		renderer = raster.ForSettings(*width, *height, s)
	default:
		return fmt.Errorf("unknown renderer %q", *rendererF)
	}

	execution, err := parseExecution(*exec)
	if err != nil {
		return err
	}
	var observer bifurcx.Observer = outlet.New(renderer, outlet.Config{FrameRate: *frame, Logger: logger})
	if *verbose {
		events := make(chan production.PublishedEvent, 4096)
		pub := production.NewChannelPublisher(events)
		defer pub.Close()
		go report(logger, events)
		observer = bifurcx.Tee(observer, pub)
	}
	opts := []bifurcx.Option{
		bifurcx.WithMode(profile.Mode),
		bifurcx.WithObserver(observer),
		bifurcx.WithExecution(execution),
		bifurcx.WithLogger(logger),
	}
	if profile.Lanes > 0 {
		opts = append(opts, bifurcx.WithLanes(profile.Lanes))
	}
	g := bifurcx.NewGraph(opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	r, err := g.Start(ctx, s)
	if err != nil {
		return err
	}

	if window != nil {
		// ebiten owns the main goroutine until the window closes.
		if err := window.Run(); err != nil && !errors.Is(err, context.Canceled) {
			g.Stop()
			return fmt.Errorf("window: %w", err)
		}
		g.Stop()
	} else {
		select {
		case <-r.Done():
		case <-ctx.Done():
			g.Stop()
		}
	}

	fmt.Fprintf(os.Stderr, "%s run: %d points in %v (%s, %d units, cancelled=%v)\n",
		r.Mode, g.Len(), time.Since(started).Round(time.Millisecond), execName(r), len(r.Units()), r.Cancelled())
	if err := r.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "unit failure: %v\n", err)
	}

	if *pngPath != "" {
		if err := exportPNG(renderer, *pngPath); err != nil {
			// Export failures are reported, the run itself already succeeded.
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
		}
	}
	return nil
}

// report logs run lifecycle events and a progress line every 10000 points.
func report(logger *log.Logger, events <-chan production.PublishedEvent) {
	plotted := 0
	for e := range events {
		switch e.Kind {
		case production.EventPlotted:
			plotted++
			if plotted%10000 == 0 {
				logger.Printf("bifurcate: %d points plotted", plotted)
			}
		case production.EventStarted:
			plotted = 0
			logger.Printf("bifurcate: run started")
		case production.EventStopped:
			logger.Printf("bifurcate: run stopped with %d live points", e.Live)
		}
	}
}

func resolveProfile() (production.Profile, error) {
	var p production.Profile
	if *config != "" {
		loaded, err := production.LoadFile(*config)
		if err != nil {
			return p, err
		}
		p = loaded
	} else {
		s, err := bifurcx.Preset(*preset)
		if err != nil {
			return p, err
		}
		p = production.Profile{Name: *preset, Mode: bifurcx.ModeSweep, Settings: s}
	}

	if *mode != "" {
		m, err := bifurcx.ParseMode(*mode)
		if err != nil {
			return p, err
		}
		p.Mode = m
	}
	if *lanes > 0 {
		p.Lanes = *lanes
	}
	if *iters > 0 {
		p.Settings.Iterations = uint32(*iters)
	}
	if *burnin >= 0 {
		p.Settings.Burnin = uint32(*burnin)
	}
	return p, p.Validate()
}

func parseExecution(s string) (bifurcx.Execution, error) {
	switch s {
	case "auto":
		return bifurcx.ExecAuto, nil
	case "parallel":
		return bifurcx.ExecParallel, nil
	case "cooperative":
		return bifurcx.ExecCooperative, nil
	}
	return 0, fmt.Errorf("unknown execution path %q", s)
}

func execName(r *bifurcx.Run) string {
	if r.Parallel {
		return "parallel"
	}
	return "cooperative"
}

func exportPNG(r outlet.Renderer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := raster.ExportPNG(r, f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
