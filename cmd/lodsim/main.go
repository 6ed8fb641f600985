// Command lodsim flies a viewer from orbit to the ground without a GPU and
// prints what the terrain quadtree does at each altitude.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/config"
	"github.com/Faultbox/planet-terrain/internal/logger"
	"github.com/Faultbox/planet-terrain/internal/metrics"
	"github.com/Faultbox/planet-terrain/internal/planet"
	"github.com/Faultbox/planet-terrain/internal/quadtree"
	"github.com/Faultbox/planet-terrain/internal/sim"
	"github.com/Faultbox/planet-terrain/internal/workers"
)

var (
	flagFrom   = flag.Float64("from", 0, "Start altitude in metres (default: camera.start_altitude)")
	flagTo     = flag.Float64("to", 2, "Final altitude in metres")
	flagSteps  = flag.Int("steps", 24, "Number of altitude samples")
	flagRounds = flag.Int("rounds", 16, "LOD passes per altitude")
	flagInline = flag.Bool("inline", false, "Build tiles on the calling goroutine")
	flagSettle = flag.Duration("settle", 5*time.Second, "Max wait per pass for in-flight tiles")
	flagLinger = flag.Bool("linger", false, "Keep serving metrics after the descent until interrupted")
	flagDir    = flag.String("dir", "0.3,1,0.2", "Descent direction in body space (x,y,z)")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	if path := config.SavePath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", path))
		return
	}

	if err := run(cfg); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var dir mgl64.Vec3
	if _, err := fmt.Sscanf(*flagDir, "%g,%g,%g", &dir[0], &dir[1], &dir[2]); err != nil {
		return fmt.Errorf("parse -dir %q: %w", *flagDir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := metrics.Serve(cfg.Metrics.Addr, func(err error) {
			logger.Error("metrics server stopped", zap.Error(err))
		})
		defer srv.Close()
		logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
	}

	var sched quadtree.Scheduler = quadtree.Inline
	settle := time.Duration(0)
	if !*flagInline {
		pool := workers.New(cfg.Terrain.Workers)
		defer pool.Close()
		if err := pool.RegisterMetrics(); err != nil {
			return err
		}
		sched = pool
		settle = *flagSettle
	}

	p, err := planet.New(cfg.Planet, cfg.TerrainOptions(), sched)
	if err != nil {
		return err
	}
	defer p.Close()
	if err := p.RegisterMetrics(); err != nil {
		return err
	}

	from := *flagFrom
	if from <= 0 {
		from = cfg.Camera.StartAltitude
	}
	r := &sim.NullRenderer{}
	d := sim.Descent{
		Planet:    p,
		Renderer:  r,
		Direction: dir,
		From:      from,
		To:        *flagTo,
		Steps:     *flagSteps,
		Rounds:    *flagRounds,
		Settle:    settle,
	}

	start := time.Now()
	if err := d.Run(ctx, func(s sim.Step) { fmt.Println(s) }); err != nil {
		return err
	}

	st := p.Stats()
	fmt.Printf("done in %s: uploads=%d released=%d vertices=%d height=[%.1f, %.1f]\n",
		time.Since(start).Round(time.Millisecond), r.Uploads, r.Released, r.Vertices,
		st.Min()-p.Radius(), st.Max()-p.Radius())

	if *flagLinger && cfg.Metrics.Addr != "" {
		logger.Info("descent finished, serving metrics until interrupted")
		<-ctx.Done()
	}
	return nil
}
