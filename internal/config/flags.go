package config

import "flag"

var (
	flagConfig      = flag.String("config", "", "Path to config file")
	flagDebug       = flag.Bool("debug", false, "Enable debug logging")
	flagGrid        = flag.Int("grid", 0, "Quads per patch edge")
	flagMinSpacing  = flag.Float64("min-spacing", 0, "Minimum vertex spacing in metres")
	flagMaxSpacing  = flag.Float64("max-spacing", 0, "Maximum vertex spacing in metres")
	flagNoHorizon   = flag.Bool("no-horizon", false, "Disable horizon culling")
	flagWorkers     = flag.Int("workers", 0, "Generation workers (0 = one per CPU)")
	flagPlanet      = flag.String("planet", "", "Planet kind: terran or barren")
	flagSeed        = flag.Int64("seed", 0, "Surface noise seed")
	flagWindowed    = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen  = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth       = flag.Int("width", 0, "Window width")
	flagHeight      = flag.Int("height", 0, "Window height")
	flagWireframe   = flag.Bool("wireframe", false, "Draw patches as wireframe")
	flagMetricsAddr = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	flagSaveConfig  = flag.String("save-config", "", "Write the effective config to this path and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// SavePath returns the --save-config destination, if any.
func SavePath() string {
	return *flagSaveConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagGrid > 0 {
		cfg.Terrain.GridResolution = *flagGrid
	}
	if *flagMinSpacing > 0 {
		cfg.Terrain.MinVertexSpacing = *flagMinSpacing
	}
	if *flagMaxSpacing > 0 {
		cfg.Terrain.MaxVertexSpacing = *flagMaxSpacing
	}
	if *flagNoHorizon {
		cfg.Terrain.HorizonCulling = false
	}
	if *flagWorkers > 0 {
		cfg.Terrain.Workers = *flagWorkers
	}
	if *flagPlanet != "" {
		cfg.Planet.Kind = *flagPlanet
	}
	if *flagSeed != 0 {
		cfg.Planet.Seed = *flagSeed
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagWireframe {
		cfg.Graphics.Wireframe = true
	}
	if *flagMetricsAddr != "" {
		cfg.Metrics.Addr = *flagMetricsAddr
	}
}
