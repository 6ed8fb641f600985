// Package config handles terrain viewer configuration loading and management.
package config

// Config holds all settings.
type Config struct {
	Terrain  TerrainConfig  `yaml:"terrain"`
	Planet   PlanetConfig   `yaml:"planet"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Camera   CameraConfig   `yaml:"camera"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TerrainConfig holds level-of-detail settings.
type TerrainConfig struct {
	GridResolution   int     `yaml:"grid_resolution"`    // quads per patch edge
	MinVertexSpacing float64 `yaml:"min_vertex_spacing"` // metres
	MaxVertexSpacing float64 `yaml:"max_vertex_spacing"` // metres
	HorizonCulling   bool    `yaml:"horizon_culling"`
	Workers          int     `yaml:"workers"` // 0 = one per CPU
}

// PlanetConfig describes the body to render.
type PlanetConfig struct {
	Name          string     `yaml:"name"`
	Kind          string     `yaml:"kind"` // terran or barren
	Radius        float64    `yaml:"radius"`
	TerrainHeight float64    `yaml:"terrain_height"`
	Seed          int64      `yaml:"seed"`
	Position      [3]float64 `yaml:"position"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
	Wireframe  bool `yaml:"wireframe"`
	MSAA       int  `yaml:"msaa"` // samples per pixel, 0 disables
}

// CameraConfig holds fly camera settings.
type CameraConfig struct {
	FOV              float64 `yaml:"fov"`            // vertical, degrees
	StartAltitude    float64 `yaml:"start_altitude"` // metres above the radius
	Speed            float64 `yaml:"speed"`          // fraction of altitude per second
	MouseSensitivity float64 `yaml:"mouse_sensitivity"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"` // empty disables the endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			GridResolution:   16,
			MinVertexSpacing: 1,
			MaxVertexSpacing: 50000,
			HorizonCulling:   true,
			Workers:          0,
		},
		Planet: PlanetConfig{
			Name:          "Terra",
			Kind:          KindTerran,
			Radius:        600000,
			TerrainHeight: 6000,
			Seed:          1337,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			MSAA:       4,
		},
		Camera: CameraConfig{
			FOV:              70,
			StartAltitude:    1200000,
			Speed:            0.5,
			MouseSensitivity: 0.15,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
