// Package viewer implements the interactive planet viewer loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/planet-terrain/internal/config"
	"github.com/Faultbox/planet-terrain/internal/engine/camera"
	"github.com/Faultbox/planet-terrain/internal/engine/input"
	"github.com/Faultbox/planet-terrain/internal/engine/renderer"
	"github.com/Faultbox/planet-terrain/internal/engine/scene"
	"github.com/Faultbox/planet-terrain/internal/engine/window"
	"github.com/Faultbox/planet-terrain/internal/logger"
	"github.com/Faultbox/planet-terrain/internal/planet"
	"github.com/Faultbox/planet-terrain/internal/workers"
)

// Viewer owns the window, GL state, worker pool and planet.
type Viewer struct {
	cfg      *config.Config
	log      *zap.Logger
	running  bool
	grabbed  bool
	window   *window.Window
	renderer *renderer.Renderer
	patches  *scene.PatchRenderer
	input    *input.Input
	camera   *camera.FlyCamera
	pool     *workers.Pool
	planet   *planet.Planet
}

// New creates the window and GL context, then the planet whose root tiles
// start building right away.
func New(cfg *config.Config) (*Viewer, error) {
	v := &Viewer{cfg: cfg, log: logger.Named("viewer")}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
	)

	var err error
	// Window first: it creates the GL context the renderer needs.
	v.window, err = window.New(window.Config{
		Title:      "planet-terrain: " + cfg.Planet.Name,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		Samples:    cfg.Graphics.MSAA,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := v.window.GetSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:     w,
		Height:    h,
		Wireframe: cfg.Graphics.Wireframe,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.patches, err = scene.NewPatchRenderer()
	if err != nil {
		v.Close()
		return nil, err
	}

	v.pool = workers.New(cfg.Terrain.Workers)
	if cfg.Metrics.Addr != "" {
		if err := v.pool.RegisterMetrics(); err != nil {
			v.log.Warn("pool metrics unavailable", zap.Error(err))
		}
	}

	v.planet, err = planet.New(cfg.Planet, cfg.TerrainOptions(), v.pool)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create planet: %w", err)
	}
	if cfg.Metrics.Addr != "" {
		if err := v.planet.RegisterMetrics(); err != nil {
			v.log.Warn("planet metrics unavailable", zap.Error(err))
		}
	}

	center := v.planet.Position()
	start := center.Add(mgl64.Vec3{0, 0, cfg.Planet.Radius + cfg.Camera.StartAltitude})
	v.camera = camera.NewFlyCamera(start)
	v.camera.FOV = cfg.Camera.FOV
	v.camera.Speed = cfg.Camera.Speed
	v.camera.MouseSensitivity = cfg.Camera.MouseSensitivity
	v.camera.LookAt(center, mgl64.Vec3{0, 1, 0})

	v.input = input.New()

	v.log.Info("viewer initialized", zap.Int("workers", v.pool.Size()))
	return v, nil
}

// Run starts the main loop and returns when the window closes.
func (v *Viewer) Run() error {
	v.running = true
	v.setGrab(true)

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var minFrame time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		v.update(dt)
		drawn := v.render()

		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.showStats(frameCount, drawn)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if spent := time.Since(now); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}

	return nil
}

func (v *Viewer) handleEvents() {
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			w, h := v.window.GetSize()
			v.renderer.Resize(w, h)
		case input.EventKeyDown:
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F11:
				v.window.SetFullscreen(!v.window.Fullscreen())
			case sdl.SCANCODE_F1:
				v.renderer.SetWireframe(!v.renderer.Wireframe())
			case sdl.SCANCODE_H:
				on := !v.planet.Tree().Options().HorizonCulling
				v.planet.Tree().SetHorizonCulling(on)
				v.log.Info("horizon culling", zap.Bool("enabled", on))
			case sdl.SCANCODE_TAB:
				v.setGrab(!v.grabbed)
			case sdl.SCANCODE_F2:
				if logger.Level() == "debug" {
					logger.SetLevel(v.cfg.Logging.Level)
				} else {
					logger.SetLevel("debug")
				}
			}
		case input.EventMouseWheel:
			v.camera.HandleZoom(event.Wheel)
		}
	}
}

func (v *Viewer) setGrab(on bool) {
	v.grabbed = on
	v.window.SetMouseGrab(on)
}

func (v *Viewer) update(dt float64) {
	if v.grabbed {
		dx, dy := v.input.MouseDelta()
		v.camera.HandleMouse(float64(dx), float64(dy))
	}
	v.camera.HandleRoll(v.input.Axis(sdl.SCANCODE_E, sdl.SCANCODE_Q), dt)

	alt := v.planet.Altitude(v.camera.Position)
	v.camera.HandleMovement(
		v.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S),
		v.input.Axis(sdl.SCANCODE_D, sdl.SCANCODE_A),
		v.input.Axis(sdl.SCANCODE_SPACE, sdl.SCANCODE_LCTRL),
		dt, alt)

	v.planet.Update(dt, v.camera.Position)
}

// render draws one frame and returns the number of patches drawn.
func (v *Viewer) render() int {
	alt := v.planet.Altitude(v.camera.Position)
	near, far := camera.ClipPlanes(alt, v.planet.Radius())

	v.renderer.Begin()
	v.patches.Begin(scene.View{
		Position: v.camera.Position,
		ViewProj: v.camera.ViewProjection(v.renderer.Aspect(), near, far),
		FogFar:   far,
	})
	fs := v.planet.Draw(v.patches, v.camera.Position)
	v.renderer.End()

	return fs.Drawn
}

func (v *Viewer) showStats(fps, drawn int) {
	ts := v.planet.Tree().Stats()
	alt := v.planet.Altitude(v.camera.Position)
	v.window.SetTitle(fmt.Sprintf("planet-terrain: %s | %d fps | alt %.0f m | drawn %d | nodes %d | depth %d | building %d",
		v.planet.Name, fps, alt, drawn, ts.Nodes, ts.MaxDepth, ts.Generating))
	v.log.Debug("frame",
		zap.Int("fps", fps),
		zap.Float64("altitude", alt),
		zap.Int("drawn", drawn),
		zap.Int("nodes", ts.Nodes),
		zap.Int("resident", v.patches.Resident()),
		zap.Int("triangles", v.patches.Triangles()),
		zap.Int64("busy_workers", v.pool.Running()),
	)
}

// Close releases everything in reverse creation order.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.planet != nil {
		v.planet.Close()
	}
	if v.pool != nil {
		v.pool.Close()
	}
	if v.patches != nil {
		v.patches.Close()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
