package input

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

func key(t uint32, sc sdl.Scancode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: t, Repeat: repeat, Keysym: sdl.Keysym{Scancode: sc}}
}

func TestKeyStateAcrossFrames(t *testing.T) {
	in := New()

	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_W, 0))
	require.True(t, in.IsKeyPressed(sdl.SCANCODE_W))
	require.True(t, in.IsKeyHeld(sdl.SCANCODE_W))

	in.reset()
	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_W, 1))
	require.False(t, in.IsKeyPressed(sdl.SCANCODE_W), "auto-repeat is not a fresh press")
	require.True(t, in.IsKeyHeld(sdl.SCANCODE_W))
	require.Equal(t, 1.0, in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S))

	in.handle(key(sdl.KEYDOWN, sdl.SCANCODE_S, 0))
	require.Equal(t, 0.0, in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S))

	in.handle(key(sdl.KEYUP, sdl.SCANCODE_W, 0))
	require.False(t, in.IsKeyHeld(sdl.SCANCODE_W))
	require.Equal(t, -1.0, in.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S))
}

func TestMouseAccumulation(t *testing.T) {
	in := New()
	in.handle(&sdl.MouseMotionEvent{XRel: 3, YRel: -2})
	in.handle(&sdl.MouseMotionEvent{XRel: 4, YRel: 1})
	in.handle(&sdl.MouseWheelEvent{Y: 2})

	dx, dy := in.MouseDelta()
	require.Equal(t, 7, dx)
	require.Equal(t, -1, dy)
	require.Equal(t, 2, in.Wheel())
	require.Len(t, in.Events(), 3)

	in.reset()
	dx, dy = in.MouseDelta()
	require.Zero(t, dx)
	require.Zero(t, dy)
	require.Zero(t, in.Wheel())
	require.Empty(t, in.Events())
}

func TestQuitAndResize(t *testing.T) {
	in := New()
	in.handle(&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600})
	require.False(t, in.quit)
	in.handle(&sdl.QuitEvent{})
	require.True(t, in.quit)

	ev := in.Events()
	require.Equal(t, EventWindowResize, ev[0].Type)
	require.Equal(t, 800, ev[0].Width)
	require.Equal(t, 600, ev[0].Height)
	require.Equal(t, EventQuit, ev[1].Type)
}
