package app

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// watchedKeys are polled every frame.
var watchedKeys = []glfw.Key{
	glfw.KeyW, glfw.KeyA, glfw.KeyS, glfw.KeyD,
	glfw.KeySpace, glfw.KeyLeftControl,
	glfw.KeyLeftShift,
	glfw.KeyTab, glfw.KeyEscape,
	glfw.KeyR, glfw.KeyP,
	glfw.KeyEqual, glfw.KeyKPAdd,
	glfw.KeyMinus, glfw.KeyKPSubtract,
	glfw.Key0, glfw.KeyKP0,
}

// Input is the per-frame keyboard and mouse state.
type Input struct {
	Pressed      map[glfw.Key]bool
	JustPressed  map[glfw.Key]bool
	JustReleased map[glfw.Key]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseCaptured            bool

	mouseSeen bool
}

func NewInput() *Input {
	return &Input{
		Pressed:      make(map[glfw.Key]bool),
		JustPressed:  make(map[glfw.Key]bool),
		JustReleased: make(map[glfw.Key]bool),
	}
}

// setKey records one frame of key state.
func (in *Input) setKey(key glfw.Key, down bool) {
	in.JustPressed[key] = down && !in.Pressed[key]
	in.JustReleased[key] = !down && in.Pressed[key]
	in.Pressed[key] = down
}

// setMouse records the cursor position; deltas are only reported while the
// mouse is captured.
func (in *Input) setMouse(x, y float64) {
	if in.MouseCaptured && in.mouseSeen {
		in.MouseDeltaX = x - in.MouseX
		in.MouseDeltaY = y - in.MouseY
	} else {
		in.MouseDeltaX, in.MouseDeltaY = 0, 0
	}
	in.MouseX, in.MouseY = x, y
	in.mouseSeen = true
}

// Poll reads the window's current input state.
func (in *Input) Poll(w *glfw.Window) {
	for _, key := range watchedKeys {
		in.setKey(key, w.GetKey(key) == glfw.Press)
	}
	in.setMouse(w.GetCursorPos())
}

// ToggleCapture flips mouse capture and updates the cursor mode.
func (in *Input) ToggleCapture(w *glfw.Window) {
	in.MouseCaptured = !in.MouseCaptured
	in.mouseSeen = false
	if in.MouseCaptured {
		w.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
	} else {
		w.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	}
}

// FlyIntent maps held keys and mouse motion to camera movement:
// move is (right, up, forward), look is the mouse delta.
func (in *Input) FlyIntent() (move mgl32.Vec3, look mgl32.Vec2) {
	if in.Pressed[glfw.KeyW] {
		move[2] += 1
	}
	if in.Pressed[glfw.KeyS] {
		move[2] -= 1
	}
	if in.Pressed[glfw.KeyA] {
		move[0] -= 1
	}
	if in.Pressed[glfw.KeyD] {
		move[0] += 1
	}
	if in.Pressed[glfw.KeySpace] {
		move[1] += 1
	}
	if in.Pressed[glfw.KeyLeftControl] {
		move[1] -= 1
	}
	if in.MouseCaptured {
		look = mgl32.Vec2{float32(in.MouseDeltaX), float32(in.MouseDeltaY)}
	}
	return move, look
}

// anyJustPressed reports whether any of keys went down this frame.
func (in *Input) anyJustPressed(keys ...glfw.Key) bool {
	for _, k := range keys {
		if in.JustPressed[k] {
			return true
		}
	}
	return false
}
