package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CameraKind distinguishes cameras that show the scene to a viewer from
// tooling cameras (inspectors, minimaps) that renderers may choose to skip.
type CameraKind int

const (
	CameraGame CameraKind = iota
	CameraEditor
)

// AllLayers is a culling mask that sees every layer.
const AllLayers uint32 = 0xFFFFFFFF

// Camera is a Y-up fly camera. Yaw and Pitch are in degrees.
type Camera struct {
	Name     string
	Kind     CameraKind
	Position mgl32.Vec3
	Yaw      float32
	Pitch    float32

	FovY   float32
	Aspect float32
	Near   float32
	Far    float32

	// CullingMask has bit N set when layer N is visible to this camera.
	CullingMask uint32

	// Viewport is the normalized target rectangle: x, y, width, height.
	Viewport [4]float32

	Speed       float32
	Sensitivity float32
}

func NewCamera(name string) *Camera {
	return &Camera{
		Name:        name,
		Kind:        CameraGame,
		Position:    mgl32.Vec3{0, 2, 20},
		FovY:        60,
		Aspect:      16.0 / 9.0,
		Near:        0.1,
		Far:         10000,
		CullingMask: AllLayers,
		Viewport:    [4]float32{0, 0, 1, 1},
		Speed:       5.0,
		Sensitivity: 0.1,
	}
}

// Sees reports whether the camera's culling mask includes layer.
func (c *Camera) Sees(layer uint) bool {
	if layer > 31 {
		return false
	}
	return c.CullingMask&(1<<layer) != 0
}

func (c *Camera) Forward() mgl32.Vec3 {
	yawRad := float64(mgl32.DegToRad(c.Yaw))
	pitchRad := float64(mgl32.DegToRad(c.Pitch))
	return mgl32.Vec3{
		float32(math.Sin(yawRad) * math.Cos(pitchRad)),
		float32(math.Sin(pitchRad)),
		float32(-math.Cos(yawRad) * math.Cos(pitchRad)),
	}.Normalize()
}

func (c *Camera) Right() mgl32.Vec3 {
	return c.Forward().Cross(mgl32.Vec3{0, 1, 0}).Normalize()
}

// Up is the camera-space up vector; it tilts with pitch, unlike world up.
func (c *Camera) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward()).Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	eye := c.Position
	return mgl32.LookAtV(eye, eye.Add(c.Forward()), c.Up())
}

func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// LookAt points the camera at target by solving yaw and pitch.
func (c *Camera) LookAt(target mgl32.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() < 1e-6 {
		return
	}
	dir = dir.Normalize()
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(dir.Y()))))
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(dir.X()), float64(-dir.Z()))))
	c.clampPitch()
}

// Fly applies one frame of fly-camera control. move is (right, up, forward)
// intent in [-1,1]; look is the mouse delta in pixels.
func (c *Camera) Fly(move mgl32.Vec3, look mgl32.Vec2, dt float32) {
	if dt <= 0 {
		return
	}
	if c.Sensitivity == 0 {
		c.Sensitivity = 0.1
	}
	if c.Speed == 0 {
		c.Speed = 5.0
	}

	c.Yaw += look[0] * c.Sensitivity
	c.Pitch -= look[1] * c.Sensitivity
	c.clampPitch()

	forward := c.Forward()
	right := c.Right()
	up := mgl32.Vec3{0, 1, 0}

	moveDir := right.Mul(move[0]).Add(up.Mul(move[1])).Add(forward.Mul(move[2]))
	if moveDir.Len() > 0 {
		c.Position = c.Position.Add(moveDir.Normalize().Mul(c.Speed * dt))
	}
}

func (c *Camera) clampPitch() {
	if c.Pitch > 89.0 {
		c.Pitch = 89.0
	}
	if c.Pitch < -89.0 {
		c.Pitch = -89.0
	}
}

// ExtractFrustum extracts the 6 planes of the frustum from the view-projection matrix.
// Returns planes in order: Left, Right, Bottom, Top, Near, Far.
// Plane is Ax + By + Cz + D = 0.
func (c *Camera) ExtractFrustum(vp mgl32.Mat4) [6]mgl32.Vec4 {
	var planes [6]mgl32.Vec4

	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{vp.At(r, 0), vp.At(r, 1), vp.At(r, 2), vp.At(r, 3)}
	}
	r0, r1, r2, r3 := row(0), row(1), row(2), row(3)

	planes[0] = r3.Add(r0) // Left
	planes[1] = r3.Sub(r0) // Right
	planes[2] = r3.Add(r1) // Bottom
	planes[3] = r3.Sub(r1) // Top
	planes[4] = r3.Add(r2) // Near (OpenGL-style -1..1)
	planes[5] = r3.Sub(r2) // Far

	for i := 0; i < 6; i++ {
		length := float32(math.Sqrt(float64(planes[i][0]*planes[i][0] + planes[i][1]*planes[i][1] + planes[i][2]*planes[i][2])))
		if length > 0 {
			planes[i] = planes[i].Mul(1.0 / length)
		}
	}

	return planes
}
