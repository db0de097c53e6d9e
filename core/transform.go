package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a local TRS transform with an optional parent. World values
// are composed on demand by walking the parent chain.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
	Parent   *Transform
}

func NewTransform() *Transform {
	return &Transform{
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// WorldPosition is ParentPos + ParentRot * (ParentScale * LocalPos),
// applied up the chain. A nil transform sits at the origin.
func (t *Transform) WorldPosition() mgl32.Vec3 {
	if t == nil {
		return mgl32.Vec3{}
	}
	if t.Parent == nil {
		return t.Position
	}
	ps := t.Parent.WorldScale()
	scaled := mgl32.Vec3{
		t.Position.X() * ps.X(),
		t.Position.Y() * ps.Y(),
		t.Position.Z() * ps.Z(),
	}
	return t.Parent.WorldPosition().Add(t.Parent.WorldRotation().Rotate(scaled))
}

func (t *Transform) WorldRotation() mgl32.Quat {
	if t == nil {
		return mgl32.QuatIdent()
	}
	if t.Parent == nil {
		return t.Rotation
	}
	return t.Parent.WorldRotation().Mul(t.Rotation).Normalize()
}

func (t *Transform) WorldScale() mgl32.Vec3 {
	if t == nil {
		return mgl32.Vec3{1, 1, 1}
	}
	if t.Parent == nil {
		return t.Scale
	}
	ps := t.Parent.WorldScale()
	return mgl32.Vec3{
		ps.X() * t.Scale.X(),
		ps.Y() * t.Scale.Y(),
		ps.Z() * t.Scale.Z(),
	}
}

func (t *Transform) ObjectToWorld() mgl32.Mat4 {
	// M = T * R * S
	p, s := t.WorldPosition(), t.WorldScale()
	translate := mgl32.Translate3D(p.X(), p.Y(), p.Z())
	rotate := t.WorldRotation().Mat4()
	scale := mgl32.Scale3D(s.X(), s.Y(), s.Z())

	return translate.Mul4(rotate).Mul4(scale)
}
