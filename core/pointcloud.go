package core

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// PointSample is one point of a cloud.
type PointSample struct {
	Position mgl32.Vec3
	Color    color.RGBA
}

// PointCloud stores samples as parallel arrays; Positions[i] pairs with Colors[i].
type PointCloud struct {
	Positions []mgl32.Vec3
	Colors    []color.RGBA
}

// NewPointCloud allocates an empty cloud with room for capacity samples.
func NewPointCloud(capacity int) PointCloud {
	return PointCloud{
		Positions: make([]mgl32.Vec3, 0, capacity),
		Colors:    make([]color.RGBA, 0, capacity),
	}
}

// Append adds one sample to both arrays.
func (pc *PointCloud) Append(s PointSample) {
	pc.Positions = append(pc.Positions, s.Position)
	pc.Colors = append(pc.Colors, s.Color)
}

// Len is the number of complete pairs.
func (pc PointCloud) Len() int {
	return min(len(pc.Positions), len(pc.Colors))
}

func (pc PointCloud) Empty() bool {
	return len(pc.Positions) == 0 && len(pc.Colors) == 0
}

func (pc PointCloud) At(i int) PointSample {
	return PointSample{Position: pc.Positions[i], Color: pc.Colors[i]}
}

// Bounds returns the min and max corners of the positions. An empty cloud
// yields a zero box.
func (pc PointCloud) Bounds() [2]mgl32.Vec3 {
	if len(pc.Positions) == 0 {
		return [2]mgl32.Vec3{}
	}
	lo, hi := pc.Positions[0], pc.Positions[0]
	for _, p := range pc.Positions[1:] {
		for axis := 0; axis < 3; axis++ {
			lo[axis] = min(lo[axis], p[axis])
			hi[axis] = max(hi[axis], p[axis])
		}
	}
	return [2]mgl32.Vec3{lo, hi}
}

// Transform returns a copy of the cloud with every position mapped through fn.
// Colors are shared, not copied.
func (pc PointCloud) Transform(fn func(mgl32.Vec3) mgl32.Vec3) PointCloud {
	out := PointCloud{
		Positions: make([]mgl32.Vec3, len(pc.Positions)),
		Colors:    pc.Colors,
	}
	for i, p := range pc.Positions {
		out.Positions[i] = fn(p)
	}
	return out
}
