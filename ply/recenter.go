package ply

import (
	"github.com/gekko3d/pointcloud/core"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"
)

// BoundsCenter is the midpoint of the cloud's axis-aligned bounding box.
func BoundsCenter(pc core.PointCloud) mgl32.Vec3 {
	if len(pc.Positions) == 0 {
		return mgl32.Vec3{}
	}
	axis := make([]float64, len(pc.Positions))
	var center mgl32.Vec3
	for a := 0; a < 3; a++ {
		for i, p := range pc.Positions {
			axis[i] = float64(p[a])
		}
		center[a] = float32((floats.Min(axis) + floats.Max(axis)) / 2)
	}
	return center
}

// Recenter returns a copy of pc translated so its bounding-box center sits
// at the origin, along with the center that was removed.
func Recenter(pc core.PointCloud) (core.PointCloud, mgl32.Vec3) {
	center := BoundsCenter(pc)
	out := pc.Transform(func(p mgl32.Vec3) mgl32.Vec3 { return p.Sub(center) })
	return out, center
}
