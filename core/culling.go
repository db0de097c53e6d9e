package core

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CubeAABB returns an axis-aligned box of the given edge length around center.
func CubeAABB(center mgl32.Vec3, size float32) [2]mgl32.Vec3 {
	h := size * 0.5
	ext := mgl32.Vec3{h, h, h}
	return [2]mgl32.Vec3{center.Sub(ext), center.Add(ext)}
}

// AABBInFrustum checks if an AABB is visible within the frustum defined by 6 planes.
// Planes are expected to be in Ax+By+Cz+D=0 form, with the normal pointing INSIDE.
func AABBInFrustum(aabb [2]mgl32.Vec3, planes [6]mgl32.Vec4) bool {
	for i := 0; i < 6; i++ {
		plane := planes[i]
		// Take the corner furthest along the normal; if even that one is
		// behind the plane, the whole box is outside.
		var p mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if plane[axis] > 0 {
				p[axis] = aabb[1][axis]
			} else {
				p[axis] = aabb[0][axis]
			}
		}

		dist := plane[0]*p[0] + plane[1]*p[1] + plane[2]*p[2] + plane[3]
		if dist < 0 {
			return false
		}
	}
	return true
}
