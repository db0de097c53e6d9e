// Package pointcloud loads ASCII PLY point clouds into a billboard renderer
// and keeps them fresh as the source file changes.
package pointcloud

import (
	"errors"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/pointcloud/core"
	"github.com/gekko3d/pointcloud/ply"
)

// ErrNoTarget is returned by Reload when the loader has no renderer.
var ErrNoTarget = errors.New("pointcloud: no render target")

// Target is the renderer a Loader feeds. *billboard.Renderer implements it.
type Target interface {
	SetCloud(pc core.PointCloud)
	Disable()
	Enable() error
}

type ReloadRequest struct {
	Path      string
	Stride    int
	MaxPoints int
	Scale     float32
	Offset    mgl32.Vec3

	// Recenter moves the cloud's bounding-box center to the origin before
	// scaling.
	Recenter bool
}

// Loader turns reload requests into uploads. Parent places the cloud in the
// world; a nil Parent sits at the origin.
type Loader struct {
	Renderer Target
	Parent   *core.Transform
	Log      core.Logger
}

// Place maps a parsed position into world space:
// p*scale + parent world position + offset.
func (l *Loader) Place(p mgl32.Vec3, scale float32, offset mgl32.Vec3) mgl32.Vec3 {
	return placer(l.Parent, scale, offset)(p)
}

// placer resolves the parent chain once and returns the per-point mapping.
func placer(parent *core.Transform, scale float32, offset mgl32.Vec3) func(mgl32.Vec3) mgl32.Vec3 {
	base := parent.WorldPosition().Add(offset)
	return func(p mgl32.Vec3) mgl32.Vec3 {
		return p.Mul(scale).Add(base)
	}
}

// Reload parses req.Path, places the points and swaps them into the
// renderer. It returns the number of points uploaded.
//
// Parse errors are returned unchanged and leave the renderer untouched, so
// the previous cloud stays on screen.
func (l *Loader) Reload(req ReloadRequest) (int, error) {
	log := core.OrNop(l.Log)
	if l.Renderer == nil {
		return 0, ErrNoTarget
	}

	pc, err := ply.Load(req.Path, ply.Options{Stride: req.Stride, MaxPoints: req.MaxPoints})
	if err != nil {
		log.Errorf("reload %s: %v", req.Path, err)
		return 0, err
	}

	if req.Recenter {
		var center mgl32.Vec3
		pc, center = ply.Recenter(pc)
		log.Debugf("recentered %s by %v", req.Path, center)
	}

	pc = pc.Transform(placer(l.Parent, req.Scale, req.Offset))

	l.Renderer.Disable()
	l.Renderer.SetCloud(pc)
	if err := l.Renderer.Enable(); err != nil {
		return 0, err
	}

	log.Infof("loaded %d points from %s", pc.Len(), req.Path)
	return pc.Len(), nil
}
