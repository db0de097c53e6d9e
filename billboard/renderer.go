// Package billboard draws point clouds as camera-facing quads. Geometry and
// distance fading are derived on the GPU from one position buffer and one
// packed color buffer, uploaded once per cloud.
package billboard

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gekko3d/pointcloud/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"golang.org/x/image/colornames"
)

// ErrConfiguration is returned by Enable when the renderer lacks a program,
// a host, a device or points to draw.
var ErrConfiguration = errors.New("billboard: configuration error")

// FrameParams are the per-camera values pushed before each draw.
type FrameParams struct {
	Forward   mgl32.Vec3
	Right     mgl32.Vec3
	Up        mgl32.Vec3
	Position  mgl32.Vec3
	PointSize float32
	Fade      FadeDistances
}

// Apply writes the parameters to p.
func (fp FrameParams) Apply(p Program) {
	p.SetVec3(PropCamForward, fp.Forward)
	p.SetVec3(PropCamRight, fp.Right)
	p.SetVec3(PropCamUp, fp.Up)
	p.SetVec3(PropCamPos, fp.Position)
	p.SetFloat(PropPointSize, fp.PointSize)
	p.SetFloat(PropFadeBuffer, fp.Fade.FadeBuffer)
	p.SetFloat(PropUnlitStart, fp.Fade.UnlitStart)
	p.SetFloat(PropUnlitEnd, fp.Fade.UnlitEnd)
}

// Renderer owns the GPU buffers for one point cloud. It is Disabled until a
// successful Enable and goes back to Disabled on Disable or a failed Enable.
// All methods are meant to be called from the render thread.
type Renderer struct {
	id     uuid.UUID
	device Device
	host   Host
	log    core.Logger
	cfg    Config

	cloud core.PointCloud

	posBuf     Buffer
	colBuf     Buffer
	count      int
	enabled    bool
	registered bool
}

func NewRenderer(device Device, host Host, cfg Config, log core.Logger) *Renderer {
	return &Renderer{
		id:     uuid.New(),
		device: device,
		host:   host,
		log:    core.OrNop(log),
		cfg:    cfg,
	}
}

func (r *Renderer) ID() uuid.UUID { return r.id }

func (r *Renderer) Enabled() bool { return r.enabled }

// Count is the number of uploaded points, zero while disabled.
func (r *Renderer) Count() int { return r.count }

// Settings returns a copy of the current configuration.
func (r *Renderer) Settings() Config { return r.cfg }

// SetCloud hands the renderer the cloud to upload on the next Enable. The
// renderer takes ownership; callers must not modify pc afterwards.
func (r *Renderer) SetCloud(pc core.PointCloud) {
	r.cloud = pc
}

func (r *Renderer) SetPointSize(size float32) {
	r.cfg.PointSize = size
}

func (r *Renderer) SetFade(f FadeDistances) {
	if f.Inverted() {
		r.log.Warnf("fade distances inverted: unlit start %.2f > unlit end %.2f", f.UnlitStart, f.UnlitEnd)
	}
	r.cfg.Fade = f
}

func (r *Renderer) SetLayer(layer uint) {
	r.cfg.Layer = layer
}

// SetProgram swaps the shading program. An enabled renderer is re-enabled so
// the buffers get bound to the new program.
func (r *Renderer) SetProgram(p Program) error {
	wasEnabled := r.enabled
	if wasEnabled {
		r.Disable()
	}
	r.cfg.Program = p
	if wasEnabled {
		return r.Enable()
	}
	return nil
}

func debugCloud() core.PointCloud {
	return core.PointCloud{
		Positions: []mgl32.Vec3{{0, 0, 0}},
		Colors:    []color.RGBA{colornames.Red},
	}
}

// Enable uploads the current cloud and registers with the host. An already
// enabled renderer is disabled first, so buffers are always released before
// new ones are allocated. On failure the error is logged, the renderer stays
// disabled and no buffers remain allocated.
func (r *Renderer) Enable() error {
	if r.enabled {
		r.Disable()
	}

	if err := r.checkConfig(); err != nil {
		r.log.Errorf("billboards not enabled: %v", err)
		return err
	}

	cloud := r.cloud
	if cloud.Empty() && r.cfg.DebugPoint {
		r.log.Debugf("no points set, using debug point")
		cloud = debugCloud()
	}

	count := cloud.Len()
	if err := checkCount(count); err != nil {
		r.log.Errorf("billboards not enabled: %v", err)
		return err
	}
	if r.cfg.Fade.Inverted() {
		r.log.Warnf("fade distances inverted: unlit start %.2f > unlit end %.2f", r.cfg.Fade.UnlitStart, r.cfg.Fade.UnlitEnd)
	}

	if err := r.upload(cloud, count); err != nil {
		r.log.Errorf("billboards not enabled: %v", err)
		return err
	}

	prog := r.cfg.Program
	prog.SetBuffer(PropPositions, r.posBuf)
	prog.SetBuffer(PropColors, r.colBuf)
	prog.SetUint(PropCount, uint32(count))

	r.count = count
	r.enabled = true
	r.host.AddCameraRenderer(r)
	r.registered = true

	r.log.Infof("billboards enabled: count=%d", count)
	return nil
}

func checkCount(count int) error {
	switch {
	case count == 0:
		return fmt.Errorf("%w: positions/colors not set", ErrConfiguration)
	case count > MaxPoints:
		return fmt.Errorf("%w: %d points exceeds the %d point draw limit", ErrConfiguration, count, MaxPoints)
	}
	return nil
}

func (r *Renderer) checkConfig() error {
	switch {
	case r.cfg.Program == nil:
		return fmt.Errorf("%w: missing shading program", ErrConfiguration)
	case r.device == nil:
		return fmt.Errorf("%w: missing device", ErrConfiguration)
	case r.host == nil:
		return fmt.Errorf("%w: missing render host", ErrConfiguration)
	}
	return nil
}

// upload allocates both buffers and writes them. Either both buffers end up
// owned by r or neither does.
func (r *Renderer) upload(cloud core.PointCloud, count int) (err error) {
	var posBuf, colBuf Buffer
	defer func() {
		if err != nil {
			releaseBuffer(&posBuf)
			releaseBuffer(&colBuf)
		}
	}()

	label := r.id.String()[:8]
	posBuf, err = r.device.NewBuffer("billboard-positions-"+label, count, positionStride)
	if err != nil {
		return fmt.Errorf("allocate position buffer: %w", err)
	}
	colBuf, err = r.device.NewBuffer("billboard-colors-"+label, count, colorStride)
	if err != nil {
		return fmt.Errorf("allocate color buffer: %w", err)
	}

	if err = posBuf.Write(encodePositions(cloud.Positions, count)); err != nil {
		return fmt.Errorf("upload positions: %w", err)
	}
	if err = colBuf.Write(encodeColors(cloud.Colors, count)); err != nil {
		return fmt.Errorf("upload colors: %w", err)
	}

	r.posBuf, r.colBuf = posBuf, colBuf
	return nil
}

func releaseBuffer(b *Buffer) {
	if *b != nil {
		(*b).Release()
		*b = nil
	}
}

// Disable unregisters from the host and releases the buffers. It is safe to
// call at any time, any number of times.
func (r *Renderer) Disable() {
	if r.registered {
		r.host.RemoveCameraRenderer(r)
		r.registered = false
	}
	if r.enabled && r.cfg.Program != nil {
		r.cfg.Program.SetBuffer(PropPositions, nil)
		r.cfg.Program.SetBuffer(PropColors, nil)
		r.cfg.Program.SetUint(PropCount, 0)
	}
	releaseBuffer(&r.posBuf)
	releaseBuffer(&r.colBuf)
	r.count = 0
	r.enabled = false
}

// FrameParams derives the values pushed for cam.
func (r *Renderer) FrameParams(cam *core.Camera) FrameParams {
	return FrameParams{
		Forward:   cam.Forward(),
		Right:     cam.Right(),
		Up:        cam.Up(),
		Position:  cam.Position,
		PointSize: r.cfg.PointSize,
		Fade:      r.cfg.Fade,
	}
}

// RenderCamera pushes camera uniforms and issues one procedural draw of six
// vertices per point. It does nothing while disabled, for cameras that
// cannot see the renderer's layer, and for editor cameras when configured
// to skip them.
func (r *Renderer) RenderCamera(dc DrawContext, cam *core.Camera) {
	prog := r.cfg.Program
	if !r.enabled || prog == nil || r.count == 0 || dc == nil || cam == nil {
		return
	}
	if !cam.Sees(r.cfg.Layer) {
		return
	}
	if r.cfg.SkipEditorCameras && cam.Kind == core.CameraEditor {
		return
	}

	r.FrameParams(cam).Apply(prog)

	bounds := core.CubeAABB(mgl32.Vec3{}, cullBoundsSize)
	dc.DrawProcedural(prog, bounds, uint32(vertsPerPoint*r.count), 1)
}
