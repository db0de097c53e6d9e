package gpu

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"

	"github.com/gekko3d/pointcloud/billboard"
	"github.com/gekko3d/pointcloud/core"
)

// Host dispatches registered camera renderers for every camera of a frame.
// Each camera gets its own command encoder and submit, so per-camera uniform
// writes land before that camera's draws.
type Host struct {
	Device *wgpu.Device
	Queue  *wgpu.Queue
	Log    core.Logger

	ClearColor wgpu.Color

	mu        sync.Mutex
	renderers map[uuid.UUID]billboard.CameraRenderer
	order     []uuid.UUID

	// Stats from the last RenderCameras call.
	Drawn  int
	Culled int
}

func NewHost(device *wgpu.Device, log core.Logger) *Host {
	return &Host{
		Device:     device,
		Queue:      device.GetQueue(),
		Log:        core.OrNop(log),
		ClearColor: wgpu.Color{R: 0.02, G: 0.02, B: 0.03, A: 1},
		renderers:  make(map[uuid.UUID]billboard.CameraRenderer),
	}
}

// AddCameraRenderer registers r. Adding an already registered renderer is a no-op.
func (h *Host) AddCameraRenderer(r billboard.CameraRenderer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.renderers == nil {
		h.renderers = make(map[uuid.UUID]billboard.CameraRenderer)
	}
	id := r.ID()
	if _, ok := h.renderers[id]; ok {
		return
	}
	h.renderers[id] = r
	h.order = append(h.order, id)
}

func (h *Host) RemoveCameraRenderer(r billboard.CameraRenderer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := r.ID()
	if _, ok := h.renderers[id]; !ok {
		return
	}
	delete(h.renderers, id)
	for i, other := range h.order {
		if other == id {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// Renderers returns the registered renderers in registration order.
func (h *Host) Renderers() []billboard.CameraRenderer {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]billboard.CameraRenderer, 0, len(h.order))
	for _, id := range h.order {
		out = append(out, h.renderers[id])
	}
	return out
}

// viewportPixels converts a normalized camera viewport to pixels.
func viewportPixels(vp [4]float32, width, height uint32) (x, y, w, h float32) {
	fw, fh := float32(width), float32(height)
	return vp[0] * fw, vp[1] * fh, vp[2] * fw, vp[3] * fh
}

// RenderCameras draws every camera into target, in order. The first camera
// clears the target; later cameras draw over it inside their viewport.
func (h *Host) RenderCameras(target *wgpu.TextureView, width, height uint32, cams []*core.Camera) error {
	h.Drawn, h.Culled = 0, 0
	renderers := h.Renderers()

	for i, cam := range cams {
		if cam == nil {
			continue
		}
		x, y, w, hh := viewportPixels(cam.Viewport, width, height)
		if w < 1 || hh < 1 {
			continue
		}

		encoder, err := h.Device.CreateCommandEncoder(nil)
		if err != nil {
			return fmt.Errorf("camera %s: create encoder: %w", cam.Name, err)
		}

		loadOp := wgpu.LoadOpLoad
		if i == 0 {
			loadOp = wgpu.LoadOpClear
		}
		pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
			ColorAttachments: []wgpu.RenderPassColorAttachment{{
				View:       target,
				LoadOp:     loadOp,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: h.ClearColor,
			}},
		})
		pass.SetViewport(x, y, w, hh, 0, 1)

		dc := newDrawContext(pass, cam)
		for _, r := range renderers {
			r.RenderCamera(dc, cam)
		}
		h.Drawn += dc.drawn
		h.Culled += dc.culled

		if err := pass.End(); err != nil {
			h.Log.Errorf("camera %s: render pass End failed: %v", cam.Name, err)
		}
		cmd, err := encoder.Finish(nil)
		if err != nil {
			return fmt.Errorf("camera %s: encoder finish: %w", cam.Name, err)
		}
		h.Queue.Submit(cmd)
		if dc.err != nil {
			return fmt.Errorf("camera %s: %w", cam.Name, dc.err)
		}
	}
	return nil
}

// drawContext records draws for one camera pass. Bounds are tested against
// the camera frustum before the program is invoked.
type drawContext struct {
	pass     *wgpu.RenderPassEncoder
	viewProj mgl32.Mat4
	planes   [6]mgl32.Vec4

	drawn  int
	culled int
	err    error
}

func newDrawContext(pass *wgpu.RenderPassEncoder, cam *core.Camera) *drawContext {
	vp := cam.ViewProjection()
	return &drawContext{
		pass:     pass,
		viewProj: vp,
		planes:   cam.ExtractFrustum(vp),
	}
}

func (dc *drawContext) visible(bounds [2]mgl32.Vec3) bool {
	return core.AABBInFrustum(bounds, dc.planes)
}

func (dc *drawContext) DrawProcedural(p billboard.Program, bounds [2]mgl32.Vec3, vertexCount, instanceCount uint32) {
	if !dc.visible(bounds) {
		dc.culled++
		return
	}
	prog, ok := p.(*Program)
	if !ok {
		dc.err = fmt.Errorf("program is %T, not a gpu program", p)
		return
	}
	if err := prog.draw(dc.pass, dc.viewProj, vertexCount, instanceCount); err != nil {
		dc.err = err
		return
	}
	dc.drawn++
}
