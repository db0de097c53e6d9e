package billboard

import (
	"errors"
	"sync"

	"github.com/gekko3d/pointcloud/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type fakeBuffer struct {
	label    string
	count    int
	stride   int
	data     []byte
	released int
	writeErr error
}

func (b *fakeBuffer) Write(data []byte) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *fakeBuffer) Release() { b.released++ }

type fakeDevice struct {
	buffers []*fakeBuffer
	// failAt makes the n-th allocation (1-based) fail.
	failAt   int
	writeErr error
}

var errOutOfMemory = errors.New("out of device memory")

func (d *fakeDevice) NewBuffer(label string, count, stride int) (Buffer, error) {
	if d.failAt > 0 && len(d.buffers)+1 == d.failAt {
		d.failAt = 0
		return nil, errOutOfMemory
	}
	b := &fakeBuffer{label: label, count: count, stride: stride, writeErr: d.writeErr}
	d.buffers = append(d.buffers, b)
	return b, nil
}

// live counts buffers that were allocated and never released.
func (d *fakeDevice) live() int {
	n := 0
	for _, b := range d.buffers {
		if b.released == 0 {
			n++
		}
	}
	return n
}

type fakeProgram struct {
	buffers map[string]Buffer
	uints   map[string]uint32
	floats  map[string]float32
	vecs    map[string]mgl32.Vec3
}

func newFakeProgram() *fakeProgram {
	return &fakeProgram{
		buffers: map[string]Buffer{},
		uints:   map[string]uint32{},
		floats:  map[string]float32{},
		vecs:    map[string]mgl32.Vec3{},
	}
}

func (p *fakeProgram) SetBuffer(name string, buf Buffer) { p.buffers[name] = buf }
func (p *fakeProgram) SetUint(name string, v uint32)     { p.uints[name] = v }
func (p *fakeProgram) SetFloat(name string, v float32)   { p.floats[name] = v }
func (p *fakeProgram) SetVec3(name string, v mgl32.Vec3) { p.vecs[name] = v }

type fakeHost struct {
	mu        sync.Mutex
	renderers map[uuid.UUID]CameraRenderer
	adds      int
	removes   int
}

func newFakeHost() *fakeHost {
	return &fakeHost{renderers: map[uuid.UUID]CameraRenderer{}}
}

func (h *fakeHost) AddCameraRenderer(r CameraRenderer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renderers[r.ID()] = r
	h.adds++
}

func (h *fakeHost) RemoveCameraRenderer(r CameraRenderer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.renderers, r.ID())
	h.removes++
}

// renderFrame invokes every registered renderer once per camera.
func (h *fakeHost) renderFrame(dc DrawContext, cams ...*core.Camera) {
	for _, cam := range cams {
		for _, r := range h.renderers {
			r.RenderCamera(dc, cam)
		}
	}
}

type drawCall struct {
	program       Program
	bounds        [2]mgl32.Vec3
	vertexCount   uint32
	instanceCount uint32
	camPos        mgl32.Vec3
}

type fakeDrawContext struct {
	draws []drawCall
}

func (dc *fakeDrawContext) DrawProcedural(p Program, bounds [2]mgl32.Vec3, vertexCount, instanceCount uint32) {
	call := drawCall{program: p, bounds: bounds, vertexCount: vertexCount, instanceCount: instanceCount}
	if fp, ok := p.(*fakeProgram); ok {
		call.camPos = fp.vecs[PropCamPos]
	}
	dc.draws = append(dc.draws, call)
}
