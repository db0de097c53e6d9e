package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/pointcloud/billboard"
	"github.com/gekko3d/pointcloud/core"
)

func f32At(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestAlignedSize(t *testing.T) {
	assert.Equal(t, uint64(4), alignedSize(1))
	assert.Equal(t, uint64(12), alignedSize(12))
	assert.Equal(t, uint64(16), alignedSize(13))
}

func TestParamsPackLayout(t *testing.T) {
	p := billboardParams{
		ViewProj:   mgl32.Ident4(),
		Forward:    mgl32.Vec3{0, 0, -1},
		PointSize:  0.5,
		Right:      mgl32.Vec3{1, 0, 0},
		FadeBuffer: 1,
		Up:         mgl32.Vec3{0, 1, 0},
		UnlitStart: 7,
		Position:   mgl32.Vec3{3, 4, 5},
		UnlitEnd:   20,
		Count:      42,
	}
	buf := make([]byte, paramsSize)
	p.pack(buf)

	assert.Equal(t, float32(1), f32At(buf, 0))
	assert.Equal(t, float32(1), f32At(buf, 5*4))
	assert.Equal(t, float32(-1), f32At(buf, 64+8))
	assert.Equal(t, float32(0.5), f32At(buf, 76))
	assert.Equal(t, float32(1), f32At(buf, 80))
	assert.Equal(t, float32(1), f32At(buf, 92))
	assert.Equal(t, float32(7), f32At(buf, 108))
	assert.Equal(t, float32(4), f32At(buf, 116))
	assert.Equal(t, float32(20), f32At(buf, 124))
	assert.Equal(t, uint32(42), binary.LittleEndian.Uint32(buf[128:]))
}

func TestClipRemapDepth(t *testing.T) {
	cam := core.NewCamera("main")
	cam.Position = mgl32.Vec3{}
	proj := cam.ProjectionMatrix()

	near := clipRemap.Mul4(proj).Mul4x1(mgl32.Vec4{0, 0, -cam.Near, 1})
	far := clipRemap.Mul4(proj).Mul4x1(mgl32.Vec4{0, 0, -cam.Far, 1})

	approx := cmpopts.EquateApprox(0, 1e-3)
	assert.True(t, cmp.Equal(float32(0), near.Z()/near.W(), approx), "near depth %v", near.Z()/near.W())
	assert.True(t, cmp.Equal(float32(1), far.Z()/far.W(), approx), "far depth %v", far.Z()/far.W())
}

func TestViewportPixels(t *testing.T) {
	x, y, w, h := viewportPixels([4]float32{0.75, 0, 0.25, 0.25}, 1280, 720)
	assert.Equal(t, []float32{960, 0, 320, 180}, []float32{x, y, w, h})
}

type stubRenderer struct {
	id    uuid.UUID
	calls int
}

func (s *stubRenderer) ID() uuid.UUID { return s.id }
func (s *stubRenderer) RenderCamera(dc billboard.DrawContext, cam *core.Camera) {
	s.calls++
}

func TestHostRegistry(t *testing.T) {
	h := &Host{}
	a := &stubRenderer{id: uuid.New()}
	b := &stubRenderer{id: uuid.New()}

	h.AddCameraRenderer(a)
	h.AddCameraRenderer(b)
	h.AddCameraRenderer(a)
	require.Len(t, h.Renderers(), 2)
	assert.Same(t, a, h.Renderers()[0])

	h.RemoveCameraRenderer(a)
	h.RemoveCameraRenderer(a)
	got := h.Renderers()
	require.Len(t, got, 1)
	assert.Same(t, b, got[0])
}

func TestDrawContextCulling(t *testing.T) {
	cam := core.NewCamera("main")
	dc := newDrawContext(nil, cam)

	assert.True(t, dc.visible(core.CubeAABB(mgl32.Vec3{}, 10000)), "oversized bounds are never culled")
	assert.True(t, dc.visible(core.CubeAABB(mgl32.Vec3{}, 1)))
	assert.False(t, dc.visible(core.CubeAABB(mgl32.Vec3{0, 0, 100}, 1)), "behind the camera")

	dc.DrawProcedural(nil, core.CubeAABB(mgl32.Vec3{0, 0, 100}, 1), 6, 1)
	assert.Equal(t, 1, dc.culled)
	assert.Zero(t, dc.drawn)
	assert.NoError(t, dc.err)
}

type foreignProgram struct{}

func (foreignProgram) SetBuffer(string, billboard.Buffer) {}
func (foreignProgram) SetUint(string, uint32)             {}
func (foreignProgram) SetFloat(string, float32)           {}
func (foreignProgram) SetVec3(string, mgl32.Vec3)         {}

func TestDrawContextRejectsForeignProgram(t *testing.T) {
	dc := newDrawContext(nil, core.NewCamera("main"))
	dc.DrawProcedural(foreignProgram{}, core.CubeAABB(mgl32.Vec3{}, 10000), 6, 1)
	assert.Error(t, dc.err)
	assert.Zero(t, dc.drawn)
}

func TestProgramStagesUniforms(t *testing.T) {
	p := &Program{}
	p.SetFloat(billboard.PropPointSize, 2)
	p.SetFloat(billboard.PropUnlitEnd, 30)
	p.SetVec3(billboard.PropCamPos, mgl32.Vec3{1, 2, 3})
	p.SetUint(billboard.PropCount, 9)
	p.SetFloat("unknown", 5)

	assert.Equal(t, float32(2), p.params.PointSize)
	assert.Equal(t, float32(30), p.params.UnlitEnd)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, p.params.Position)
	assert.Equal(t, uint32(9), p.params.Count)
	assert.False(t, p.Ready())

	p.SetBuffer(billboard.PropPositions, nil)
	assert.True(t, p.bindDirty)
	assert.Panics(t, func() { p.SetBuffer(billboard.PropColors, &fakeForeignBuffer{}) })
}

type fakeForeignBuffer struct{}

func (*fakeForeignBuffer) Write([]byte) error { return nil }
func (*fakeForeignBuffer) Release()           {}
