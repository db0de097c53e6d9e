package billboard

import (
	"math"

	"github.com/gekko3d/pointcloud/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Shader inputs written by the renderer. Buffers and count are bound once per
// upload, everything else once per camera callback.
const (
	PropPositions  = "positions"
	PropColors     = "colors"
	PropCount      = "count"
	PropPointSize  = "point_size"
	PropCamForward = "cam_forward"
	PropCamRight   = "cam_right"
	PropCamUp      = "cam_up"
	PropCamPos     = "cam_pos"
	PropFadeBuffer = "fade_buffer"
	PropUnlitStart = "unlit_start"
	PropUnlitEnd   = "unlit_end"
)

const (
	positionStride = 3 * 4
	colorStride    = 4
	vertsPerPoint  = 6

	// cullBoundsSize is the edge of the draw's bounding cube. It is large
	// enough that host frustum tests never reject the draw; per-point
	// visibility is decided in the shader.
	cullBoundsSize = 10000

	// MaxPoints is the largest cloud whose vertex count fits a 32-bit draw.
	MaxPoints = math.MaxUint32 / vertsPerPoint
)

// Buffer is GPU storage owned by exactly one renderer.
type Buffer interface {
	Write(data []byte) error
	Release()
}

// Device allocates GPU buffers of count elements of stride bytes each.
type Device interface {
	NewBuffer(label string, count, stride int) (Buffer, error)
}

// Program is the shading program the billboards are drawn with. Setting a
// nil buffer unbinds it.
type Program interface {
	SetBuffer(name string, buf Buffer)
	SetUint(name string, v uint32)
	SetFloat(name string, v float32)
	SetVec3(name string, v mgl32.Vec3)
}

// DrawContext is handed to camera renderers for the duration of one camera pass.
type DrawContext interface {
	// DrawProcedural draws vertexCount unindexed triangle-list vertices per
	// instance. The host may skip the draw when bounds are outside the
	// camera frustum.
	DrawProcedural(p Program, bounds [2]mgl32.Vec3, vertexCount, instanceCount uint32)
}

// CameraRenderer is invoked by the host at most once per camera per frame.
type CameraRenderer interface {
	ID() uuid.UUID
	RenderCamera(dc DrawContext, cam *core.Camera)
}

// Host is the render pipeline that dispatches camera callbacks.
type Host interface {
	AddCameraRenderer(r CameraRenderer)
	RemoveCameraRenderer(r CameraRenderer)
}
