package gpu

import (
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// paramsSize is the byte size of the shader's Params uniform:
// view_proj (64), four vec3+f32 rows (64), count and padding (16).
const paramsSize = 144

// clipRemap maps OpenGL clip depth [-w, w] to WebGPU's [0, w].
var clipRemap = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

// billboardParams mirrors the uniform block in billboard.wgsl.
type billboardParams struct {
	ViewProj   mgl32.Mat4
	Forward    mgl32.Vec3
	PointSize  float32
	Right      mgl32.Vec3
	FadeBuffer float32
	Up         mgl32.Vec3
	UnlitStart float32
	Position   mgl32.Vec3
	UnlitEnd   float32
	Count      uint32
}

func (p *billboardParams) pack(buf []byte) {
	putF32 := func(offset int, v float32) {
		binary.LittleEndian.PutUint32(buf[offset:], math.Float32bits(v))
	}
	putRow := func(offset int, v mgl32.Vec3, w float32) {
		putF32(offset, v[0])
		putF32(offset+4, v[1])
		putF32(offset+8, v[2])
		putF32(offset+12, w)
	}

	for i, v := range p.ViewProj {
		putF32(i*4, v)
	}
	putRow(64, p.Forward, p.PointSize)
	putRow(80, p.Right, p.FadeBuffer)
	putRow(96, p.Up, p.UnlitStart)
	putRow(112, p.Position, p.UnlitEnd)
	binary.LittleEndian.PutUint32(buf[128:], p.Count)
	binary.LittleEndian.PutUint32(buf[132:], 0)
	binary.LittleEndian.PutUint32(buf[136:], 0)
	binary.LittleEndian.PutUint32(buf[140:], 0)
}
