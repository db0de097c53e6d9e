package billboard

import (
	"encoding/binary"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// PackColor packs c as R in bits 0-7, G in 8-15, B in 16-23 and A in 24-31.
func PackColor(c color.RGBA) uint32 {
	return uint32(c.R) | uint32(c.G)<<8 | uint32(c.B)<<16 | uint32(c.A)<<24
}

func UnpackColor(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v),
		G: uint8(v >> 8),
		B: uint8(v >> 16),
		A: uint8(v >> 24),
	}
}

// encodePositions lays out the first n positions as tightly packed
// little-endian float32 triples.
func encodePositions(positions []mgl32.Vec3, n int) []byte {
	buf := make([]byte, n*positionStride)
	for i := 0; i < n; i++ {
		off := i * positionStride
		p := positions[i]
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(p[0]))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(p[1]))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(p[2]))
	}
	return buf
}

// encodeColors lays out the first n colors as little-endian packed words.
func encodeColors(colors []color.RGBA, n int) []byte {
	buf := make([]byte, n*colorStride)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(buf[i*colorStride:], PackColor(colors[i]))
	}
	return buf
}
