package billboard

import (
	"encoding/binary"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackColorLayout(t *testing.T) {
	assert.Equal(t, uint32(0x04030201), PackColor(color.RGBA{R: 1, G: 2, B: 3, A: 4}))
	assert.Equal(t, uint32(0xFF0000FF), PackColor(color.RGBA{R: 255, A: 255}))
}

func TestPackColorRoundTripsEveryByte(t *testing.T) {
	for v := 0; v < 256; v++ {
		b := uint8(v)
		// Each channel takes every value while the others hold distinct
		// neighbours, so a shifted channel would be caught.
		c := color.RGBA{R: b, G: b ^ 0x55, B: b ^ 0xAA, A: 255 - b}
		require.Equal(t, c, UnpackColor(PackColor(c)), "value %d", v)
	}
}

func TestEncodeColorsLittleEndian(t *testing.T) {
	buf := encodeColors([]color.RGBA{{R: 10, G: 20, B: 30, A: 255}}, 1)
	assert.Equal(t, []byte{10, 20, 30, 255}, buf)
}

func TestEncodePositionsRespectsCount(t *testing.T) {
	buf := encodePositions([]mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}, 1)
	require.Len(t, buf, positionStride)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:])))
}
