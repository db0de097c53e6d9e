package ply

import (
	"bytes"
	"image/color"
	"strings"
	"testing"

	"github.com/gekko3d/pointcloud/core"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeThenDecodeKeepsPositions(t *testing.T) {
	src := core.PointCloud{
		Positions: []mgl32.Vec3{{1, 3, 2}, {-0.5, 10.25, 7}},
		Colors:    []color.RGBA{{10, 20, 30, 255}, {0, 128, 255, 255}},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, src, "recentered"))

	text := buf.String()
	assert.Contains(t, text, "element vertex 2\n")
	assert.Contains(t, text, "comment recentered\n")
	// File columns are x z y.
	assert.Contains(t, text, "end_header\n1 2 3 10 20 30\n")

	got, err := Decode(strings.NewReader(text), Options{Stride: 1})
	require.NoError(t, err)
	if diff := cmp.Diff(src, got, approx); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestRecenter(t *testing.T) {
	src := core.PointCloud{
		Positions: []mgl32.Vec3{{0, 0, 0}, {10, 4, -2}, {2, 2, 2}},
		Colors:    make([]color.RGBA, 3),
	}

	out, center := Recenter(src)
	assert.Equal(t, mgl32.Vec3{5, 2, 0}, center)

	b := out.Bounds()
	assert.Equal(t, mgl32.Vec3{-5, -2, -2}, b[0])
	assert.Equal(t, mgl32.Vec3{5, 2, 2}, b[1])
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, src.Positions[0], "source must not change")
}

func TestRecenterEmpty(t *testing.T) {
	out, center := Recenter(core.PointCloud{})
	assert.Equal(t, mgl32.Vec3{}, center)
	assert.Equal(t, 0, out.Len())
}
