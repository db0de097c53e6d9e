package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/pointcloud"
	"github.com/gekko3d/pointcloud/core"
	"github.com/gekko3d/pointcloud/ply"
)

func TestApplyFlags(t *testing.T) {
	s := pointcloud.DefaultConfig()
	s.Cloud.Path = "config.ply"
	s.Cloud.MaxPoints = 500

	applyFlags(&s, "", 0, -1, 0, false, true, false)
	assert.Equal(t, "config.ply", s.Cloud.Path)
	assert.Equal(t, 1, s.Cloud.Stride)
	assert.Equal(t, 500, s.Cloud.MaxPoints)
	assert.True(t, s.Viewer.PiP)

	applyFlags(&s, "flag.ply", 3, 0, 2, true, false, true)
	assert.Equal(t, "flag.ply", s.Cloud.Path)
	assert.Equal(t, 3, s.Cloud.Stride)
	assert.Equal(t, 0, s.Cloud.MaxPoints)
	assert.Equal(t, float32(2), s.Cloud.Scale)
	assert.True(t, s.Cloud.Watch)
	assert.True(t, s.Viewer.Debug)
}

func TestRecenterFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.ply")
	out := filepath.Join(dir, "out.ply")

	src := core.NewPointCloud(2)
	src.Append(core.PointSample{Position: mgl32.Vec3{10, 10, 10}})
	src.Append(core.PointSample{Position: mgl32.Vec3{12, 14, 20}})
	f, err := os.Create(in)
	require.NoError(t, err)
	require.NoError(t, ply.Encode(f, src))
	require.NoError(t, f.Close())

	cfg := pointcloud.DefaultConfig().Cloud
	cfg.Path = in
	require.NoError(t, recenterFile(cfg, out, core.NewNopLogger()))

	got, err := ply.Load(out, ply.Options{Stride: 1})
	require.NoError(t, err)
	want := []mgl32.Vec3{{-1, -2, -5}, {1, 2, 5}}
	if diff := cmp.Diff(want, got.Positions, cmpopts.EquateApprox(0, 1e-5)); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestRecenterFileErrors(t *testing.T) {
	cfg := pointcloud.DefaultConfig().Cloud
	assert.Error(t, recenterFile(cfg, "out.ply", core.NewNopLogger()))

	cfg.Path = filepath.Join(t.TempDir(), "missing.ply")
	assert.ErrorIs(t, recenterFile(cfg, "out.ply", core.NewNopLogger()), ply.ErrNotFound)
}
