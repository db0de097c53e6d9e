package pointcloud

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"

	"github.com/gekko3d/pointcloud/billboard"
)

var ErrInvalidConfig = errors.New("pointcloud: invalid config")

type CloudConfig struct {
	Path      string     `toml:"path"`
	Stride    int        `toml:"stride"`
	MaxPoints int        `toml:"max_points"`
	Scale     float32    `toml:"scale"`
	Offset    [3]float32 `toml:"offset"`
	Recenter  bool       `toml:"recenter"`
	// Watch reloads the cloud when the file changes on disk.
	Watch bool `toml:"watch"`
}

type RenderConfig struct {
	PointSize         float32 `toml:"point_size"`
	FadeBuffer        float32 `toml:"fade_buffer"`
	UnlitStart        float32 `toml:"unlit_start"`
	UnlitEnd          float32 `toml:"unlit_end"`
	Layer             uint    `toml:"layer"`
	DebugPoint        bool    `toml:"debug_point"`
	SkipEditorCameras bool    `toml:"skip_editor_cameras"`
}

type ViewerConfig struct {
	Width          int        `toml:"width"`
	Height         int        `toml:"height"`
	Title          string     `toml:"title"`
	CameraPosition [3]float32 `toml:"camera_position"`
	CameraSpeed    float32    `toml:"camera_speed"`
	// PiP adds a top-down overview camera in the corner of the window.
	PiP   bool `toml:"pip"`
	Debug bool `toml:"debug"`
}

// Config is a viewer scene file.
type Config struct {
	Cloud  CloudConfig  `toml:"cloud"`
	Render RenderConfig `toml:"render"`
	Viewer ViewerConfig `toml:"viewer"`
}

func DefaultConfig() Config {
	bb := billboard.DefaultConfig()
	return Config{
		Cloud: CloudConfig{
			Stride: 1,
			Scale:  1,
		},
		Render: RenderConfig{
			PointSize:  bb.PointSize,
			FadeBuffer: bb.Fade.FadeBuffer,
			UnlitStart: bb.Fade.UnlitStart,
			UnlitEnd:   bb.Fade.UnlitEnd,
			DebugPoint: bb.DebugPoint,
		},
		Viewer: ViewerConfig{
			Width:          1280,
			Height:         720,
			Title:          "plyview",
			CameraPosition: [3]float32{0, 2, 20},
			CameraSpeed:    5,
		},
	}
}

// LoadConfig reads a TOML scene file over DefaultConfig and validates it.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the loader or renderer cannot use. Inverted fade
// distances are allowed; the renderer warns about them.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	check(c.Cloud.Stride >= 1, "cloud.stride must be >= 1, got %d", c.Cloud.Stride)
	check(c.Cloud.MaxPoints >= 0, "cloud.max_points must be >= 0, got %d", c.Cloud.MaxPoints)
	check(c.Cloud.Scale != 0, "cloud.scale must not be zero")
	check(c.Render.PointSize > 0, "render.point_size must be > 0, got %g", c.Render.PointSize)
	check(c.Render.FadeBuffer >= 0, "render.fade_buffer must be >= 0, got %g", c.Render.FadeBuffer)
	check(c.Render.Layer <= 31, "render.layer must be in 0..31, got %d", c.Render.Layer)
	check(c.Viewer.Width > 0 && c.Viewer.Height > 0, "viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	return errors.Join(errs...)
}

// Request builds the reload request for the configured cloud.
func (c CloudConfig) Request() ReloadRequest {
	return ReloadRequest{
		Path:      c.Path,
		Stride:    c.Stride,
		MaxPoints: c.MaxPoints,
		Scale:     c.Scale,
		Offset:    mgl32.Vec3(c.Offset),
		Recenter:  c.Recenter,
	}
}

// Billboard builds the renderer configuration, drawing with prog.
func (c RenderConfig) Billboard(prog billboard.Program) billboard.Config {
	return billboard.Config{
		Program:   prog,
		PointSize: c.PointSize,
		Fade: billboard.FadeDistances{
			FadeBuffer: c.FadeBuffer,
			UnlitStart: c.UnlitStart,
			UnlitEnd:   c.UnlitEnd,
		},
		Layer:             c.Layer,
		DebugPoint:        c.DebugPoint,
		SkipEditorCameras: c.SkipEditorCameras,
	}
}
