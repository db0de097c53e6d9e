// Package app is the interactive point cloud viewer: a glfw window with a
// WebGPU surface, a fly camera and the billboard renderer.
package app

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/pointcloud"
	"github.com/gekko3d/pointcloud/billboard"
	"github.com/gekko3d/pointcloud/core"
	"github.com/gekko3d/pointcloud/gpu"
)

const (
	minPointSize  = 0.001
	maxPointSize  = 100
	pointSizeStep = 1.1
)

// overviewViewport is the picture-in-picture rectangle, top right.
var overviewViewport = [4]float32{0.72, 0.02, 0.26, 0.26}

type App struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Queue    *wgpu.Queue
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	Log      *core.DefaultLogger
	Settings pointcloud.Config

	Host     *gpu.Host
	Program  *gpu.Program
	Renderer *billboard.Renderer
	Loader   *pointcloud.Loader
	Watcher  *pointcloud.Watcher
	Anchor   *core.Transform

	Camera   *core.Camera
	Overview *core.Camera
	Input    *Input
	Profiler *Profiler

	LastTime       float64
	LastRenderTime float64

	FrameCount int
	FPS        float64
	FPSTime    float64
}

func NewApp(window *glfw.Window, settings pointcloud.Config, log *core.DefaultLogger) *App {
	cam := core.NewCamera("main")
	cam.Position = mgl32.Vec3(settings.Viewer.CameraPosition)
	cam.Speed = settings.Viewer.CameraSpeed
	cam.LookAt(mgl32.Vec3{})

	return &App{
		Window:   window,
		Log:      log,
		Settings: settings,
		Anchor:   core.NewTransform(),
		Camera:   cam,
		Input:    NewInput(),
		Profiler: NewProfiler(),
	}
}

func (a *App) Init() error {
	a.Instance = wgpu.CreateInstance(nil)
	a.Surface = a.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(a.Window))

	adapter, err := a.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: a.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return err
	}
	a.Adapter = adapter

	a.Device, err = adapter.RequestDevice(nil)
	if err != nil {
		return err
	}
	a.Queue = a.Device.GetQueue()

	width, height := a.Window.GetFramebufferSize()
	caps := a.Surface.GetCapabilities(adapter)
	format := caps.Formats[0]

	a.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	a.Surface.Configure(adapter, a.Device, a.Config)

	a.Program, err = gpu.NewProgram(a.Device, format)
	if err != nil {
		return fmt.Errorf("billboard program: %w", err)
	}
	a.Host = gpu.NewHost(a.Device, a.Log.Named("host"))

	a.Renderer = billboard.NewRenderer(
		gpu.NewDevice(a.Device),
		a.Host,
		a.Settings.Render.Billboard(a.Program),
		a.Log.Named("billboard"),
	)
	a.Loader = &pointcloud.Loader{
		Renderer: a.Renderer,
		Parent:   a.Anchor,
		Log:      a.Log.Named("loader"),
	}

	if a.Settings.Viewer.PiP {
		a.Overview = newOverviewCamera()
	}
	a.updateAspect()

	if a.Settings.Cloud.Path == "" {
		// Nothing to load: show the debug point, if enabled.
		if err := a.Renderer.Enable(); err != nil {
			a.Log.Warnf("no cloud configured: %v", err)
		}
		return nil
	}

	a.Reload()
	if a.Settings.Cloud.Watch {
		a.Watcher, err = pointcloud.NewWatcher(a.Settings.Cloud.Path, a.Log.Named("watch"))
		if err != nil {
			a.Log.Warnf("file watching disabled: %v", err)
		}
	}
	return nil
}

// newOverviewCamera looks straight down at the origin. It is an editor
// camera so renderers can opt out of it.
func newOverviewCamera() *core.Camera {
	cam := core.NewCamera("overview")
	cam.Kind = core.CameraEditor
	cam.Position = mgl32.Vec3{0, 60, 0.01}
	cam.Viewport = overviewViewport
	cam.LookAt(mgl32.Vec3{})
	return cam
}

// Reload re-reads the configured cloud. Failures keep the current cloud.
func (a *App) Reload() {
	if a.Settings.Cloud.Path == "" {
		return
	}
	a.Profiler.Begin("reload")
	n, err := a.Loader.Reload(a.Settings.Cloud.Request())
	a.Profiler.End("reload")
	if err != nil {
		a.Log.Errorf("reload failed, keeping previous cloud: %v", err)
		return
	}
	a.Camera.Far = sceneFar(a.Renderer.Settings().Fade, a.Camera.Far)
	a.Log.Infof("showing %d points", n)
}

// sceneFar keeps the far plane beyond the fade-out distance.
func sceneFar(f billboard.FadeDistances, current float32) float32 {
	if f.UnlitEnd*2 > current {
		return f.UnlitEnd * 2
	}
	return current
}

func (a *App) Cameras() []*core.Camera {
	cams := []*core.Camera{a.Camera}
	if a.Overview != nil {
		cams = append(cams, a.Overview)
	}
	return cams
}

// viewportAspect is the pixel aspect of a normalized viewport.
func viewportAspect(vp [4]float32, width, height uint32) float32 {
	w := vp[2] * float32(width)
	h := vp[3] * float32(height)
	if h <= 0 || w <= 0 {
		return 1
	}
	return w / h
}

func (a *App) updateAspect() {
	for _, cam := range a.Cameras() {
		cam.Aspect = viewportAspect(cam.Viewport, a.Config.Width, a.Config.Height)
	}
}

func (a *App) Resize(w, h int) {
	if w > 0 && h > 0 {
		a.Config.Width = uint32(w)
		a.Config.Height = uint32(h)
		a.Surface.Configure(a.Adapter, a.Device, a.Config)
		a.updateAspect()
	}
}

// ScalePointSize multiplies the billboard size, clamped to a sane range.
func (a *App) ScalePointSize(factor float32) {
	size := clampPointSize(a.Renderer.Settings().PointSize * factor)
	a.Renderer.SetPointSize(size)
	a.Log.Debugf("point size %.4f", size)
}

// ResetPointSize restores the configured billboard size.
func (a *App) ResetPointSize() {
	size := clampPointSize(a.Settings.Render.PointSize)
	a.Renderer.SetPointSize(size)
	a.Log.Debugf("point size reset to %.4f", size)
}

func clampPointSize(size float32) float32 {
	return mgl32.Clamp(size, minPointSize, maxPointSize)
}

func (a *App) TogglePiP() {
	if a.Overview == nil {
		a.Overview = newOverviewCamera()
		a.updateAspect()
		return
	}
	a.Overview = nil
}

func (a *App) Update() {
	now := glfw.GetTime()
	dt := float32(0)
	if a.LastTime > 0 {
		dt = float32(now - a.LastTime)
	}
	a.LastTime = now

	in := a.Input
	in.Poll(a.Window)

	if in.JustPressed[glfw.KeyEscape] {
		a.Window.SetShouldClose(true)
	}
	if in.JustPressed[glfw.KeyTab] {
		in.ToggleCapture(a.Window)
	}
	if in.JustPressed[glfw.KeyR] {
		a.Reload()
	}
	if in.JustPressed[glfw.KeyP] {
		a.TogglePiP()
	}
	if in.anyJustPressed(glfw.KeyEqual, glfw.KeyKPAdd) {
		a.ScalePointSize(pointSizeStep)
	}
	if in.anyJustPressed(glfw.KeyMinus, glfw.KeyKPSubtract) {
		a.ScalePointSize(1 / pointSizeStep)
	}
	if in.anyJustPressed(glfw.Key0, glfw.KeyKP0) {
		a.ResetPointSize()
	}

	if a.Watcher != nil {
		select {
		case <-a.Watcher.Reloads():
			a.Log.Infof("%s changed on disk", a.Settings.Cloud.Path)
			a.Reload()
		default:
		}
	}

	move, look := in.FlyIntent()
	speed := a.Camera.Speed
	if in.Pressed[glfw.KeyLeftShift] {
		a.Camera.Speed = speed * 4
	}
	a.Camera.Fly(move, look, dt)
	a.Camera.Speed = speed
}

func (a *App) Render() {
	nextTexture, err := a.Surface.GetCurrentTexture()
	if err != nil {
		a.Log.Errorf("GetCurrentTexture failed: %v", err)
		return
	}
	defer nextTexture.Release()

	view, err := nextTexture.CreateView(nil)
	if err != nil {
		a.Log.Errorf("CreateView failed: %v", err)
		return
	}
	defer view.Release()

	a.Profiler.Begin("render")
	if err := a.Host.RenderCameras(view, a.Config.Width, a.Config.Height, a.Cameras()); err != nil {
		a.Log.Errorf("render failed: %v", err)
	}
	a.Surface.Present()
	a.Profiler.End("render")

	now := glfw.GetTime()
	if a.LastRenderTime > 0 {
		a.FrameCount++
		a.FPSTime += now - a.LastRenderTime
	}
	a.LastRenderTime = now
	if a.FPSTime >= 1.0 {
		a.FPS = float64(a.FrameCount) / a.FPSTime
		a.FrameCount = 0
		a.FPSTime = 0
		a.Window.SetTitle(fmt.Sprintf("%s | %d points | %.1f fps", a.Settings.Viewer.Title, a.Renderer.Count(), a.FPS))

		a.Profiler.SetCount("points", a.Renderer.Count())
		a.Profiler.SetCount("drawn", a.Host.Drawn)
		a.Profiler.SetCount("culled", a.Host.Culled)
		if a.Log.DebugEnabled() {
			a.Log.Debugf("%s", a.Profiler)
		}
	}
}

func (a *App) Close() {
	if a.Watcher != nil {
		a.Watcher.Close()
	}
	if a.Renderer != nil {
		a.Renderer.Disable()
	}
	if a.Program != nil {
		a.Program.Release()
	}
}
