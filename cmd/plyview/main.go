package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/pointcloud"
	"github.com/gekko3d/pointcloud/app"
	"github.com/gekko3d/pointcloud/core"
	"github.com/gekko3d/pointcloud/ply"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML scene file")
	path := flag.String("path", "", "PLY file to show (overrides the config)")
	stride := flag.Int("stride", 0, "keep every Nth point")
	maxPoints := flag.Int("max", -1, "maximum points to load, 0 for no limit")
	scale := flag.Float64("scale", 0, "scale applied to loaded positions")
	watch := flag.Bool("watch", false, "reload when the file changes")
	pip := flag.Bool("pip", false, "show a top-down overview camera")
	debug := flag.Bool("debug", false, "enable debug logging")
	recenter := flag.String("recenter", "", "write the cloud, recentered on its bounding box, to this file and exit")
	flag.Parse()

	log := core.NewDefaultLogger("plyview", *debug)

	settings := pointcloud.DefaultConfig()
	if *configPath != "" {
		var err error
		settings, err = pointcloud.LoadConfig(*configPath)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(2)
		}
	}
	applyFlags(&settings, *path, *stride, *maxPoints, float32(*scale), *watch, *pip, *debug)
	log.SetDebug(settings.Viewer.Debug)
	if flag.NArg() > 0 && settings.Cloud.Path == "" {
		settings.Cloud.Path = flag.Arg(0)
	}
	if err := settings.Validate(); err != nil {
		log.Errorf("%v", err)
		os.Exit(2)
	}

	if *recenter != "" {
		if err := recenterFile(settings.Cloud, *recenter, log); err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		return
	}

	if err := glfw.Init(); err != nil {
		panic(err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	window, err := glfw.CreateWindow(settings.Viewer.Width, settings.Viewer.Height, settings.Viewer.Title, nil, nil)
	if err != nil {
		panic(err)
	}
	defer window.Destroy()

	application := app.NewApp(window, settings, log)
	if err := application.Init(); err != nil {
		panic(err)
	}
	defer application.Close()

	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		application.Resize(width, height)
	})

	for !window.ShouldClose() {
		glfw.PollEvents()
		application.Update()
		application.Render()
	}
}

// applyFlags overrides settings with flags that were given explicitly.
func applyFlags(s *pointcloud.Config, path string, stride, maxPoints int, scale float32, watch, pip, debug bool) {
	if path != "" {
		s.Cloud.Path = path
	}
	if stride > 0 {
		s.Cloud.Stride = stride
	}
	if maxPoints >= 0 {
		s.Cloud.MaxPoints = maxPoints
	}
	if scale != 0 {
		s.Cloud.Scale = scale
	}
	s.Cloud.Watch = s.Cloud.Watch || watch
	s.Viewer.PiP = s.Viewer.PiP || pip
	s.Viewer.Debug = s.Viewer.Debug || debug
}

func recenterFile(c pointcloud.CloudConfig, out string, log core.Logger) error {
	if c.Path == "" {
		return fmt.Errorf("recenter: no input file")
	}
	pc, err := ply.Load(c.Path, ply.Options{Stride: c.Stride, MaxPoints: c.MaxPoints})
	if err != nil {
		return err
	}
	pc, center := ply.Recenter(pc)

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("recenter: %w", err)
	}
	if err := ply.Encode(f, pc, fmt.Sprintf("recentered from %s", c.Path)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("recenter: %w", err)
	}
	log.Infof("wrote %d points to %s, shifted by %v", pc.Len(), out, center)
	return nil
}
