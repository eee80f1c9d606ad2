package main

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/additive"
	"github.com/mogaika/additive_anim/config"
	"github.com/mogaika/additive_anim/export"
	"github.com/mogaika/additive_anim/scene"
	"github.com/mogaika/additive_anim/status"
	"github.com/mogaika/additive_anim/utils"
	"github.com/mogaika/additive_anim/vfs"
	"github.com/mogaika/additive_anim/web"
)

func openScene(path string, c config.Config) (*scene.Scene, error) {
	s, err := scene.OpenFile(path, c.RootJoint)
	if err != nil {
		return nil, err
	}
	if c.FPS > 0 {
		s.SetFPS(c.FPS)
	}
	s.Notifier = func(title, message string) {
		log.Warnf("[additive] %s: %s", title, message)
		status.Error("%s: %s", title, message)
	}
	return s, nil
}

func runAdditive(s *scene.Scene, c config.Config, dump bool) error {
	opts, err := c.PipelineOptions()
	if err != nil {
		return err
	}
	opts.Observer = func(t additive.Transition) {
		log.WithField("run", t.Run).Debugf("[main] %v -> %v %q", t.From, t.To, t.Take)
	}

	var res *additive.Result
	if err := s.Exclusive(func() error {
		res, err = additive.Run(s, opts)
		return err
	}); err != nil {
		return err
	}
	if dump {
		utils.Dump(res)
	}
	return nil
}

func writeFile(path string, write func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0666); err != nil {
		return errors.Wrapf(err, "write %q", path)
	}
	log.Infof("[main] Saved %q", path)
	return nil
}

func exportScene(s *scene.Scene, c config.Config) error {
	if c.Export.Scene != "" {
		if err := s.SaveFile(c.Export.Scene); err != nil {
			return errors.Wrapf(err, "save scene")
		}
		log.Infof("[main] Saved %q", c.Export.Scene)
	}
	if c.Export.FBX != "" {
		format, err := export.ParseFormat(c.Export.FBXFormat)
		if err != nil {
			return err
		}
		if err := writeFile(c.Export.FBX, func(buf *bytes.Buffer) error {
			return export.WriteFBX(buf, s, format, filepath.Base(c.Export.FBX))
		}); err != nil {
			return err
		}
	}
	if c.Export.SkeletonGLB != "" {
		if err := writeFile(c.Export.SkeletonGLB, func(buf *bytes.Buffer) error {
			return export.WriteSkeletonGLB(buf, s)
		}); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	var scenePath, configPath, webPath string
	var f config.Flags
	var verbose, dump, serve bool
	flag.StringVar(&scenePath, "scene", "", "Scene file (yaml, json, gltf or glb)")
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.StringVar(&f.RootJoint, "root", "", "Root joint name override")
	flag.StringVar(&f.GimbalMode, "gimbal", "", "Gimbal lock handling: 'compat' or 'guard'")
	flag.StringVar(&f.KeyTiming, "keys", "", "Result key times: 'zero' or 'frames'")
	flag.Float64Var(&f.FPS, "fps", 0, "Scene frame rate override")
	flag.StringVar(&f.Scene, "o", "", "Save the scene yaml after processing")
	flag.StringVar(&f.FBX, "fbx", "", "Export takes to fbx file")
	flag.StringVar(&f.FBXFormat, "fbxformat", "", "Fbx format: 'ascii', 'binary' or 'zip'")
	flag.StringVar(&f.SkeletonGLB, "glb", "", "Export skeleton rest pose to glb file")
	flag.StringVar(&f.Addr, "addr", "", "Address of server")
	flag.StringVar(&f.Library, "dir", "", "Directory with scene files for the server")
	flag.StringVar(&webPath, "web", "", "Path to folder with web data")
	flag.BoolVar(&serve, "i", false, "Start web server instead of processing once")
	flag.BoolVar(&dump, "dump", false, "Dump additive result")
	flag.BoolVar(&verbose, "v", false, "Debug logging")
	flag.Parse()

	c, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if verbose {
		f.LogLevel = "debug"
	}
	if c, err = c.Resolve(f); err != nil {
		log.Fatal(err)
	}
	config.SetCurrent(c)
	log.SetLevel(c.Level())

	var s *scene.Scene
	if scenePath != "" {
		if s, err = openScene(scenePath, c); err != nil {
			log.Fatal(err)
		}
	}

	if serve {
		var d vfs.Directory
		if c.Server.Library != "" {
			d = vfs.NewDirectoryDriver(c.Server.Library, web.SceneExtensions...)
		}
		if err := web.StartServer(c.Server.Addr, s, d, webPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	if s == nil {
		flag.PrintDefaults()
		return
	}
	if err := runAdditive(s, c, dump); err != nil {
		log.Fatal(err)
	}
	if err := exportScene(s, c); err != nil {
		log.Fatal(err)
	}
}
