package config

import (
	"bytes"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/additive_anim/additive"
	"github.com/mogaika/additive_anim/export"
	"github.com/mogaika/additive_anim/hierarchy"
	"github.com/mogaika/additive_anim/matrix"
)

type Export struct {
	FBX         string `yaml:"fbx"`
	FBXFormat   string `yaml:"fbx_format"`
	Scene       string `yaml:"scene"`
	SkeletonGLB string `yaml:"skeleton_glb"`
}

type Server struct {
	Addr string `yaml:"addr"`
	// Library is a directory of scene files the server can open and save
	Library string `yaml:"library"`
}

type Config struct {
	RootJoint  string                `yaml:"root_joint"`
	GimbalMode string                `yaml:"gimbal_mode"`
	KeyTiming  string                `yaml:"key_timing"`
	Loop       *hierarchy.FrameRange `yaml:"loop,omitempty"`
	FPS        float64               `yaml:"fps"`
	Export     Export                `yaml:"export"`
	Server     Server                `yaml:"server"`
	LogLevel   string                `yaml:"log_level"`
}

func Default() Config {
	return Config{
		RootJoint:  additive.DefaultRootJoint,
		GimbalMode: matrix.GimbalCompat.String(),
		KeyTiming:  hierarchy.KeysFromZero.String(),
		Export: Export{
			FBXFormat: string(export.FormatASCII),
		},
		Server: Server{
			Addr: ":8000",
		},
		LogLevel: "info",
	}
}

// Load reads a yaml config over the defaults. An empty path gives the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "read config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return c, errors.Wrapf(err, "parse config %q", path)
	}
	return c, c.Validate()
}

// Flags are command line overrides; zero values are not applied.
type Flags struct {
	RootJoint   string
	GimbalMode  string
	KeyTiming   string
	FPS         float64
	FBX         string
	FBXFormat   string
	Scene       string
	SkeletonGLB string
	Addr        string
	Library     string
	LogLevel    string
}

// Resolve applies the overrides of f and validates the result.
func (c Config) Resolve(f Flags) (Config, error) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.RootJoint, f.RootJoint)
	set(&c.GimbalMode, f.GimbalMode)
	set(&c.KeyTiming, f.KeyTiming)
	set(&c.Export.FBX, f.FBX)
	set(&c.Export.FBXFormat, f.FBXFormat)
	set(&c.Export.Scene, f.Scene)
	set(&c.Export.SkeletonGLB, f.SkeletonGLB)
	set(&c.Server.Addr, f.Addr)
	set(&c.Server.Library, f.Library)
	set(&c.LogLevel, f.LogLevel)
	if f.FPS > 0 {
		c.FPS = f.FPS
	}
	if c.RootJoint == "" {
		c.RootJoint = additive.DefaultRootJoint
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if _, err := matrix.ParseGimbalMode(c.GimbalMode); err != nil {
		return err
	}
	if _, err := hierarchy.ParseKeyTiming(c.KeyTiming); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Export.FBXFormat); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(err, "log_level")
	}
	if c.Loop != nil {
		if err := c.Loop.Validate(); err != nil {
			return err
		}
	}
	if c.FPS < 0 {
		return errors.Errorf("negative fps %v", c.FPS)
	}
	return nil
}

// PipelineOptions converts the config into additive pipeline options.
func (c Config) PipelineOptions() (additive.Options, error) {
	opts := additive.Options{RootJoint: c.RootJoint}
	var err error
	if opts.GimbalMode, err = matrix.ParseGimbalMode(c.GimbalMode); err != nil {
		return opts, err
	}
	if opts.KeyTiming, err = hierarchy.ParseKeyTiming(c.KeyTiming); err != nil {
		return opts, err
	}
	if c.Loop != nil {
		rng := *c.Loop
		opts.Range = &rng
	}
	return opts, nil
}

func (c Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
