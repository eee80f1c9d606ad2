package scene

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/additive_anim/curve"
	"github.com/mogaika/additive_anim/hierarchy"
	"github.com/mogaika/additive_anim/skeleton"
)

// Document is the yaml/json form of a scene.
type Document struct {
	FPS      float64              `yaml:"fps,omitempty" json:"fps,omitempty"`
	Loop     hierarchy.FrameRange `yaml:"loop" json:"loop"`
	Skeleton *JointDoc            `yaml:"skeleton" json:"skeleton"`
	Takes    []*TakeDoc           `yaml:"takes" json:"takes"`
}

type JointDoc struct {
	Name        string      `yaml:"name" json:"name"`
	Translation *[3]float64 `yaml:"translation,omitempty,flow" json:"translation,omitempty"`
	Rotation    *[3]float64 `yaml:"rotation,omitempty,flow" json:"rotation,omitempty"`
	Scaling     *[3]float64 `yaml:"scaling,omitempty,flow" json:"scaling,omitempty"`
	Children    []*JointDoc `yaml:"children,omitempty" json:"children,omitempty"`
}

type TakeDoc struct {
	Name   string                  `yaml:"name" json:"name"`
	Joints map[string]*ChannelsDoc `yaml:"joints,omitempty" json:"joints,omitempty"`
}

type ChannelsDoc struct {
	Translation *AxesDoc `yaml:"translation,omitempty" json:"translation,omitempty"`
	Rotation    *AxesDoc `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Scaling     *AxesDoc `yaml:"scaling,omitempty" json:"scaling,omitempty"`
}

func (c *ChannelsDoc) axes(ch skeleton.Channel) **AxesDoc {
	switch ch {
	case skeleton.Translation:
		return &c.Translation
	case skeleton.Rotation:
		return &c.Rotation
	default:
		return &c.Scaling
	}
}

// AxesDoc holds [frame, value] keys per axis.
type AxesDoc struct {
	Interpolation string       `yaml:"interpolation,omitempty" json:"interpolation,omitempty"`
	X             [][2]float64 `yaml:"x,omitempty,flow" json:"x,omitempty"`
	Y             [][2]float64 `yaml:"y,omitempty,flow" json:"y,omitempty"`
	Z             [][2]float64 `yaml:"z,omitempty,flow" json:"z,omitempty"`
}

func (a *AxesDoc) keys(axis skeleton.Axis) *[][2]float64 {
	switch axis {
	case skeleton.X:
		return &a.X
	case skeleton.Y:
		return &a.Y
	default:
		return &a.Z
	}
}

func vecOr(v *[3]float64, def [3]float64) [3]float64 {
	if v == nil {
		return def
	}
	return *v
}

func vecPtr(v [3]float64, def [3]float64) *[3]float64 {
	if v == def {
		return nil
	}
	return &v
}

func (d *Document) buildSkeleton(s *Scene, jd *JointDoc, parent *skeleton.Joint) *skeleton.Joint {
	j := skeleton.NewJoint(jd.Name)
	if parent != nil {
		parent.AddChild(j)
	}
	rest := DefaultRest()
	rest.Translation = vecOr(jd.Translation, rest.Translation)
	rest.Rotation = vecOr(jd.Rotation, rest.Rotation)
	rest.Scaling = vecOr(jd.Scaling, rest.Scaling)
	s.rest[jd.Name] = rest
	for _, c := range jd.Children {
		d.buildSkeleton(s, c, j)
	}
	return j
}

// Scene converts the document into a scene.
func (d *Document) Scene() (*Scene, error) {
	if d.Skeleton == nil {
		return nil, errors.New("document without skeleton")
	}
	s := &Scene{rest: make(map[string]Rest)}
	s.root = d.buildSkeleton(s, d.Skeleton, nil)
	if err := s.root.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid skeleton")
	}
	s.SetFPS(d.FPS)
	if err := s.SetLoopRange(d.Loop); err != nil {
		return nil, err
	}

	for _, td := range d.Takes {
		t, err := s.AddTake(td.Name)
		if err != nil {
			return nil, err
		}
		if err := td.fill(s.root, t); err != nil {
			return nil, errors.Wrapf(err, "take %q", td.Name)
		}
	}
	return s, nil
}

func (td *TakeDoc) fill(root *skeleton.Joint, t *Take) error {
	for joint, cd := range td.Joints {
		if root.Find(joint) == nil {
			return errors.Errorf("unknown joint %q", joint)
		}
		if cd == nil {
			continue
		}
		for _, ch := range skeleton.Channels {
			ad := *cd.axes(ch)
			if ad == nil {
				continue
			}
			interp, err := curve.ParseInterpolation(ad.Interpolation)
			if err != nil {
				return errors.Wrapf(err, "joint %q %v", joint, ch)
			}
			for _, axis := range skeleton.Axes {
				keys := *ad.keys(axis)
				if len(keys) == 0 {
					continue
				}
				c := &curve.Curve{Interpolation: interp}
				for _, k := range keys {
					if err := c.AddKey(k[0], k[1]); err != nil {
						return errors.Wrapf(err, "joint %q %v.%v", joint, ch, axis)
					}
				}
				t.SetCurve(joint, ch, axis, c)
			}
		}
	}
	return nil
}

// Document returns a snapshot of the scene.
func (s *Scene) Document() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &Document{FPS: s.fps, Loop: s.loop}
	var build func(j *skeleton.Joint) *JointDoc
	build = func(j *skeleton.Joint) *JointDoc {
		rest := s.restOf(j.Name)
		def := DefaultRest()
		jd := &JointDoc{
			Name:        j.Name,
			Translation: vecPtr(rest.Translation, def.Translation),
			Rotation:    vecPtr(rest.Rotation, def.Rotation),
			Scaling:     vecPtr(rest.Scaling, def.Scaling),
		}
		for _, c := range j.Children {
			jd.Children = append(jd.Children, build(c))
		}
		return jd
	}
	d.Skeleton = build(s.root)

	for _, t := range s.takes {
		d.Takes = append(d.Takes, takeDocument(s.root, t))
	}
	return d
}

func takeDocument(root *skeleton.Joint, t *Take) *TakeDoc {
	td := &TakeDoc{Name: t.Name, Joints: make(map[string]*ChannelsDoc)}
	root.Walk(func(j *skeleton.Joint, _ int) bool {
		var cd ChannelsDoc
		used := false
		for _, ch := range skeleton.Channels {
			var ad *AxesDoc
			for _, axis := range skeleton.Axes {
				c := t.Curve(j.Name, ch, axis)
				if c == nil || c.Len() == 0 {
					continue
				}
				if ad == nil {
					ad = &AxesDoc{}
					if c.Interpolation != curve.Linear {
						ad.Interpolation = c.Interpolation.String()
					}
				}
				keys := make([][2]float64, len(c.Keys))
				for i, k := range c.Keys {
					keys[i] = [2]float64{k.Time, k.Value}
				}
				*ad.keys(axis) = keys
			}
			if ad != nil {
				*cd.axes(ch) = ad
				used = true
			}
		}
		if used {
			td.Joints[j.Name] = &cd
		}
		return true
	})
	return td
}

// TakeDocument returns the keys of one take.
func (s *Scene) TakeDocument(name string) (*TakeDoc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.findTake(name)
	if t == nil {
		return nil, errors.Errorf("take %q not found", name)
	}
	return takeDocument(s.root, t), nil
}

func Load(r io.Reader) (*Scene, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, errors.Wrapf(err, "Failed to unmarshal yaml")
	}
	return d.Scene()
}

// Decode reads a scene choosing the format by the extension of name:
// yaml (the default), json documents, or glTF node hierarchies rooted at root.
func Decode(r io.Reader, name string, root string) (*Scene, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json":
		var d Document
		if err := json.NewDecoder(r).Decode(&d); err != nil {
			return nil, errors.Wrapf(err, "Failed to unmarshal json")
		}
		return d.Scene()
	case ".gltf", ".glb":
		return ImportGLTF(r, root)
	case ".yaml", ".yml", "":
		return Load(r)
	default:
		return nil, errors.Errorf("unsupported scene file %q", name)
	}
}

// OpenFile reads a scene file, see Decode.
func OpenFile(path string, root string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := Decode(f, path, root)
	if err != nil {
		return nil, errors.Wrapf(err, "scene %q", path)
	}
	return s, nil
}

func (s *Scene) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s.Document()); err != nil {
		return errors.Wrapf(err, "Failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "Failed to close yaml encoder")
	}
	return nil
}

func (s *Scene) SaveFile(path string) error {
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}
