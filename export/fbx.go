package export

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	mfbx "github.com/mogaika/fbx"
	"github.com/mogaika/fbx/builders/bfbx73"
	"github.com/pkg/errors"

	"github.com/mogaika/additive_anim/curve"
	"github.com/mogaika/additive_anim/fbx"
	"github.com/mogaika/additive_anim/fbx/cache"
	"github.com/mogaika/additive_anim/scene"
	"github.com/mogaika/additive_anim/skeleton"
	"github.com/mogaika/additive_anim/utils/fbxbuilder"
)

type Format string

const (
	FormatASCII  Format = "ascii"
	FormatBinary Format = "binary"
	// FormatZip is ascii fbx packed with the scene yaml
	FormatZip Format = "zip"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatASCII:
		return FormatASCII, nil
	case FormatBinary, FormatZip:
		return Format(s), nil
	}
	return FormatASCII, errors.Errorf("unknown fbx format %q", s)
}

var channelProperties = [...]struct {
	property string
	node     string
}{
	skeleton.Translation: {"Lcl Translation", "T"},
	skeleton.Rotation:    {"Lcl Rotation", "R"},
	skeleton.Scaling:     {"Lcl Scaling", "S"},
}

func takesOrAll(s *scene.Scene, takes []string) ([]*scene.Take, error) {
	if len(takes) == 0 {
		takes = s.TakeNames()
	}
	result := make([]*scene.Take, len(takes))
	for i, name := range takes {
		if result[i] = s.Take(name); result[i] == nil {
			return nil, errors.Errorf("take %q not found", name)
		}
	}
	return result, nil
}

// takeSpan returns the first and last key frame of a take, the loop range when it has none.
func takeSpan(s *scene.Scene, t *scene.Take) (float64, float64) {
	first, last, found := 0.0, 0.0, false
	s.Root().Walk(func(j *skeleton.Joint, _ int) bool {
		for _, ch := range skeleton.Channels {
			for _, axis := range skeleton.Axes {
				c := t.Curve(j.Name, ch, axis)
				if c == nil {
					continue
				}
				if f, l, ok := c.Range(); ok {
					if !found || f < first {
						first = f
					}
					if !found || l > last {
						last = l
					}
					found = true
				}
			}
		}
		return true
	})
	if !found {
		rng, _ := s.LoopRange()
		return float64(rng.First), float64(rng.Last)
	}
	return first, last
}

func curveKeys(c *curve.Curve, fps float64) ([]int64, []float32) {
	times := make([]int64, len(c.Keys))
	values := make([]float32, len(c.Keys))
	for i, k := range c.Keys {
		times[i] = fbx.FrameTime(k.Time, fps)
		values[i] = float32(k.Value)
	}
	return times, values
}

func restVector(r scene.Rest, ch skeleton.Channel) [3]float64 {
	switch ch {
	case skeleton.Translation:
		return r.Translation
	case skeleton.Rotation:
		return r.Rotation
	}
	return r.Scaling
}

type fbxJoint struct {
	ModelId uint64
}

// ASCIIFBX converts the skeleton and the takes of s into an ascii fbx document.
// All takes are exported when none is named.
func ASCIIFBX(s *scene.Scene, takes ...string) (*fbx.FBX, error) {
	s = s.Snapshot()
	list, err := takesOrAll(s, takes)
	if err != nil {
		return nil, err
	}

	f := fbx.NewFbx()
	fps := s.FPS()
	c := cache.NewCache()

	var exportJoint func(j *skeleton.Joint, parent uint64)
	exportJoint = func(j *skeleton.Joint, parent uint64) {
		fe := c.GetOr(j.Name, func() interface{} { return &fbxJoint{ModelId: f.GenerateId()} }).(*fbxJoint)
		rest := s.Rest(j.Name)

		model := &fbx.Model{
			Id:      fe.ModelId,
			Name:    "Model::" + j.Name,
			Element: "LimbNode",
			Version: 232,
			Shading: true,
			Culling: "CullingOff",
		}
		for _, ch := range skeleton.Channels {
			v := restVector(rest, ch)
			model.Properties70.Add(channelProperties[ch].property, channelProperties[ch].property, "", "A", v[:])
		}
		attr := &fbx.NodeAttribute{
			Id:        f.GenerateId(),
			Name:      "NodeAttribute::" + j.Name,
			Element:   "LimbNode",
			TypeFlags: "Skeleton",
		}
		f.Objects.Model = append(f.Objects.Model, model)
		f.Objects.NodeAttribute = append(f.Objects.NodeAttribute, attr)
		f.Connect(attr.Id, model.Id)
		f.Connect(model.Id, parent)

		for _, child := range j.Children {
			exportJoint(child, model.Id)
		}
	}
	exportJoint(s.Root(), 0)

	f.Takes = &fbx.Takes{}
	var spanStart, spanStop int64
	for iTake, t := range list {
		first, last := takeSpan(s, t)
		start, stop := fbx.FrameTime(first, fps), fbx.FrameTime(last, fps)
		if iTake == 0 || start < spanStart {
			spanStart = start
		}
		if iTake == 0 || stop > spanStop {
			spanStop = stop
		}

		stack := &fbx.AnimationStack{Id: f.GenerateId(), Name: "AnimStack::" + t.Name}
		stack.Properties70.Add("LocalStart", "KTime", "Time", "", start)
		stack.Properties70.Add("LocalStop", "KTime", "Time", "", stop)
		stack.Properties70.Add("ReferenceStart", "KTime", "Time", "", start)
		stack.Properties70.Add("ReferenceStop", "KTime", "Time", "", stop)
		layer := &fbx.AnimationLayer{Id: f.GenerateId(), Name: "AnimLayer::BaseLayer"}
		f.Objects.AnimationStack = append(f.Objects.AnimationStack, stack)
		f.Objects.AnimationLayer = append(f.Objects.AnimationLayer, layer)
		f.Connect(layer.Id, stack.Id)

		s.Root().Walk(func(j *skeleton.Joint, _ int) bool {
			model := c.Get(j.Name).(*fbxJoint).ModelId
			rest := s.Rest(j.Name)
			for _, ch := range skeleton.Channels {
				var curves [3]*curve.Curve
				used := false
				for _, axis := range skeleton.Axes {
					if cv := t.Curve(j.Name, ch, axis); cv != nil && cv.Len() != 0 {
						curves[axis] = cv
						used = true
					}
				}
				if !used {
					continue
				}

				def := restVector(rest, ch)
				node := &fbx.AnimationCurveNode{Id: f.GenerateId(), Name: "AnimCurveNode::" + channelProperties[ch].node}
				f.Objects.AnimationCurveNode = append(f.Objects.AnimationCurveNode, node)
				f.Connect(node.Id, layer.Id)
				f.Connect(node.Id, model, channelProperties[ch].property)

				for _, axis := range skeleton.Axes {
					prop := "d|" + axis.String()
					cv := curves[axis]
					if cv == nil {
						node.Properties70.Add(prop, "Number", "", "A", def[axis])
						continue
					}
					v0, _ := cv.Evaluate(0)
					node.Properties70.Add(prop, "Number", "", "A", v0)

					times, values := curveKeys(cv, fps)
					ac := &fbx.AnimationCurve{
						Id:               f.GenerateId(),
						Name:             "AnimCurve::",
						Default:          v0,
						KeyVer:           4009,
						KeyTime:          times,
						KeyValueFloat:    values,
						KeyAttrFlags:     []int32{keyFlags(cv.Interpolation)},
						KeyAttrDataFloat: []float32{0, 0, 0, 0},
						KeyAttrRefCount:  []int32{int32(len(times))},
					}
					f.Objects.AnimationCurve = append(f.Objects.AnimationCurve, ac)
					f.Connect(ac.Id, node.Id, prop)
				}
			}
			return true
		})

		f.Takes.Take = append(f.Takes.Take, &fbx.Take{
			Name:          t.Name,
			FileName:      t.Name + ".tak",
			LocalTime:     []int64{start, stop},
			ReferenceTime: []int64{start, stop},
		})
	}
	if len(list) != 0 {
		f.Takes.Current = list[len(list)-1].Name
		f.Documents.Document[0].Properties70.Add("ActiveAnimStackName", "KString", "", "", f.Takes.Current)
	}

	f.SetFrameRate(fps, spanStart, spanStop)
	f.CountDefinitions()
	return f, nil
}

const (
	keyInterpolationConstant = 0x00000002
	keyInterpolationLinear   = 0x00000004
)

func keyFlags(i curve.Interpolation) int32 {
	if i == curve.Constant {
		return keyInterpolationConstant
	}
	return keyInterpolationLinear
}

// BinaryFBX builds the same document as ASCIIFBX with the binary fbx builder.
func BinaryFBX(s *scene.Scene, filename string, takes ...string) (*fbxbuilder.FBXBuilder, error) {
	s = s.Snapshot()
	list, err := takesOrAll(s, takes)
	if err != nil {
		return nil, err
	}
	f := fbxbuilder.NewFBXBuilder(filename)
	fps := s.FPS()

	var exportJoint func(j *skeleton.Joint, parent int64)
	exportJoint = func(j *skeleton.Joint, parent int64) {
		id := f.GenerateId()
		f.AddCache(j.Name, id)
		rest := s.Rest(j.Name)

		props := bfbx73.Properties70()
		for _, ch := range skeleton.Channels {
			v := restVector(rest, ch)
			p := channelProperties[ch].property
			props.AddNodes(bfbx73.P(p, p, "", "A", v[0], v[1], v[2]))
		}
		model := bfbx73.Model(id, j.Name+"\x00\x01Model", "LimbNode").AddNodes(
			bfbx73.Version(232),
			props,
			bfbx73.Shading(true),
			bfbx73.Culling("CullingOff"),
		)
		attr := bfbx73.NodeAttribute(f.GenerateId(), j.Name+"\x00\x01NodeAttribute", "LimbNode").AddNodes(
			bfbx73.TypeFlags("Skeleton"),
		)
		f.AddObjects(model, attr)
		f.AddConnections(
			bfbx73.C("OO", attr.Properties[0].(int64), id),
			bfbx73.C("OO", id, parent),
		)
		for _, child := range j.Children {
			exportJoint(child, id)
		}
	}
	exportJoint(s.Root(), 0)

	var spanStart, spanStop int64
	for iTake, t := range list {
		first, last := takeSpan(s, t)
		start, stop := fbxbuilder.FrameTime(first, fps), fbxbuilder.FrameTime(last, fps)
		if iTake == 0 || start < spanStart {
			spanStart = start
		}
		if iTake == 0 || stop > spanStop {
			spanStop = stop
		}

		stackId, layerId := f.GenerateId(), f.GenerateId()
		f.AddObjects(
			mfbx.NewNode("AnimationStack", stackId, t.Name+"\x00\x01AnimStack", "").AddNodes(
				bfbx73.Properties70().AddNodes(
					bfbx73.P("LocalStart", "KTime", "Time", "", start),
					bfbx73.P("LocalStop", "KTime", "Time", "", stop),
					bfbx73.P("ReferenceStart", "KTime", "Time", "", start),
					bfbx73.P("ReferenceStop", "KTime", "Time", "", stop),
				),
			),
			mfbx.NewNode("AnimationLayer", layerId, "BaseLayer\x00\x01AnimLayer", ""),
		)
		f.AddConnections(bfbx73.C("OO", layerId, stackId))

		s.Root().Walk(func(j *skeleton.Joint, _ int) bool {
			model := f.GetCached(j.Name).(int64)
			rest := s.Rest(j.Name)
			for _, ch := range skeleton.Channels {
				nodeProps := bfbx73.Properties70()
				nodeId := int64(0)
				def := restVector(rest, ch)
				for _, axis := range skeleton.Axes {
					cv := t.Curve(j.Name, ch, axis)
					if cv == nil || cv.Len() == 0 {
						continue
					}
					if nodeId == 0 {
						nodeId = f.GenerateId()
					}
					prop := "d|" + axis.String()
					v0, _ := cv.Evaluate(0)
					def[axis] = v0

					curveId := f.GenerateId()
					times, values := curveKeys(cv, fps)
					f.AddObjects(mfbx.NewNode("AnimationCurve", curveId, "\x00\x01AnimCurve", "").AddNodes(
						mfbx.NewNode("Default", v0),
						mfbx.NewNode("KeyVer", int32(4009)),
						mfbx.NewNode("KeyTime", times),
						mfbx.NewNode("KeyValueFloat", values),
						mfbx.NewNode("KeyAttrFlags", []int32{keyFlags(cv.Interpolation)}),
						mfbx.NewNode("KeyAttrDataFloat", []float32{0, 0, 0, 0}),
						mfbx.NewNode("KeyAttrRefCount", []int32{int32(len(times))}),
					))
					f.ConnectProperty(curveId, nodeId, prop)
				}
				if nodeId == 0 {
					continue
				}
				for _, axis := range skeleton.Axes {
					nodeProps.AddNodes(bfbx73.P("d|"+axis.String(), "Number", "", "A", def[axis]))
				}
				f.AddObjects(mfbx.NewNode("AnimationCurveNode", nodeId,
					channelProperties[ch].node+"\x00\x01AnimCurveNode", "").AddNodes(nodeProps))
				f.AddConnections(bfbx73.C("OO", nodeId, layerId))
				f.ConnectProperty(nodeId, model, channelProperties[ch].property)
			}
			return true
		})

		f.AddTake(t.Name, start, stop)
	}
	if len(list) != 0 {
		f.SetActiveTake(list[len(list)-1].Name)
	}
	f.SetFrameRate(fps, spanStart, spanStop)
	return f, nil
}

// WriteFBX exports the takes of s in the given format.
func WriteFBX(w io.Writer, s *scene.Scene, format Format, filename string, takes ...string) error {
	s = s.Snapshot()
	switch format {
	case FormatBinary:
		f, err := BinaryFBX(s, filename, takes...)
		if err != nil {
			return err
		}
		return f.Write(w)
	case FormatZip:
		f, err := ASCIIFBX(s, takes...)
		if err != nil {
			return err
		}
		doc, err := sceneYaml(s)
		if err != nil {
			return err
		}
		base := filepath.Base(filename)
		f.AddExportFile(fmt.Sprintf("%s.yaml", strings.TrimSuffix(base, filepath.Ext(base))), doc)
		return f.ExportZip(w, base)
	default:
		f, err := ASCIIFBX(s, takes...)
		if err != nil {
			return err
		}
		return f.Export(w)
	}
}

func sceneYaml(s *scene.Scene) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
