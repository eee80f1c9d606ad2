package scene

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	log "github.com/sirupsen/logrus"

	"github.com/mogaika/additive_anim/skeleton"
	"github.com/mogaika/additive_anim/utils"
)

// ImportGLTF builds a scene from the node hierarchy of a glTF file.
// The skeleton starts at the node named root, or at the first node of the
// default scene when root is empty. Node local transforms become rest poses.
func ImportGLTF(r io.Reader, root string) (*Scene, error) {
	doc := &gltf.Document{}
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, errors.Wrapf(err, "Failed to read gltf")
	}
	if len(doc.Nodes) == 0 {
		return nil, errors.New("gltf without nodes")
	}

	start := -1
	if root != "" {
		for i, n := range doc.Nodes {
			if n.Name == root {
				start = i
				break
			}
		}
		if start < 0 {
			return nil, errors.Errorf("gltf node %q not found", root)
		}
	} else if len(doc.Scenes) != 0 && len(doc.Scenes[0].Nodes) != 0 {
		start = int(doc.Scenes[0].Nodes[0])
	} else {
		start = 0
	}

	s := &Scene{rest: make(map[string]Rest), fps: DefaultFPS}
	visited := make(map[uint32]bool)

	var build func(id uint32, parent *skeleton.Joint) (*skeleton.Joint, error)
	build = func(id uint32, parent *skeleton.Joint) (*skeleton.Joint, error) {
		if int(id) >= len(doc.Nodes) {
			return nil, errors.Errorf("gltf node index %d out of range", id)
		}
		if visited[id] {
			return nil, errors.Errorf("gltf node %d referenced twice", id)
		}
		visited[id] = true

		node := doc.Nodes[id]
		j := skeleton.NewJoint(node.Name)
		if j.Name == "" {
			j.Name = fmt.Sprintf("node%d", id)
		}
		if parent != nil {
			parent.AddChild(j)
		}
		s.rest[j.Name] = nodeRest(node)
		log.Debugf("[scene] gltf node %q (%d children)", j.Name, len(node.Children))

		for _, c := range node.Children {
			if _, err := build(c, j); err != nil {
				return nil, err
			}
		}
		return j, nil
	}

	j, err := build(uint32(start), nil)
	if err != nil {
		return nil, err
	}
	if err := j.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid gltf skeleton")
	}
	s.root = j
	return s, nil
}

func nodeRest(node *gltf.Node) Rest {
	rest := DefaultRest()
	rest.Translation = utils.Vec3To64(node.Translation)

	q := mgl64.Quat{
		W: float64(node.Rotation[3]),
		V: mgl64.Vec3{float64(node.Rotation[0]), float64(node.Rotation[1]), float64(node.Rotation[2])},
	}
	if q.Len() != 0 {
		rest.Rotation = utils.RadiansToDegreeV3(utils.QuatToEuler(q.Normalize()))
	}

	if node.Scale != [3]float32{} {
		rest.Scaling = utils.Vec3To64(node.Scale)
	}
	return rest
}
