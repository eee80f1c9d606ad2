package export

import (
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"

	"github.com/mogaika/additive_anim/scene"
	"github.com/mogaika/additive_anim/skeleton"
	"github.com/mogaika/additive_anim/utils"
	"github.com/mogaika/additive_anim/utils/gltfutils"
)

// SkeletonGLTF converts the skeleton of s into glTF nodes carrying the rest pose.
func SkeletonGLTF(s *scene.Scene) *gltf.Document {
	s = s.Snapshot()
	doc := gltfutils.NewDocument()

	var exportJoint func(j *skeleton.Joint) uint32
	exportJoint = func(j *skeleton.Joint) uint32 {
		rest := s.Rest(j.Name)
		q := utils.EulerToQuat(utils.DegreeToRadiansV3(mgl64.Vec3(rest.Rotation)))

		id := uint32(len(doc.Nodes))
		node := &gltf.Node{
			Name:        j.Name,
			Translation: utils.Vec3To32(rest.Translation),
			Rotation:    [4]float32{float32(q.V[0]), float32(q.V[1]), float32(q.V[2]), float32(q.W)},
			Scale:       utils.Vec3To32(rest.Scaling),
		}
		doc.Nodes = append(doc.Nodes, node)
		for _, c := range j.Children {
			node.Children = append(node.Children, exportJoint(c))
		}
		return id
	}
	exportJoint(s.Root())

	return doc
}

func WriteSkeletonGLB(w io.Writer, s *scene.Scene) error {
	return gltfutils.ExportBinary(w, SkeletonGLTF(s))
}
