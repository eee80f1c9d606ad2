package gltfutils

import (
	"io"

	"github.com/qmuntal/gltf"
)

func NewDocument() *gltf.Document {
	return gltf.NewDocument()
}

// RootNodes returns the nodes that are not a child of any node.
func RootNodes(doc *gltf.Document) []uint32 {
	children := make(map[uint32]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			children[c] = true
		}
	}
	roots := make([]uint32, 0, 1)
	for iNode := range doc.Nodes {
		if !children[uint32(iNode)] {
			roots = append(roots, uint32(iNode))
		}
	}
	return roots
}

func ExportBinary(w io.Writer, doc *gltf.Document) error {
	doc.Scenes[0].Nodes = RootNodes(doc)

	encoder := gltf.NewEncoder(w)
	encoder.AsBinary = true
	return encoder.Encode(doc)
}
