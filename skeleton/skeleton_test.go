package skeleton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree() *Joint {
	hips := NewJoint("b_Hips")
	spine := hips.AddChild(NewJoint("b_Spine"))
	spine.AddChild(NewJoint("b_Neck"))
	hips.AddChild(NewJoint("b_LeftUpLeg"))
	return hips
}

func TestWalkOrder(t *testing.T) {
	root := buildTree()
	assert.Equal(t, []string{"b_Hips", "b_Spine", "b_Neck", "b_LeftUpLeg"}, root.Names())
	assert.Equal(t, 4, root.Count())
}

func TestWalkSkipSubtree(t *testing.T) {
	root := buildTree()
	var visited []string
	root.Walk(func(j *Joint, depth int) bool {
		visited = append(visited, j.Name)
		return j.Name != "b_Spine"
	})
	assert.Equal(t, []string{"b_Hips", "b_Spine", "b_LeftUpLeg"}, visited)
}

func TestFind(t *testing.T) {
	root := buildTree()
	neck := root.Find("b_Neck")
	require.NotNil(t, neck)
	assert.Equal(t, "b_Spine", neck.Parent.Name)
	assert.Nil(t, root.Find("missing"))
}

func TestValidate(t *testing.T) {
	root := buildTree()
	require.NoError(t, root.Validate())

	root.AddChild(NewJoint("b_Neck"))
	assert.Error(t, root.Validate())

	loop := NewJoint("a")
	loop.Children = append(loop.Children, loop)
	assert.Error(t, loop.Validate())
}

func TestFromParents(t *testing.T) {
	roots, err := FromParents(
		[]string{"root", "a", "b", "c"},
		[]int{-1, 0, 1, 0})
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, []string{"root", "a", "b", "c"}, roots[0].Names())

	_, err = FromParents([]string{"a", "b"}, []int{1, -1})
	assert.Error(t, err)
}

func TestParseChannel(t *testing.T) {
	for _, ch := range Channels {
		parsed, err := ParseChannel(ch.String())
		require.NoError(t, err)
		assert.Equal(t, ch, parsed)
	}
	_, err := ParseChannel("shear")
	assert.Error(t, err)
}
