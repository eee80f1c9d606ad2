package skeleton

import (
	"fmt"

	"github.com/pkg/errors"
)

type Channel int

const (
	Translation Channel = iota
	Rotation
	Scaling
)

var channelNames = [...]string{"translation", "rotation", "scaling"}

func (c Channel) String() string {
	if c < 0 || int(c) >= len(channelNames) {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel accepts the names produced by Channel.String.
func ParseChannel(s string) (Channel, error) {
	for i, n := range channelNames {
		if n == s {
			return Channel(i), nil
		}
	}
	return 0, errors.Errorf("unknown channel %q", s)
}

var Channels = [...]Channel{Translation, Rotation, Scaling}

type Axis int

const (
	X Axis = iota
	Y
	Z
)

var Axes = [...]Axis{X, Y, Z}

func (a Axis) String() string {
	switch a {
	case X:
		return "X"
	case Y:
		return "Y"
	case Z:
		return "Z"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// ChannelReader evaluates a joint channel of the take it is bound to.
// Time is measured in frames and may be fractional.
type ChannelReader interface {
	EvaluateChannel(j *Joint, ch Channel, axis Axis, time float64) (float64, error)
}

// KeyWriter appends a discrete key to a joint channel of the take it is bound to.
type KeyWriter interface {
	AddKey(j *Joint, ch Channel, axis Axis, time float64, value float64) error
}

// Joint is a node of a strictly tree shaped hierarchy.
type Joint struct {
	Name     string
	Parent   *Joint
	Children []*Joint
}

func NewJoint(name string) *Joint {
	return &Joint{Name: name}
}

// AddChild appends c to the children of j and returns c.
func (j *Joint) AddChild(c *Joint) *Joint {
	c.Parent = j
	j.Children = append(j.Children, c)
	return c
}

// Walk visits j and then its subtrees in children order.
// Returning false from fn skips the subtree of that joint.
func (j *Joint) Walk(fn func(j *Joint, depth int) bool) {
	j.walk(fn, 0)
}

func (j *Joint) walk(fn func(j *Joint, depth int) bool, depth int) {
	if !fn(j, depth) {
		return
	}
	for _, c := range j.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of joints in the subtree rooted at j.
func (j *Joint) Count() int {
	n := 0
	j.Walk(func(*Joint, int) bool {
		n++
		return true
	})
	return n
}

// Find returns the first joint named name in pre-order, or nil.
func (j *Joint) Find(name string) *Joint {
	var found *Joint
	j.Walk(func(c *Joint, _ int) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// Names lists joint names in traversal order.
func (j *Joint) Names() []string {
	names := make([]string, 0, 16)
	j.Walk(func(c *Joint, _ int) bool {
		names = append(names, c.Name)
		return true
	})
	return names
}

// Validate checks that the subtree is a tree with unique non-empty names.
func (j *Joint) Validate() error {
	seen := make(map[*Joint]struct{})
	names := make(map[string]struct{})
	var check func(j *Joint, parent *Joint) error
	check = func(j *Joint, parent *Joint) error {
		if _, ok := seen[j]; ok {
			return errors.Errorf("joint %q visited twice", j.Name)
		}
		seen[j] = struct{}{}
		if j.Name == "" {
			return errors.New("joint without name")
		}
		if _, ok := names[j.Name]; ok {
			return errors.Errorf("duplicate joint name %q", j.Name)
		}
		names[j.Name] = struct{}{}
		if parent != nil && j.Parent != parent {
			return errors.Errorf("joint %q has wrong parent link", j.Name)
		}
		for _, c := range j.Children {
			if err := check(c, j); err != nil {
				return err
			}
		}
		return nil
	}
	return check(j, nil)
}

// FromParents builds hierarchies from a flat joint list where parents[i] is the
// index of the parent of joint i or -1. Parents must precede their children.
func FromParents(names []string, parents []int) ([]*Joint, error) {
	if len(names) != len(parents) {
		return nil, errors.Errorf("names/parents length mismatch %d != %d", len(names), len(parents))
	}
	joints := make([]*Joint, len(names))
	roots := make([]*Joint, 0, 1)
	for i, name := range names {
		joints[i] = NewJoint(name)
		p := parents[i]
		switch {
		case p < 0:
			roots = append(roots, joints[i])
		case p >= i:
			return nil, errors.Errorf("joint %q (%d) references parent %d declared after it", name, i, p)
		default:
			joints[p].AddChild(joints[i])
		}
	}
	return roots, nil
}
