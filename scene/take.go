package scene

import (
	"github.com/mogaika/additive_anim/curve"
	"github.com/mogaika/additive_anim/skeleton"
)

type curveKey struct {
	joint string
	ch    skeleton.Channel
	axis  skeleton.Axis
}

// Take is a named set of channel curves over the scene skeleton.
// Channels without curve fall back to the rest pose.
// Take methods do not take the scene lock; use them while building a scene.
type Take struct {
	Name   string
	curves map[curveKey]*curve.Curve
}

func NewTake(name string) *Take {
	return &Take{Name: name, curves: make(map[curveKey]*curve.Curve)}
}

// Curve returns the curve of a joint channel axis or nil.
func (t *Take) Curve(joint string, ch skeleton.Channel, axis skeleton.Axis) *curve.Curve {
	return t.curves[curveKey{joint, ch, axis}]
}

func (t *Take) curveOrCreate(joint string, ch skeleton.Channel, axis skeleton.Axis) *curve.Curve {
	k := curveKey{joint, ch, axis}
	c, ok := t.curves[k]
	if !ok {
		c = &curve.Curve{}
		t.curves[k] = c
	}
	return c
}

func (t *Take) SetCurve(joint string, ch skeleton.Channel, axis skeleton.Axis, c *curve.Curve) {
	if c == nil {
		delete(t.curves, curveKey{joint, ch, axis})
		return
	}
	t.curves[curveKey{joint, ch, axis}] = c
}

// Key adds a key directly, without activating the take.
func (t *Take) Key(joint string, ch skeleton.Channel, axis skeleton.Axis, time, value float64) error {
	return t.curveOrCreate(joint, ch, axis).AddKey(time, value)
}

// KeyCount returns the number of keys over all curves.
func (t *Take) KeyCount() int {
	n := 0
	for _, c := range t.curves {
		n += c.Len()
	}
	return n
}

// Clear removes all curves.
func (t *Take) Clear() {
	t.curves = make(map[curveKey]*curve.Curve)
}

func (t *Take) clone(name string) *Take {
	nt := NewTake(name)
	for k, c := range t.curves {
		nt.curves[k] = c.Clone()
	}
	return nt
}
