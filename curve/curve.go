package curve

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

type Interpolation int

const (
	Linear Interpolation = iota
	Constant
)

func (i Interpolation) String() string {
	if i == Constant {
		return "constant"
	}
	return "linear"
}

func ParseInterpolation(s string) (Interpolation, error) {
	switch s {
	case "", "linear":
		return Linear, nil
	case "constant":
		return Constant, nil
	}
	return Linear, errors.Errorf("unknown interpolation %q", s)
}

type Key struct {
	Time  float64
	Value float64
}

// Curve is a sorted list of keys on one channel axis.
// Outside the keyed range the curve holds the first/last key value.
type Curve struct {
	Keys          []Key
	Interpolation Interpolation
}

// AddKey inserts a key, replacing the value of an existing key at the same time.
func (c *Curve) AddKey(time, value float64) error {
	if math.IsNaN(time) || math.IsInf(time, 0) {
		return errors.Errorf("invalid key time %v", time)
	}
	i := sort.Search(len(c.Keys), func(i int) bool { return c.Keys[i].Time >= time })
	if i < len(c.Keys) && c.Keys[i].Time == time {
		c.Keys[i].Value = value
		return nil
	}
	c.Keys = append(c.Keys, Key{})
	copy(c.Keys[i+1:], c.Keys[i:])
	c.Keys[i] = Key{Time: time, Value: value}
	return nil
}

func (c *Curve) Len() int { return len(c.Keys) }

// Evaluate returns the curve value at time; ok is false for a curve without keys.
func (c *Curve) Evaluate(time float64) (v float64, ok bool) {
	n := len(c.Keys)
	if n == 0 {
		return 0, false
	}
	if time <= c.Keys[0].Time {
		return c.Keys[0].Value, true
	}
	if time >= c.Keys[n-1].Time {
		return c.Keys[n-1].Value, true
	}
	i := sort.Search(n, func(i int) bool { return c.Keys[i].Time > time })
	k0, k1 := c.Keys[i-1], c.Keys[i]
	if c.Interpolation == Constant {
		return k0.Value, true
	}
	f := (time - k0.Time) / (k1.Time - k0.Time)
	return k0.Value + (k1.Value-k0.Value)*f, true
}

// Range returns the time of the first and last key.
func (c *Curve) Range() (first, last float64, ok bool) {
	if len(c.Keys) == 0 {
		return 0, 0, false
	}
	return c.Keys[0].Time, c.Keys[len(c.Keys)-1].Time, true
}

func (c *Curve) Clone() *Curve {
	keys := make([]Key, len(c.Keys))
	copy(keys, c.Keys)
	return &Curve{Keys: keys, Interpolation: c.Interpolation}
}
