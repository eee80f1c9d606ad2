package matrix

import (
	"math"

	"github.com/pkg/errors"
)

// Euler holds rotation angles in degrees indexed by the axis they are keyed on.
type Euler [3]float64

func (e Euler) ApproxEqual(o Euler, eps float64) bool {
	for i := range e {
		if math.Abs(e[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

type GimbalMode int

const (
	// GimbalCompat computes the gimbal lock special case and then
	// unconditionally overwrites it with the general decomposition.
	GimbalCompat GimbalMode = iota
	// GimbalGuard returns the special case when |sin(attitude)| > GimbalThreshold.
	GimbalGuard
)

const GimbalThreshold = 0.998

func (g GimbalMode) String() string {
	if g == GimbalGuard {
		return "guard"
	}
	return "compat"
}

func ParseGimbalMode(s string) (GimbalMode, error) {
	switch s {
	case "", "compat":
		return GimbalCompat, nil
	case "guard":
		return GimbalGuard, nil
	}
	return GimbalCompat, errors.Errorf("unknown gimbal mode %q", s)
}

// ExtractEuler decomposes the rotation part of m into heading/attitude/bank
// and returns them as (-bank, -heading, -attitude) degrees.
// m[4] is taken as sin(attitude) and clamped to [-1, 1].
func ExtractEuler(m Transform, mode GimbalMode) Euler {
	var heading, attitude, bank float64

	if m[4] > GimbalThreshold {
		heading = math.Atan2(m[2], m[10])
		attitude = math.Pi / 2
		bank = 0
		if mode == GimbalGuard {
			return toAxes(heading, attitude, bank)
		}
	}
	if m[4] < -GimbalThreshold {
		heading = math.Atan2(m[2], m[10])
		attitude = -math.Pi / 2
		bank = 0
		if mode == GimbalGuard {
			return toAxes(heading, attitude, bank)
		}
	}

	heading = math.Atan2(-m[8], m[0])
	bank = math.Atan2(-m[6], m[5])
	attitude = math.Asin(math.Max(-1, math.Min(1, m[4])))

	return toAxes(heading, attitude, bank)
}

func toAxes(heading, attitude, bank float64) Euler {
	heading = heading * 180 / math.Pi
	attitude = attitude * 180 / math.Pi
	bank = bank * 180 / math.Pi
	return Euler{-bank, -heading, -attitude}
}
