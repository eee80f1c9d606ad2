package matrix

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/mogaika/additive_anim/skeleton"
)

const degToRad = 0.017453292519943295769236907684886

// Transform is a 4×4 matrix stored row-major, row-vector convention:
// rows 0..2 are the scaled basis vectors, row 3 is translation.
// Read column-major the same 16 values form the column-vector matrix (mgl64.Mat4).
type Transform [16]float64

func Identity() Transform {
	return Transform{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Compose builds a joint local transform from translation, Euler rotation in
// degrees (applied X, then Y, then Z) and per-axis scale.
func Compose(translation, rotation, scaling [3]float64) Transform {
	phi := rotation[0] * degToRad
	theta := rotation[1] * degToRad
	psi := rotation[2] * degToRad

	sphi, cphi := math.Sin(phi), math.Cos(phi)
	stheta, ctheta := math.Sin(theta), math.Cos(theta)
	spsi, cpsi := math.Sin(psi), math.Cos(psi)

	m := Identity()

	m[0] = (cpsi * ctheta) * scaling[0]
	m[1] = (spsi * ctheta) * scaling[0]
	m[2] = (-stheta) * scaling[0]

	m[4] = (cpsi*stheta*sphi - spsi*cphi) * scaling[1]
	m[5] = (spsi*stheta*sphi + cpsi*cphi) * scaling[1]
	m[6] = (ctheta * sphi) * scaling[1]

	m[8] = (cpsi*stheta*cphi + spsi*sphi) * scaling[2]
	m[9] = (spsi*stheta*cphi - cpsi*sphi) * scaling[2]
	m[10] = (ctheta * cphi) * scaling[2]

	m[12] = translation[0]
	m[13] = translation[1]
	m[14] = translation[2]

	return m
}

// BuildTransform samples the rotation, scaling and translation channels of j at time.
func BuildTransform(r skeleton.ChannelReader, j *skeleton.Joint, time float64) (Transform, error) {
	var values [3][3]float64
	for _, ch := range skeleton.Channels {
		for _, axis := range skeleton.Axes {
			v, err := r.EvaluateChannel(j, ch, axis, time)
			if err != nil {
				return Transform{}, errors.Wrapf(err, "joint %q %v.%v at %v", j.Name, ch, axis, time)
			}
			values[ch][axis] = v
		}
	}
	return Compose(values[skeleton.Translation], values[skeleton.Rotation], values[skeleton.Scaling]), nil
}

// Multiply composes child into parent space: result = child × parent in
// row-major arithmetic.
func Multiply(parent, child Transform) Transform {
	return FromMat4(parent.Mat4().Mul4(child.Mat4()))
}

// Mat4 reinterprets m as a column-vector mathgl matrix.
func (m Transform) Mat4() mgl64.Mat4 {
	return mgl64.Mat4(m)
}

func FromMat4(m mgl64.Mat4) Transform {
	return Transform(m)
}

func (m Transform) ApproxEqual(o Transform, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// Translation returns row 3.
func (m Transform) Translation() [3]float64 {
	return [3]float64{m[12], m[13], m[14]}
}
