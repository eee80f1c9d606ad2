package utils

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// result in radians, applied X then Y then Z
func QuatToEuler(q mgl64.Quat) (e mgl64.Vec3) {
	sinr_cosp := 2 * (q.W*q.X() + q.Y()*q.Z())
	cosr_cosp := 1 - 2*(q.X()*q.X()+q.Y()*q.Y())

	e[0] = math.Atan2(sinr_cosp, cosr_cosp)

	sinp := 2 * (q.W*q.Y() - q.Z()*q.X())
	if math.Abs(sinp) >= 1 {
		e[1] = math.Pi / 2
		if sinp < 0 {
			e[1] *= -1
		}
	} else {
		e[1] = math.Asin(sinp)
	}

	siny_cosp := 2 * (q.W*q.Z() + q.X()*q.Y())
	cosy_cosp := 1 - 2*(q.Y()*q.Y()+q.Z()*q.Z())
	e[2] = math.Atan2(siny_cosp, cosy_cosp)

	return e
}

func DegreeToRadiansV3(v mgl64.Vec3) mgl64.Vec3 {
	return v.Mul(math.Pi / 180.0)
}

func RadiansToDegreeV3(v mgl64.Vec3) mgl64.Vec3 {
	return v.Mul(180.0 / math.Pi)
}

// input in radians
func EulerToQuat(v mgl64.Vec3) (q mgl64.Quat) {
	sx, cx := math.Sincos(v[0] * 0.5)
	sy, cy := math.Sincos(v[1] * 0.5)
	sz, cz := math.Sincos(v[2] * 0.5)

	q.V[0] = sx*cy*cz - cx*sy*sz
	q.V[1] = cx*sy*cz + sx*cy*sz
	q.V[2] = cx*cy*sz - sx*sy*cz
	q.W = cx*cy*cz + sx*sy*sz

	return q.Normalize()
}

func Vec3To32(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}

func Vec3To64(v [3]float32) [3]float64 {
	return [3]float64{float64(v[0]), float64(v[1]), float64(v[2])}
}
