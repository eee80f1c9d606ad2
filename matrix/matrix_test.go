package matrix

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const eps = 1e-6

func randomTransform(r *rand.Rand) Transform {
	rnd := func(lo, hi float64) float64 { return lo + r.Float64()*(hi-lo) }
	return Compose(
		[3]float64{rnd(-100, 100), rnd(-100, 100), rnd(-100, 100)},
		[3]float64{rnd(-60, 60), rnd(-60, 60), rnd(-60, 60)},
		[3]float64{rnd(0.5, 2), rnd(0.5, 2), rnd(0.5, 2)})
}

func TestComposeMatchesMathgl(t *testing.T) {
	tr := [3]float64{1, -2, 3}
	rot := [3]float64{25, -40, 70}
	sc := [3]float64{1.5, 0.5, 2}

	want := mgl64.Translate3D(tr[0], tr[1], tr[2]).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(rot[2]))).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(rot[1]))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(rot[0]))).
		Mul4(mgl64.Scale3D(sc[0], sc[1], sc[2]))

	got := Compose(tr, rot, sc)
	assert.True(t, got.Mat4().ApproxEqualThreshold(want, 1e-12), "got %v want %v", got, want)
	assert.Equal(t, tr, got.Translation())
	assert.Equal(t, [4]float64{0, 0, 0, 1}, [4]float64{got[3], got[7], got[11], got[15]})
}

func TestComposeRest(t *testing.T) {
	assert.Equal(t, Identity(), Compose([3]float64{}, [3]float64{}, [3]float64{1, 1, 1}))
}

func TestMultiplyMatchesMathgl(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		parent, child := randomTransform(r), randomTransform(r)
		got := Multiply(parent, child)

		// row-major child × parent
		var rows mat.Dense
		rows.Mul(mat.NewDense(4, 4, child[:]), mat.NewDense(4, 4, parent[:]))
		require.True(t, mat.EqualApprox(&rows, mat.NewDense(4, 4, got[:]), 1e-9))
	}
}

func TestMultiplyAppliesChildFirst(t *testing.T) {
	parent := Compose([3]float64{10, 0, 0}, [3]float64{}, [3]float64{1, 1, 1})
	child := Compose([3]float64{0, 0, 0}, [3]float64{0, 0, 90}, [3]float64{1, 1, 1})
	world := Multiply(parent, child)

	p := mgl64.TransformCoordinate(mgl64.Vec3{1, 0, 0}, world.Mat4())
	assert.InDelta(t, 10, p[0], 1e-12)
	assert.InDelta(t, 1, p[1], 1e-12)
}

func TestInverseIdentity(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		m := randomTransform(r)
		inv, err := Invert(m)
		require.NoError(t, err)
		require.True(t, Multiply(m, inv).ApproxEqual(Identity(), eps), "M*inv(M) for %v", m)
		require.True(t, Multiply(inv, m).ApproxEqual(Identity(), eps))
	}
}

func TestInverseInvolution(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		m := randomTransform(r)
		inv, err := Invert(m)
		require.NoError(t, err)
		back, err := Invert(inv)
		require.NoError(t, err)
		require.True(t, back.ApproxEqual(m, eps))
	}
}

func TestInverseAgainstReferenceLibraries(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 50; i++ {
		m := randomTransform(r)
		inv, err := Invert(m)
		require.NoError(t, err)

		require.True(t, inv.Mat4().ApproxEqualThreshold(m.Mat4().Inv(), eps))

		dense := mat.NewDense(4, 4, m[:])
		var dinv mat.Dense
		require.NoError(t, dinv.Inverse(dense))
		require.True(t, mat.EqualApprox(&dinv, mat.NewDense(4, 4, inv[:]), eps))
	}
}

func TestInvertLeavesArgument(t *testing.T) {
	m := Compose([3]float64{1, 2, 3}, [3]float64{10, 20, 30}, [3]float64{2, 2, 2})
	orig := m
	_, err := Invert(m)
	require.NoError(t, err)
	assert.Equal(t, orig, m)
}

func TestInvertSingular(t *testing.T) {
	var tests = []struct {
		name string
		m    Transform
		row  int
	}{
		{"zero", Transform{}, 0},
		{"zero scale", Compose([3]float64{}, [3]float64{}, [3]float64{1, 0, 1}), 1},
		// invertible, but needs a row swap
		{"permutation", Transform{
			0, 1, 0, 0,
			1, 0, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		}, 0},
	}
	for _, test := range tests {
		_, err := Invert(test.m)
		var serr *SingularMatrixError
		require.ErrorAsf(t, err, &serr, test.name)
		assert.Equalf(t, test.row, serr.Row, test.name)
	}
}

func TestExtractSingleAxisRoundTrip(t *testing.T) {
	for _, mode := range []GimbalMode{GimbalCompat, GimbalGuard} {
		for axis := 0; axis < 3; axis++ {
			for angle := -89.8; angle <= 89.8; angle += 3.7 {
				var rot [3]float64
				rot[axis] = angle
				// inside the gimbal zone the guarded mode answers ±90 on Z
				if mode == GimbalGuard && axis == 2 && math.Abs(math.Sin(angle*degToRad)) > GimbalThreshold {
					continue
				}
				m := Compose([3]float64{5, 6, 7}, rot, [3]float64{1, 1, 1})
				got := ExtractEuler(m, mode)
				require.Truef(t, got.ApproxEqual(Euler(rot), 1e-9), "%v axis %d: got %v want %v", mode, axis, got, rot)
			}
		}
	}
}

func TestExtractOwnDecompositionExact(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		x := -170 + r.Float64()*340
		y := -170 + r.Float64()*340
		z := -80 + r.Float64()*160
		m := FromMat4(mgl64.HomogRotate3DX(mgl64.DegToRad(x)).
			Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(z))).
			Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(y))))
		got := ExtractEuler(m, GimbalCompat)
		require.Truef(t, got.ApproxEqual(Euler{x, y, z}, 1e-7), "got %v want %v", got, Euler{x, y, z})
	}
}

func TestExtractComposedSmallAngles(t *testing.T) {
	// Compose uses Z·Y·X while extraction decomposes X·Z·Y;
	// they agree to second order for small combined rotations.
	rot := [3]float64{0.5, -0.4, 0.3}
	got := ExtractEuler(Compose([3]float64{}, rot, [3]float64{1, 1, 1}), GimbalCompat)
	assert.True(t, got.ApproxEqual(Euler(rot), 0.05), "got %v", got)
}

func gimbalMatrix(x, y, z float64) Transform {
	return FromMat4(mgl64.HomogRotate3DX(mgl64.DegToRad(x)).
		Mul4(mgl64.HomogRotate3DZ(mgl64.DegToRad(z))).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(y))))
}

func TestExtractGimbalCompat(t *testing.T) {
	// special case is computed and discarded
	for _, z := range []float64{-89.95, 89.95} {
		m := gimbalMatrix(10, 20, z)
		require.Greater(t, math.Abs(m[4]), GimbalThreshold)
		got := ExtractEuler(m, GimbalCompat)
		assert.Truef(t, got.ApproxEqual(Euler{10, 20, z}, 1e-6), "z=%v got %v", z, got)
	}
}

func TestExtractGimbalGuard(t *testing.T) {
	var tests = []struct {
		z     float64
		wantZ float64
	}{
		{-89.95, -90},
		{-90, -90},
		{89.95, 90},
		{90, 90},
	}
	for _, test := range tests {
		m := gimbalMatrix(10, 20, test.z)
		got := ExtractEuler(m, GimbalGuard)
		assert.Equalf(t, 0.0, got[0], "bank forced to zero for z=%v", test.z)
		assert.InDeltaf(t, test.wantZ, got[2], 1e-12, "z=%v", test.z)
		assert.False(t, math.IsNaN(got[1]))

		wantHeading := math.Atan2(m[2], m[10]) * 180 / math.Pi
		assert.InDelta(t, -wantHeading, got[1], 1e-12)
	}
}

func TestExtractClampsSine(t *testing.T) {
	m := Identity()
	m[4] = 1.0000001
	got := ExtractEuler(m, GimbalCompat)
	for _, v := range got {
		assert.False(t, math.IsNaN(v))
	}
	assert.InDelta(t, -90, got[2], 1e-9)
}

func TestSubtractSelfIsZero(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	for i := 0; i < 100; i++ {
		m := randomTransform(r)
		inv, err := Invert(m)
		require.NoError(t, err)
		got := ExtractEuler(Multiply(m, inv), GimbalCompat)
		require.True(t, got.ApproxEqual(Euler{}, 1e-6), "got %v", got)
	}
}

func TestSubtractBankRotation(t *testing.T) {
	base := Compose([3]float64{}, [3]float64{30, 0, 0}, [3]float64{1, 1, 1})
	sub := Compose([3]float64{}, [3]float64{10, 0, 0}, [3]float64{1, 1, 1})
	inv, err := Invert(sub)
	require.NoError(t, err)
	got := ExtractEuler(Multiply(base, inv), GimbalCompat)
	assert.InDelta(t, 20, got[0], 1e-9)
	assert.InDelta(t, 0, got[1], 1e-9)
	assert.InDelta(t, 0, got[2], 1e-9)
}

func TestParseGimbalMode(t *testing.T) {
	for _, mode := range []GimbalMode{GimbalCompat, GimbalGuard} {
		parsed, err := ParseGimbalMode(mode.String())
		require.NoError(t, err)
		assert.Equal(t, mode, parsed)
	}
	_, err := ParseGimbalMode("elif")
	assert.Error(t, err)
}
