package matrix

import "fmt"

// SingularMatrixError reports a zero diagonal met during elimination.
type SingularMatrixError struct {
	Row int
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("singular matrix: zero pivot at row %d", e.Row)
}

// Invert runs Gauss-Jordan elimination on a copy of m augmented with the identity.
// There is no row pivoting: a zero diagonal fails even if the matrix is invertible
// after a row swap.
func Invert(m Transform) (Transform, error) {
	out := Identity()

	for i := 0; i < 4; i++ {
		d := m[i*4+i]
		if d == 0 {
			return Transform{}, &SingularMatrixError{Row: i}
		}
		if d != 1 {
			for j := 0; j < 4; j++ {
				out[i*4+j] /= d
				m[i*4+j] /= d
			}
		}

		for j := 0; j < 4; j++ {
			if j == i {
				continue
			}
			mulBy := m[j*4+i]
			if mulBy == 0 {
				continue
			}
			for k := 0; k < 4; k++ {
				m[j*4+k] -= mulBy * m[i*4+k]
				out[j*4+k] -= mulBy * out[i*4+k]
			}
		}
	}

	return out, nil
}
