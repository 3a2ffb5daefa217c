package rectify

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/receipt-crop/internal/apperrors"
)

// Transform is a 3×3 projective matrix in row-major order, normalised so
// that the bottom-right element is 1.
type Transform [9]float64

// collinearTolerance is the smallest twice-triangle area, in square pixels,
// for three corners to count as not collinear.
const collinearTolerance = 1e-9

// Identity is the transform that maps every point to itself.
var Identity = Transform{1, 0, 0, 0, 1, 0, 0, 0, 1}

// Translation returns the transform that shifts every point by (dx, dy).
func Translation(dx, dy float64) Transform {
	return Transform{1, 0, dx, 0, 1, dy, 0, 0, 1}
}

// Apply maps (x, y) through the transform. Points that land on the line at
// infinity map to NaN.
func (t Transform) Apply(x, y float64) (float64, float64) {
	w := t[6]*x + t[7]*y + t[8]
	if w == 0 {
		return math.NaN(), math.NaN()
	}
	return (t[0]*x + t[1]*y + t[2]) / w, (t[3]*x + t[4]*y + t[5]) / w
}

// Invert returns the transform that undoes t.
func (t Transform) Invert() (Transform, error) {
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(3, 3, t[:])); err != nil && !isUsable(err) {
		return Transform{}, apperrors.NewDegenerateGeometryError("transform is not invertible", err)
	}

	var out Transform
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = inv.At(r, c)
		}
	}
	return normalise(out)
}

// ComputeTransform solves for the projective transform that maps each
// src[i] onto dst[i].
//
// # Algorithm
//
// With the bottom-right element fixed at 1, each correspondence
// (X, Y) -> (x, y) contributes two linear equations in the remaining eight
// unknowns:
//
//	h0·X + h1·Y + h2 - h6·X·x - h7·Y·x = x
//	h3·X + h4·Y + h5 - h6·X·y - h7·Y·y = y
//
// The resulting 8×8 system is solved by LU decomposition. Three collinear
// points on either side make it singular, which is reported as
// DegenerateGeometry before any solving is attempted.
func ComputeTransform(src, dst [4]PointF) (Transform, error) {
	if hasCollinearTriple(src) || hasCollinearTriple(dst) {
		return Transform{}, apperrors.NewDegenerateGeometryError("three corners are collinear", nil)
	}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		X, Y := src[i].X, src[i].Y
		x, y := dst[i].X, dst[i].Y
		r := 2 * i

		a.SetRow(r, []float64{X, Y, 1, 0, 0, 0, -X * x, -Y * x})
		b.SetVec(r, x)

		a.SetRow(r+1, []float64{0, 0, 0, X, Y, 1, -X * y, -Y * y})
		b.SetVec(r+1, y)
	}

	var h mat.VecDense
	if err := h.SolveVec(a, b); err != nil && !isUsable(err) {
		return Transform{}, apperrors.NewDegenerateGeometryError("corner correspondences are degenerate", err)
	}

	t := Transform{
		h.AtVec(0), h.AtVec(1), h.AtVec(2),
		h.AtVec(3), h.AtVec(4), h.AtVec(5),
		h.AtVec(6), h.AtVec(7), 1,
	}
	return normalise(t)
}

// hasCollinearTriple reports whether any three of the points lie on one
// line.
func hasCollinearTriple(p [4]PointF) bool {
	for skip := 0; skip < 4; skip++ {
		var tri []PointF
		for i := range p {
			if i != skip {
				tri = append(tri, p[i])
			}
		}
		cross := (tri[1].X-tri[0].X)*(tri[2].Y-tri[0].Y) - (tri[1].Y-tri[0].Y)*(tri[2].X-tri[0].X)
		if math.Abs(cross) < collinearTolerance {
			return true
		}
	}
	return false
}

// isUsable reports whether a gonum solver error still produced a result.
// A large condition number is only a warning; the solution is computed.
func isUsable(err error) bool {
	var cond mat.Condition
	return errors.As(err, &cond) && !math.IsInf(float64(cond), 1)
}

// normalise scales t so its last element is 1 and rejects non-finite
// results.
func normalise(t Transform) (Transform, error) {
	for _, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Transform{}, apperrors.NewDegenerateGeometryError("transform is not finite", nil)
		}
	}
	if t[8] == 0 {
		return Transform{}, apperrors.NewDegenerateGeometryError("transform maps the origin to infinity", nil)
	}
	if t[8] != 1 {
		s := t[8]
		for i := range t {
			t[i] /= s
		}
	}
	return t, nil
}
