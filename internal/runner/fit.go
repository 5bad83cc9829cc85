package runner

import (
	"errors"
	"math"
)

// ErrUnderdetermined is returned when a fit has too few distinct points.
var ErrUnderdetermined = errors.New("need at least three distinct x values")

// FitQuadratic returns least-squares coefficients [a, b, c] of
// y = a*x² + b*x + c, highest degree first.
func FitQuadratic(xs, ys []float64) ([3]float64, error) {
	var coef [3]float64
	if len(xs) != len(ys) {
		return coef, errors.New("xs and ys differ in length")
	}
	distinct := make(map[float64]struct{})
	for _, x := range xs {
		distinct[x] = struct{}{}
	}
	if len(distinct) < 3 {
		return coef, ErrUnderdetermined
	}

	// Normal equations over the power sums S[k] = Σx^k and T[k] = Σx^k·y.
	var s [5]float64
	var t [3]float64
	for i, x := range xs {
		p := 1.0
		for k := 0; k < 5; k++ {
			s[k] += p
			if k < 3 {
				t[k] += p * ys[i]
			}
			p *= x
		}
	}
	// Unknowns ordered c, b, a.
	m := [3][4]float64{
		{s[0], s[1], s[2], t[0]},
		{s[1], s[2], s[3], t[1]},
		{s[2], s[3], s[4], t[2]},
	}
	for col := 0; col < 3; col++ {
		pivot := col
		for r := col + 1; r < 3; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[pivot][col]) {
				pivot = r
			}
		}
		if m[pivot][col] == 0 {
			return coef, ErrUnderdetermined
		}
		m[col], m[pivot] = m[pivot], m[col]
		for r := 0; r < 3; r++ {
			if r == col {
				continue
			}
			f := m[r][col] / m[col][col]
			for k := col; k < 4; k++ {
				m[r][k] -= f * m[col][k]
			}
		}
	}
	c := m[0][3] / m[0][0]
	b := m[1][3] / m[1][1]
	a := m[2][3] / m[2][2]
	return [3]float64{a, b, c}, nil
}

// Eval evaluates the polynomial at x.
func Eval(coef [3]float64, x float64) float64 {
	return (coef[0]*x+coef[1])*x + coef[2]
}
