// Package metrics computes the per-sample and overall statistics reported
// when a trained FunDNN is evaluated on held-out data.
package metrics

import (
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrShape is returned when predictions and targets disagree in shape.
var ErrShape = errors.New("metrics: shape mismatch")

// Pearson returns the Pearson correlation coefficient of x and y. It is
// NaN when either vector is constant.
func Pearson(x, y []float64) float64 {
	return stat.Correlation(x, y, nil)
}

// KS returns the two-sample Kolmogorov-Smirnov statistic D, the largest
// distance between the empirical distribution functions of x and y.
func KS(x, y []float64) float64 {
	xs := append([]float64(nil), x...)
	ys := append([]float64(nil), y...)
	sort.Float64s(xs)
	sort.Float64s(ys)
	return stat.KolmogorovSmirnov(xs, nil, ys, nil)
}

// MSE returns the mean squared error over all elements of a and b.
func MSE(a, b mat.Matrix) (float64, error) {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return 0, errors.Wrapf(ErrShape, "%dx%d vs %dx%d", ar, ac, br, bc)
	}
	var d mat.Dense
	d.Sub(a, b)
	n := mat.Norm(&d, 2)
	return n * n / float64(ar*ac), nil
}
