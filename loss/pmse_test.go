package loss

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestPMSEIdentical(t *testing.T) {
	y := mat.NewDense(2, 3, []float64{1, 2, 3, 3, 1, 2})
	l, _, err := PMSE(y, y, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0, l.MSE, 1e-12)
	assert.InDelta(t, 0, l.PCC, 1e-6)
	assert.InDelta(t, 0, l.Loss, 1e-6)
}

func TestPMSEValues(t *testing.T) {
	target := mat.NewDense(1, 3, []float64{1, 2, 3})
	pred := mat.NewDense(1, 3, []float64{3, 2, 1})

	l, _, err := PMSE(target, pred, 1)
	require.NoError(t, err)
	assert.InDelta(t, 8.0/3.0, l.MSE, 1e-12)
	// perfectly anti-correlated
	assert.InDelta(t, 2, l.PCC, 1e-6)
	assert.InDelta(t, l.MSE, l.Loss, 1e-12)

	l, _, err = PMSE(target, pred, 0)
	require.NoError(t, err)
	assert.InDelta(t, l.PCC, l.Loss, 1e-12)

	l, _, err = PMSE(target, pred, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.25*l.MSE+0.75*l.PCC, l.Loss, 1e-12)
}

func TestPMSEGradient(t *testing.T) {
	target := mat.NewDense(2, 4, []float64{0.5, -1, 2, 0.1, 1, 1.5, -0.3, 0.7})
	pred := mat.NewDense(2, 4, []float64{0.2, -0.4, 1.1, 0.9, 0.3, 2, 0.1, -0.2})
	const beta = 0.3

	_, grad, err := PMSE(target, pred, beta)
	require.NoError(t, err)

	const h = 1e-6
	r, c := pred.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := pred.At(i, j)
			pred.Set(i, j, v+h)
			up, _, _ := PMSE(target, pred, beta)
			pred.Set(i, j, v-h)
			down, _, _ := PMSE(target, pred, beta)
			pred.Set(i, j, v)
			numeric := (up.Loss - down.Loss) / (2 * h)
			assert.InDelta(t, numeric, grad.At(i, j), 1e-5, "d/dpred[%d][%d]", i, j)
		}
	}
}

func TestPMSEConstantRowIsFinite(t *testing.T) {
	target := mat.NewDense(1, 3, []float64{1, 2, 3})
	pred := mat.NewDense(1, 3, []float64{5, 5, 5})
	l, grad, err := PMSE(target, pred, 0.5)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(l.Loss))
	for _, v := range grad.RawMatrix().Data {
		assert.False(t, math.IsNaN(v))
	}
}

func TestPMSEShape(t *testing.T) {
	_, _, err := PMSE(mat.NewDense(2, 3, nil), mat.NewDense(3, 2, nil), 0.5)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestLossesArithmetic(t *testing.T) {
	sum := Losses{1, 2, 3}.Add(Losses{3, 2, 1})
	assert.Equal(t, Losses{4, 4, 4}, sum)
	assert.Equal(t, Losses{2, 2, 2}, sum.Scale(0.5))
}
