// Package optim implements the optimizers that update FunDNN parameters
// from their accumulated gradients.
package optim

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/fundnn/net/feedforward"
)

// ErrNonFinite is returned by Step when a gradient holds NaN or Inf.
var ErrNonFinite = errors.New("optim: non-finite gradient")

func zeroGrad(params []feedforward.Param) {
	for _, p := range params {
		p.Grad.Zero()
	}
}

func checkFinite(p feedforward.Param) error {
	for _, v := range p.Grad.RawMatrix().Data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Wrap(ErrNonFinite, p.Name)
		}
	}
	return nil
}

func moments(params []feedforward.Param) []*mat.Dense {
	out := make([]*mat.Dense, len(params))
	for i, p := range params {
		r, c := p.Value.Dims()
		out[i] = mat.NewDense(r, c, nil)
	}
	return out
}
