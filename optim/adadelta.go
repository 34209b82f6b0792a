package optim

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/fundnn/net/feedforward"
)

// Adadelta implements ADADELTA (Zeiler, 2012) with the same update rule
// and defaults as torch.optim.Adadelta.
type Adadelta struct {
	LR          float64
	Rho         float64
	Eps         float64
	WeightDecay float64

	params   []feedforward.Param
	sqAvg    []*mat.Dense
	accDelta []*mat.Dense
}

// NewAdadelta returns an optimizer over params. Zero lr, rho or eps select
// the defaults 1.0, 0.9 and 1e-6.
func NewAdadelta(params []feedforward.Param, lr, rho, eps, weightDecay float64) *Adadelta {
	if lr == 0 {
		lr = 1.0
	}
	if rho == 0 {
		rho = 0.9
	}
	if eps == 0 {
		eps = 1e-6
	}
	return &Adadelta{
		LR:          lr,
		Rho:         rho,
		Eps:         eps,
		WeightDecay: weightDecay,
		params:      params,
		sqAvg:       moments(params),
		accDelta:    moments(params),
	}
}

// ZeroGrad clears the gradients of all managed parameters.
func (a *Adadelta) ZeroGrad() { zeroGrad(a.params) }

// Step applies one update to every parameter.
func (a *Adadelta) Step() error {
	for i, p := range a.params {
		if err := checkFinite(p); err != nil {
			return err
		}
		value := p.Value.RawMatrix()
		grad := p.Grad.RawMatrix()
		sq := a.sqAvg[i].RawMatrix().Data
		acc := a.accDelta[i].RawMatrix().Data

		for r := 0; r < value.Rows; r++ {
			for c := 0; c < value.Cols; c++ {
				k := r*value.Cols + c
				v := &value.Data[r*value.Stride+c]
				g := grad.Data[r*grad.Stride+c] + a.WeightDecay*(*v)

				sq[k] = a.Rho*sq[k] + (1-a.Rho)*g*g
				delta := math.Sqrt(acc[k]+a.Eps) / math.Sqrt(sq[k]+a.Eps) * g
				acc[k] = a.Rho*acc[k] + (1-a.Rho)*delta*delta
				*v -= a.LR * delta
			}
		}
	}
	return nil
}
