package optim

import (
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/fundnn/net/feedforward"
)

// SGD is stochastic gradient descent with optional momentum.
type SGD struct {
	LR       float64
	Momentum float64

	params   []feedforward.Param
	velocity []*mat.Dense
}

// NewSGD returns an optimizer over params stepping by lr times the gradient,
// or times the velocity when momentum is not zero.
func NewSGD(params []feedforward.Param, lr, momentum float64) *SGD {
	return &SGD{LR: lr, Momentum: momentum, params: params, velocity: moments(params)}
}

// ZeroGrad clears the gradients of all managed parameters.
func (s *SGD) ZeroGrad() { zeroGrad(s.params) }

// Step applies one update to every parameter.
func (s *SGD) Step() error {
	for i, p := range s.params {
		if err := checkFinite(p); err != nil {
			return err
		}
		v := s.velocity[i]
		if s.Momentum != 0 {
			v.Scale(s.Momentum, v)
			v.Add(v, p.Grad)
		} else {
			v.Copy(p.Grad)
		}
		var step mat.Dense
		step.Scale(s.LR, v)
		p.Value.Sub(p.Value, &step)
	}
	return nil
}
