package feedforward

import "math"

import "github.com/pkg/errors"

// Activation names the nonlinearity applied after every hidden layer.
type Activation string

const (
	ReLU     Activation = "relu"
	Tanh     Activation = "tanh"
	Sigmoid  Activation = "sigmoid"
	Identity Activation = "identity"
)

// ParseActivation validates an activation name. The empty string means ReLU.
func ParseActivation(s string) (Activation, error) {
	switch a := Activation(s); a {
	case "":
		return ReLU, nil
	case ReLU, Tanh, Sigmoid, Identity:
		return a, nil
	}
	return "", errors.Errorf("unknown activation %q", s)
}

func (a Activation) apply(z float64) float64 {
	switch a {
	case ReLU:
		if z > 0 {
			return z
		}
		return 0
	case Tanh:
		return math.Tanh(z)
	case Sigmoid:
		return 1 / (1 + math.Exp(-z))
	}
	return z
}

// derivative is expressed in terms of the pre-activation z.
func (a Activation) derivative(z float64) float64 {
	switch a {
	case ReLU:
		if z > 0 {
			return 1
		}
		return 0
	case Tanh:
		t := math.Tanh(z)
		return 1 - t*t
	case Sigmoid:
		s := 1 / (1 + math.Exp(-z))
		return s * (1 - s)
	}
	return 1
}
