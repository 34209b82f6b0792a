// Package learning holds the hyperparameters and logging setup of a FunDNN
// training run.
package learning

import "io"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "gopkg.in/yaml.v2"

import "github.com/neurlang/fundnn/net/feedforward"
import "github.com/neurlang/fundnn/optim"

type HyperParameters struct {
	Epochs    int     `yaml:"epochs"`     // number of training epochs
	BatchSize int     `yaml:"batch_size"` // samples per batch
	Beta      float64 `yaml:"beta"`       // weight of the MSE term, 1-beta weighs the PCC term

	Optimizer    string  `yaml:"optimizer"`     // adadelta or sgd
	LearningRate float64 `yaml:"learning_rate"` // coefficient scaling the update
	Rho          float64 `yaml:"rho"`           // Adadelta running average decay
	Eps          float64 `yaml:"eps"`           // Adadelta numerical stability term
	WeightDecay  float64 `yaml:"weight_decay"`  // Adadelta L2 penalty
	Momentum     float64 `yaml:"momentum"`      // SGD momentum

	// Hidden lists the hidden layer widths. Input and output widths come
	// from the data.
	Hidden     []int   `yaml:"hidden"`
	Activation string  `yaml:"activation"` // relu, tanh, sigmoid or identity
	Dropout    float64 `yaml:"dropout"`    // dropout probability on hidden layers

	ValidFraction float64 `yaml:"valid_fraction"`
	TestFraction  float64 `yaml:"test_fraction"`
	Seed          uint64  `yaml:"seed"` // seeds split, shuffling, init and dropout

	Device string `yaml:"device"` // cpu, auto or cuda[:N]
}

// Default returns the settings FunDNN was published with.
func Default() HyperParameters {
	return HyperParameters{
		Epochs:        500,
		BatchSize:     64,
		Beta:          0.5,
		Optimizer:     "adadelta",
		LearningRate:  1.0,
		Rho:           0.9,
		Eps:           1e-6,
		Hidden:        []int{1024, 2048, 4096},
		Activation:    "relu",
		Dropout:       0.1,
		ValidFraction: 0.1,
		TestFraction:  0.1,
		Seed:          1,
		Device:        "auto",
	}
}

// Load reads YAML from r over the defaults. Unknown keys are an error.
func Load(r io.Reader) (HyperParameters, error) {
	h := Default()
	data, err := io.ReadAll(r)
	if err != nil {
		return h, errors.Wrap(err, "read hyperparameters")
	}
	if err := yaml.UnmarshalStrict(data, &h); err != nil {
		return h, errors.Wrap(err, "parse hyperparameters")
	}
	return h, h.Validate()
}

// LoadFile reads hyperparameters from name on fs.
func LoadFile(fs afero.Fs, name string) (HyperParameters, error) {
	f, err := fs.Open(name)
	if err != nil {
		return Default(), errors.Wrapf(err, "open %s", name)
	}
	defer f.Close()
	h, err := Load(f)
	return h, errors.Wrap(err, name)
}

// Dims returns the layer widths of a network mapping in features to out
// outputs.
func (h HyperParameters) Dims(in, out int) []int {
	dims := make([]int, 0, len(h.Hidden)+2)
	dims = append(dims, in)
	dims = append(dims, h.Hidden...)
	return append(dims, out)
}

// Optimizer updates network parameters from their gradients.
type Optimizer interface {
	ZeroGrad()
	Step() error
}

// NewOptimizer returns the configured optimizer over params.
func (h HyperParameters) NewOptimizer(params []feedforward.Param) (Optimizer, error) {
	switch h.Optimizer {
	case "adadelta":
		return optim.NewAdadelta(params, h.LearningRate, h.Rho, h.Eps, h.WeightDecay), nil
	case "sgd":
		return optim.NewSGD(params, h.LearningRate, h.Momentum), nil
	}
	return nil, errors.Errorf("unknown optimizer %q", h.Optimizer)
}

// Validate reports the first setting that cannot train.
func (h HyperParameters) Validate() error {
	switch {
	case h.Epochs < 0:
		return errors.Errorf("epochs %d is negative", h.Epochs)
	case h.BatchSize <= 0:
		return errors.Errorf("batch_size %d must be positive", h.BatchSize)
	case h.Beta < 0 || h.Beta > 1:
		return errors.Errorf("beta %g outside [0, 1]", h.Beta)
	case h.LearningRate <= 0:
		return errors.Errorf("learning_rate %g must be positive", h.LearningRate)
	case h.Rho < 0 || h.Rho >= 1:
		return errors.Errorf("rho %g outside [0, 1)", h.Rho)
	case h.Eps <= 0:
		return errors.Errorf("eps %g must be positive", h.Eps)
	case h.Optimizer != "adadelta" && h.Optimizer != "sgd":
		return errors.Errorf("unknown optimizer %q", h.Optimizer)
	case h.Momentum < 0 || h.Momentum >= 1:
		return errors.Errorf("momentum %g outside [0, 1)", h.Momentum)
	case h.WeightDecay < 0:
		return errors.Errorf("weight_decay %g is negative", h.WeightDecay)
	case h.Dropout < 0 || h.Dropout >= 1:
		return errors.Errorf("dropout %g outside [0, 1)", h.Dropout)
	case h.ValidFraction <= 0 || h.TestFraction < 0 || h.ValidFraction+h.TestFraction >= 1:
		return errors.Errorf("valid_fraction %g and test_fraction %g leave no training rows", h.ValidFraction, h.TestFraction)
	}
	for i, w := range h.Hidden {
		if w <= 0 {
			return errors.Errorf("hidden layer %d has width %d", i, w)
		}
	}
	if _, err := feedforward.ParseActivation(h.Activation); err != nil {
		return err
	}
	return nil
}
