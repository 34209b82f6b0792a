package trainer

import "github.com/pkg/errors"

import "github.com/neurlang/fundnn/loss"

// ErrEmptyLoader is returned when a loader yields no batches, which would
// otherwise turn every averaged loss into a division by zero.
var ErrEmptyLoader = errors.New("trainer: loader yields no batches")

// TrainEpoch runs one training pass: for every batch it places the data on
// the device, clears gradients, predicts, computes the loss, backpropagates
// and steps the optimizer. It returns the loss triple averaged over the
// number of batches. Any error aborts the pass.
func (c Config) TrainEpoch(model Module, loader Loader, opt Optimizer) (loss.Losses, error) {
	c = c.withDefaults()
	n := loader.Len()
	if n == 0 {
		return loss.Losses{}, errors.Wrap(ErrEmptyLoader, "train")
	}
	if s, ok := loader.(Shuffler); ok {
		s.Shuffle()
	}

	model.SetTraining(true)
	var sum loss.Losses
	for i := 0; i < n; i++ {
		b := loader.Batch(i)
		x, err := c.Device.Place(b.Features)
		if err != nil {
			return loss.Losses{}, errors.Wrapf(err, "train batch %d: features", i)
		}
		y, err := c.Device.Place(b.GECs)
		if err != nil {
			return loss.Losses{}, errors.Wrapf(err, "train batch %d: gecs", i)
		}

		opt.ZeroGrad()
		pred, err := model.Forward(x)
		if err != nil {
			return loss.Losses{}, errors.Wrapf(err, "train batch %d: forward", i)
		}
		l, grad, err := c.Loss(y, pred, c.Beta)
		if err != nil {
			return loss.Losses{}, errors.Wrapf(err, "train batch %d: loss", i)
		}
		if err := model.Backward(grad); err != nil {
			return loss.Losses{}, errors.Wrapf(err, "train batch %d: backward", i)
		}
		if err := opt.Step(); err != nil {
			return loss.Losses{}, errors.Wrapf(err, "train batch %d: step", i)
		}
		sum = sum.Add(l)
	}
	return sum.Scale(1 / float64(n)), nil
}

// ValidEpoch runs one evaluation-mode pass without gradients or updates
// and returns the loss triple averaged over the number of batches.
func (c Config) ValidEpoch(model Predictor, loader Loader) (loss.Losses, error) {
	c = c.withDefaults()
	n := loader.Len()
	if n == 0 {
		return loss.Losses{}, errors.Wrap(ErrEmptyLoader, "valid")
	}

	model.SetTraining(false)
	var sum loss.Losses
	for i := 0; i < n; i++ {
		b := loader.Batch(i)
		x, err := c.Device.Place(b.Features)
		if err != nil {
			return loss.Losses{}, errors.Wrapf(err, "valid batch %d: features", i)
		}
		y, err := c.Device.Place(b.GECs)
		if err != nil {
			return loss.Losses{}, errors.Wrapf(err, "valid batch %d: gecs", i)
		}
		pred, err := model.Forward(x)
		if err != nil {
			return loss.Losses{}, errors.Wrapf(err, "valid batch %d: forward", i)
		}
		l, _, err := c.Loss(y, pred, c.Beta)
		if err != nil {
			return loss.Losses{}, errors.Wrapf(err, "valid batch %d: loss", i)
		}
		sum = sum.Add(l)
	}
	return sum.Scale(1 / float64(n)), nil
}
