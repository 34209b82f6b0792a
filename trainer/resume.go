package trainer

import "github.com/pkg/errors"
import "github.com/spf13/afero"

import "github.com/neurlang/fundnn/net/feedforward"

// Resume returns the network stored at path when resume is set and path is
// not empty, otherwise net unchanged. The stored network must have the
// same layer widths as net. Only its weights and activation are taken from
// the checkpoint; dropout, seed and training mode come from net, so the
// settings of the current run apply.
func Resume(fs afero.Fs, net *feedforward.FeedforwardNetwork, resume bool, path string) (*feedforward.FeedforwardNetwork, error) {
	if !resume || path == "" {
		return net, nil
	}
	loaded, err := feedforward.ReadZlibWeightsFromFile(fs, path)
	if err != nil {
		return nil, errors.Wrap(err, "resume")
	}
	want, got := net.Dims(), loaded.Dims()
	if len(want) != len(got) {
		return nil, errors.Errorf("resume: checkpoint has dims %v, network %v", got, want)
	}
	for i := range want {
		if want[i] != got[i] {
			return nil, errors.Errorf("resume: checkpoint has dims %v, network %v", got, want)
		}
	}
	if err := loaded.SetDropout(net.Dropout()); err != nil {
		return nil, errors.Wrap(err, "resume")
	}
	loaded.Reseed(net.Seed())
	loaded.SetTraining(net.Training())
	return loaded, nil
}
