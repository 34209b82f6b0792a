// Package inference runs a trained FunDNN over node features and exports
// the predicted GECs.
package inference

import "fmt"
import "io"
import "os"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "go.uber.org/zap"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/fundnn/datasets"
import "github.com/neurlang/fundnn/device"

// Model is a trained network.
type Model interface {
	Forward(x *mat.Dense) (*mat.Dense, error)
	SetTraining(training bool)
}

// Placer moves a matrix onto the compute device.
type Placer interface {
	Place(m *mat.Dense) (*mat.Dense, error)
}

// Predictor turns feature tables into prediction tables. Zero fields take
// defaults: the host device, the OS filesystem, numbered columns, stdout
// and a no-op logger.
type Predictor struct {
	Model   Model
	Device  Placer
	Fs      afero.Fs
	Columns []string
	Out     io.Writer
	Logger  *zap.Logger
}

// OutputPath returns the file FeaturePredict writes for name.
func OutputPath(savePath, name string) string {
	return savePath + name + "_pre_GECs.csv"
}

// Predict runs the model in evaluation mode over every feature row and
// returns the predictions indexed like features, sorted by index.
func (p *Predictor) Predict(features datasets.Table) (datasets.Table, error) {
	if p.Model == nil {
		return datasets.Table{}, errors.New("predict: no model")
	}
	dev := p.Device
	if dev == nil {
		dev = device.Host()
	}

	p.Model.SetTraining(false)
	x, err := dev.Place(features.Data)
	if err != nil {
		return datasets.Table{}, errors.Wrap(err, "predict")
	}
	pred, err := p.Model.Forward(x)
	if err != nil {
		return datasets.Table{}, errors.Wrap(err, "predict")
	}
	t, err := datasets.NewTable(features.Index, p.Columns, pred)
	if err != nil {
		return datasets.Table{}, errors.Wrap(err, "predict")
	}
	t.IndexName = features.IndexName
	return t.Sorted(), nil
}

// FeaturePredict predicts GECs for features and writes them as CSV to
// OutputPath(savePath, name), overwriting any existing file.
func (p *Predictor) FeaturePredict(features datasets.Table, savePath, name string) (datasets.Table, error) {
	t, err := p.Predict(features)
	if err != nil {
		return datasets.Table{}, err
	}
	fs := p.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	path := OutputPath(savePath, name)
	if err := t.WriteCSVFile(fs, path); err != nil {
		return datasets.Table{}, err
	}

	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	r, c := t.Shape()
	fmt.Fprintf(out, "\npredict finish:\npre_GECs size:(%d, %d)\n\n", r, c)
	if p.Logger != nil {
		p.Logger.Info("predictions written", zap.String("path", path), zap.Int("rows", r), zap.Int("cols", c))
	}
	return t, nil
}
