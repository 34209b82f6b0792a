package feedforward

import "compress/zlib"
import "encoding/json"
import "io"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "gonum.org/v1/gonum/mat"

type jsonLayer struct {
	Weights []float64 `json:"weights"`
	Biases  []float64 `json:"biases"`
}

type jsonNetwork struct {
	Dims       []int       `json:"dims"`
	Activation Activation  `json:"activation"`
	Dropout    float64     `json:"dropout"`
	Seed       uint64      `json:"seed"`
	Layers     []jsonLayer `json:"layers"`
}

// WriteZlibWeightsToFile writes the network to a zlib compressed json file
func (f *FeedforwardNetwork) WriteZlibWeightsToFile(fs afero.Fs, name string) error {
	file, err := fs.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	err = f.WriteZlibWeights(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteZlibWeights writes the network to a writer
func (f *FeedforwardNetwork) WriteZlibWeights(w io.Writer) error {
	doc := jsonNetwork{
		Dims:       f.dims,
		Activation: f.activation,
		Dropout:    f.dropout,
		Seed:       f.seed,
	}
	for _, l := range f.layers {
		doc.Layers = append(doc.Layers, jsonLayer{
			Weights: mat.DenseCopyOf(l.w).RawMatrix().Data,
			Biases:  mat.DenseCopyOf(l.b).RawMatrix().Data,
		})
	}
	zw := zlib.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(&doc); err != nil {
		return errors.Wrap(err, "encode weights")
	}
	return zw.Close()
}

// ReadZlibWeightsFromFile reads a network written by WriteZlibWeightsToFile
func ReadZlibWeightsFromFile(fs afero.Fs, name string) (*FeedforwardNetwork, error) {
	file, err := fs.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	defer file.Close()
	return ReadZlibWeights(file)
}

// ReadZlibWeights reads a network from a reader. The network is returned
// in evaluation mode.
func ReadZlibWeights(r io.Reader) (*FeedforwardNetwork, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "zlib")
	}
	defer zr.Close()

	var doc jsonNetwork
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode weights")
	}
	if len(doc.Dims) < 2 || len(doc.Layers) != len(doc.Dims)-1 {
		return nil, errors.Wrapf(ErrShape, "%d layers for dims %v", len(doc.Layers), doc.Dims)
	}
	for _, d := range doc.Dims {
		if d <= 0 {
			return nil, errors.Wrapf(ErrShape, "non-positive layer width in %v", doc.Dims)
		}
	}

	activation, err := ParseActivation(string(doc.Activation))
	if err != nil {
		return nil, err
	}

	f := &FeedforwardNetwork{
		dims:       doc.Dims,
		activation: activation,
		dropout:    doc.Dropout,
		seed:       doc.Seed,
	}
	f.reseed()
	for i, l := range doc.Layers {
		in, out := doc.Dims[i], doc.Dims[i+1]
		if len(l.Weights) != in*out || len(l.Biases) != out {
			return nil, errors.Wrapf(ErrShape, "layer %d: %d weights, %d biases for %dx%d", i, len(l.Weights), len(l.Biases), in, out)
		}
		f.layers = append(f.layers, &dense{
			w:  mat.NewDense(in, out, l.Weights),
			b:  mat.NewDense(1, out, l.Biases),
			dw: mat.NewDense(in, out, nil),
			db: mat.NewDense(1, out, nil),
		})
	}
	return f, nil
}
