// Package feedforward implements FunDNN, the dense feed-forward regression
// network mapping node embeddings to GECs profiles.
package feedforward

import "math"
import "math/rand/v2"
import "strconv"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

// ErrShape is returned when an input does not match the network's layout.
var ErrShape = errors.New("feedforward: shape mismatch")

// Param is one trainable matrix and its accumulated gradient.
type Param struct {
	Name  string
	Value *mat.Dense
	Grad  *mat.Dense
}

type dense struct {
	w, b   *mat.Dense // w is in x out, b is 1 x out
	dw, db *mat.Dense

	// cached by the last training forward pass
	x, z, mask *mat.Dense
}

// FeedforwardNetwork is a stack of fully connected layers. Every layer but
// the last is followed by the activation and, in training mode, inverted
// dropout.
type FeedforwardNetwork struct {
	dims       []int
	activation Activation
	dropout    float64
	seed       uint64

	layers   []*dense
	training bool
	src      *rand.PCG
	rng      *rand.Rand
}

// New builds a network with layer widths dims (input first, output last).
// Weights and biases are drawn from U(-1/sqrt(in), 1/sqrt(in)).
func New(dims []int, activation Activation, dropout float64, seed uint64) (*FeedforwardNetwork, error) {
	if len(dims) < 2 {
		return nil, errors.Errorf("need at least input and output widths, got %v", dims)
	}
	for _, d := range dims {
		if d <= 0 {
			return nil, errors.Errorf("non-positive layer width in %v", dims)
		}
	}
	if dropout < 0 || dropout >= 1 {
		return nil, errors.Errorf("dropout %v outside [0, 1)", dropout)
	}
	activation, err := ParseActivation(string(activation))
	if err != nil {
		return nil, err
	}

	f := &FeedforwardNetwork{
		dims:       append([]int(nil), dims...),
		activation: activation,
		dropout:    dropout,
		seed:       seed,
		training:   true,
	}
	f.reseed()

	for i := 1; i < len(dims); i++ {
		in, out := dims[i-1], dims[i]
		bound := 1 / math.Sqrt(float64(in))
		l := &dense{
			w:  mat.NewDense(in, out, nil),
			b:  mat.NewDense(1, out, nil),
			dw: mat.NewDense(in, out, nil),
			db: mat.NewDense(1, out, nil),
		}
		uniform := func(_, _ int, _ float64) float64 {
			return (2*f.rng.Float64() - 1) * bound
		}
		l.w.Apply(uniform, l.w)
		l.b.Apply(uniform, l.b)
		f.layers = append(f.layers, l)
	}
	return f, nil
}

// Dims returns the layer widths, input first.
func (f *FeedforwardNetwork) Dims() []int {
	return append([]int(nil), f.dims...)
}

// InputDim is the width of one feature vector.
func (f *FeedforwardNetwork) InputDim() int { return f.dims[0] }

// OutputDim is the width of one predicted GECs vector.
func (f *FeedforwardNetwork) OutputDim() int { return f.dims[len(f.dims)-1] }

// Len returns the number of dense layers.
func (f *FeedforwardNetwork) Len() int { return len(f.layers) }

// Dropout returns the dropout probability of the hidden layers.
func (f *FeedforwardNetwork) Dropout() float64 { return f.dropout }

// SetDropout changes the dropout probability of the hidden layers.
func (f *FeedforwardNetwork) SetDropout(dropout float64) error {
	if dropout < 0 || dropout >= 1 {
		return errors.Errorf("dropout %v outside [0, 1)", dropout)
	}
	f.dropout = dropout
	return nil
}

// Seed returns the seed of the dropout generator.
func (f *FeedforwardNetwork) Seed() uint64 { return f.seed }

// Reseed restarts the dropout generator from seed. Weights are kept.
func (f *FeedforwardNetwork) Reseed(seed uint64) {
	f.seed = seed
	f.reseed()
}

// SetTraining switches between training mode (dropout on, activations
// cached for Backward) and evaluation mode.
func (f *FeedforwardNetwork) SetTraining(training bool) {
	f.training = training
	if !training {
		for _, l := range f.layers {
			l.x, l.z, l.mask = nil, nil, nil
		}
	}
}

// Training reports whether the network is in training mode.
func (f *FeedforwardNetwork) Training() bool { return f.training }

// Forward maps a batch of feature rows to a batch of predicted GECs rows.
// In evaluation mode it does not touch the network.
func (f *FeedforwardNetwork) Forward(x *mat.Dense) (*mat.Dense, error) {
	rows, cols := x.Dims()
	if cols != f.InputDim() {
		return nil, errors.Wrapf(ErrShape, "input has %d columns, network expects %d", cols, f.InputDim())
	}
	a := x
	for i, l := range f.layers {
		_, out := l.w.Dims()
		z := mat.NewDense(rows, out, nil)
		z.Mul(a, l.w)
		bias := l.b.RawRowView(0)
		z.Apply(func(_, j int, v float64) float64 { return v + bias[j] }, z)

		if f.training {
			l.x, l.z, l.mask = a, z, nil
		}
		if i == len(f.layers)-1 {
			a = z
			break
		}

		next := mat.NewDense(rows, out, nil)
		next.Apply(func(_, _ int, v float64) float64 { return f.activation.apply(v) }, z)
		if f.training && f.dropout > 0 {
			keep := 1 - f.dropout
			mask := mat.NewDense(rows, out, nil)
			mask.Apply(func(_, _ int, _ float64) float64 {
				if f.rng.Float64() < keep {
					return 1 / keep
				}
				return 0
			}, mask)
			next.MulElem(next, mask)
			l.mask = mask
		}
		a = next
	}
	return a, nil
}

// Backward propagates grad, the loss gradient with respect to the last
// Forward output, and adds the parameter gradients to the accumulators.
func (f *FeedforwardNetwork) Backward(grad *mat.Dense) error {
	if !f.training {
		return errors.New("backward called in evaluation mode")
	}
	last := f.layers[len(f.layers)-1]
	if last.x == nil {
		return errors.New("backward called before forward")
	}
	gr, gc := grad.Dims()
	xr, _ := last.x.Dims()
	if gr != xr || gc != f.OutputDim() {
		return errors.Wrapf(ErrShape, "gradient %dx%d, output %dx%d", gr, gc, xr, f.OutputDim())
	}

	g := grad
	for i := len(f.layers) - 1; i >= 0; i-- {
		l := f.layers[i]
		if i != len(f.layers)-1 {
			rows, cols := g.Dims()
			dz := mat.NewDense(rows, cols, nil)
			dz.Apply(func(r, c int, v float64) float64 {
				v *= f.activation.derivative(l.z.At(r, c))
				if l.mask != nil {
					v *= l.mask.At(r, c)
				}
				return v
			}, g)
			g = dz
		}

		var dw mat.Dense
		dw.Mul(l.x.T(), g)
		l.dw.Add(l.dw, &dw)

		db := l.db.RawRowView(0)
		rows, _ := g.Dims()
		for r := 0; r < rows; r++ {
			for c, v := range g.RawRowView(r) {
				db[c] += v
			}
		}

		if i > 0 {
			var dx mat.Dense
			dx.Mul(g, l.w.T())
			g = &dx
		}
	}
	return nil
}

// ZeroGrad clears the gradient accumulators.
func (f *FeedforwardNetwork) ZeroGrad() {
	for _, l := range f.layers {
		l.dw.Zero()
		l.db.Zero()
	}
}

// Params returns the trainable matrices in layer order. The matrices are
// shared with the network, optimizers update them in place.
func (f *FeedforwardNetwork) Params() []Param {
	var out []Param
	for i, l := range f.layers {
		out = append(out,
			Param{Name: layerName(i, "weight"), Value: l.w, Grad: l.dw},
			Param{Name: layerName(i, "bias"), Value: l.b, Grad: l.db},
		)
	}
	return out
}

// Clone returns a deep copy sharing no memory with f. Cached activations
// are not copied.
func (f *FeedforwardNetwork) Clone() *FeedforwardNetwork {
	src := *f.src
	c := &FeedforwardNetwork{
		dims:       append([]int(nil), f.dims...),
		activation: f.activation,
		dropout:    f.dropout,
		seed:       f.seed,
		training:   f.training,
		src:        &src,
	}
	c.rng = rand.New(c.src)
	for _, l := range f.layers {
		c.layers = append(c.layers, &dense{
			w:  mat.DenseCopyOf(l.w),
			b:  mat.DenseCopyOf(l.b),
			dw: mat.DenseCopyOf(l.dw),
			db: mat.DenseCopyOf(l.db),
		})
	}
	return c
}

func (f *FeedforwardNetwork) reseed() {
	f.src = rand.NewPCG(f.seed, f.seed^0x9e3779b97f4a7c15)
	f.rng = rand.New(f.src)
}

func layerName(i int, kind string) string {
	return "layers." + strconv.Itoa(i) + "." + kind
}
