package trainer

import "io"
import "os"

import "github.com/google/uuid"
import "go.uber.org/zap"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/fundnn/datasets"
import "github.com/neurlang/fundnn/device"
import "github.com/neurlang/fundnn/loss"

// Predictor is the inference side of a model.
type Predictor interface {
	Forward(x *mat.Dense) (*mat.Dense, error)
	SetTraining(training bool)
}

// Module is a model that can also propagate a loss gradient into its
// parameter gradients.
type Module interface {
	Predictor
	Backward(grad *mat.Dense) error
}

// Model is a Module that can be deep copied.
type Model[M any] interface {
	Module
	Clone() M
}

// Loader yields the batches of one pass.
type Loader interface {
	Len() int
	Batch(i int) datasets.Batch
}

// Shuffler is implemented by loaders that reorder rows between passes.
type Shuffler interface {
	Shuffle()
}

// Optimizer updates parameters from accumulated gradients.
type Optimizer interface {
	ZeroGrad()
	Step() error
}

// LossFunc returns the loss triple of a batch and its gradient with
// respect to pred.
type LossFunc func(target, pred *mat.Dense, beta float64) (loss.Losses, *mat.Dense, error)

// Placer moves a matrix onto the compute device.
type Placer interface {
	Place(m *mat.Dense) (*mat.Dense, error)
}

// Config carries the settings shared by the epoch functions, the training
// driver and the test evaluator. Zero fields take defaults.
type Config struct {
	Epochs int

	// Beta weights MSE against the Pearson term.
	Beta float64

	Loss    LossFunc  // loss.PMSE
	Device  Placer    // device.Host()
	Out     io.Writer // os.Stdout, receives the epoch lines
	Logger  *zap.Logger
	RunID   string // random UUID
	Workers int    // goroutines for per-sample metrics, device.Threads()
}

func (c Config) withDefaults() Config {
	if c.Loss == nil {
		c.Loss = loss.PMSE
	}
	if c.Device == nil {
		c.Device = device.Host()
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.RunID == "" {
		c.RunID = uuid.New().String()
	}
	if c.Workers <= 0 {
		c.Workers = device.Threads()
	}
	return c
}
