package datasets

import "math/rand/v2"

import "github.com/pkg/errors"
import "gonum.org/v1/gonum/mat"

// Batch is one aligned slice of feature rows and GECs rows.
type Batch struct {
	Features *mat.Dense
	GECs     *mat.Dense
}

// Loader cuts aligned feature and GECs matrices into batches. The last
// batch is smaller when the row count is not a multiple of the batch size.
type Loader struct {
	features, gecs *mat.Dense
	batchSize      int
	shuffle        bool
	rng            *rand.Rand
	order          []int
}

// NewLoader returns a loader over the rows of features and gecs. With
// shuffle set, Shuffle draws a new row order from a generator seeded with
// seed.
func NewLoader(features, gecs *mat.Dense, batchSize int, shuffle bool, seed uint64) (*Loader, error) {
	fr, _ := features.Dims()
	gr, _ := gecs.Dims()
	if fr != gr {
		return nil, errors.Wrapf(ErrShape, "%d feature rows, %d GECs rows", fr, gr)
	}
	if batchSize <= 0 {
		return nil, errors.Errorf("batch size %d", batchSize)
	}
	l := &Loader{
		features:  features,
		gecs:      gecs,
		batchSize: batchSize,
		shuffle:   shuffle,
		rng:       rand.New(rand.NewPCG(seed, ^seed)),
		order:     make([]int, fr),
	}
	for i := range l.order {
		l.order[i] = i
	}
	return l, nil
}

// Len returns the number of batches in one pass.
func (l *Loader) Len() int {
	return (len(l.order) + l.batchSize - 1) / l.batchSize
}

// Rows returns the number of samples in one pass.
func (l *Loader) Rows() int {
	return len(l.order)
}

// Shuffle permutes the row order for the next pass. It does nothing when
// the loader was created without shuffling.
func (l *Loader) Shuffle() {
	if !l.shuffle {
		return
	}
	l.rng.Shuffle(len(l.order), func(i, j int) { l.order[i], l.order[j] = l.order[j], l.order[i] })
}

// Batch returns the i-th batch of the current pass as fresh matrices.
func (l *Loader) Batch(i int) Batch {
	lo := i * l.batchSize
	hi := min(lo+l.batchSize, len(l.order))
	return Batch{
		Features: gather(l.features, l.order[lo:hi]),
		GECs:     gather(l.gecs, l.order[lo:hi]),
	}
}

func gather(m *mat.Dense, rows []int) *mat.Dense {
	_, c := m.Dims()
	out := mat.NewDense(len(rows), c, nil)
	for i, r := range rows {
		out.SetRow(i, m.RawRowView(r))
	}
	return out
}
