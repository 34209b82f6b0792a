package metrics

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/fundnn/parallel"
)

// Report holds the test evaluation of one model.
type Report struct {
	// PCC and D hold one value per sample, in row order.
	PCC []float64
	D   []float64

	AbsPCCMean float64
	DMean      float64
	MSE        float64
}

// Evaluate compares predicted and actual GECs row by row. Rows are
// processed on up to workers goroutines, see parallel.ForEach.
func Evaluate(pred, actual *mat.Dense, workers int) (Report, error) {
	pr, pc := pred.Dims()
	ar, ac := actual.Dims()
	if pr != ar || pc != ac {
		return Report{}, errors.Wrapf(ErrShape, "prediction %dx%d, actual %dx%d", pr, pc, ar, ac)
	}

	r := Report{PCC: make([]float64, pr), D: make([]float64, pr)}
	parallel.ForEach(pr, workers, func(i int) {
		p, a := pred.RawRowView(i), actual.RawRowView(i)
		r.PCC[i] = Pearson(p, a)
		r.D[i] = KS(p, a)
	})

	abs := make(stats.Float64Data, pr)
	for i, v := range r.PCC {
		abs[i] = math.Abs(v)
	}
	var err error
	if r.AbsPCCMean, err = abs.Mean(); err != nil {
		return Report{}, errors.Wrap(err, "mean pcc")
	}
	if r.DMean, err = stats.Mean(r.D); err != nil {
		return Report{}, errors.Wrap(err, "mean D")
	}
	if r.MSE, err = MSE(pred, actual); err != nil {
		return Report{}, err
	}
	return r, nil
}

// Fprint writes the evaluation block.
func (r Report) Fprint(w io.Writer) error {
	rule := strings.Repeat("=", 30)
	_, err := fmt.Fprintf(w, "%s\ntest evaluate result:\nAverage pcc: %v\nAverage mse: %v\nAverage D: %v\n%s\n",
		rule, r.AbsPCCMean, r.MSE, r.DMean, rule)
	return err
}

// Quantiles summarises the distribution of |PCC| over the samples whose
// correlation is defined.
type Quantiles struct {
	Defined int
	P10     float64
	Median  float64
	P90     float64
}

// PCCQuantiles returns the nearest-rank 10th and 90th percentiles and the
// median of |PCC|, skipping NaN rows.
func (r Report) PCCQuantiles() (Quantiles, error) {
	var abs stats.Float64Data
	for _, v := range r.PCC {
		if !math.IsNaN(v) {
			abs = append(abs, math.Abs(v))
		}
	}
	q := Quantiles{Defined: len(abs)}
	var err error
	if q.P10, err = stats.PercentileNearestRank(abs, 10); err != nil {
		return q, errors.Wrap(err, "pcc p10")
	}
	if q.Median, err = abs.Median(); err != nil {
		return q, errors.Wrap(err, "pcc median")
	}
	if q.P90, err = stats.PercentileNearestRank(abs, 90); err != nil {
		return q, errors.Wrap(err, "pcc p90")
	}
	return q, nil
}
