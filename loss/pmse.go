// Package loss implements the PMSE loss used to train FunDNN: a weighted
// combination of mean squared error and a Pearson correlation term.
package loss

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Epsilon keeps the Pearson term finite for constant rows.
const Epsilon = 1e-8

// ErrShape is returned when targets and predictions disagree in shape.
var ErrShape = errors.New("loss: shape mismatch")

// Losses is the (combined, mse, pearson) triple of one batch or the mean
// of several.
type Losses struct {
	Loss float64
	MSE  float64
	PCC  float64
}

// Add returns the element-wise sum of l and o.
func (l Losses) Add(o Losses) Losses {
	return Losses{Loss: l.Loss + o.Loss, MSE: l.MSE + o.MSE, PCC: l.PCC + o.PCC}
}

// Scale multiplies all three terms by f.
func (l Losses) Scale(f float64) Losses {
	return Losses{Loss: l.Loss * f, MSE: l.MSE * f, PCC: l.PCC * f}
}

// PMSE returns beta*mse + (1-beta)*pcc where mse is the mean squared error
// over all elements and pcc is one minus the mean row-wise Pearson
// correlation between target and pred. The second return value is the
// gradient of the combined loss with respect to pred.
func PMSE(target, pred *mat.Dense, beta float64) (Losses, *mat.Dense, error) {
	r, c := target.Dims()
	pr, pc := pred.Dims()
	if r != pr || c != pc {
		return Losses{}, nil, errors.Wrapf(ErrShape, "target %dx%d, prediction %dx%d", r, c, pr, pc)
	}
	if r == 0 || c == 0 {
		return Losses{}, nil, errors.Wrap(ErrShape, "empty batch")
	}
	n := float64(r * c)

	var diff mat.Dense
	diff.Sub(pred, target)
	fro := mat.Norm(&diff, 2)
	mse := fro * fro / n

	// d(mse)/d(pred) = 2 (pred - target) / n
	grad := mat.NewDense(r, c, nil)
	grad.Scale(beta*2/n, &diff)

	var corrSum float64
	pcBuf := make([]float64, c)
	tcBuf := make([]float64, c)
	rowScale := -(1 - beta) / float64(r)
	for i := 0; i < r; i++ {
		corr := centered(pcBuf, tcBuf, pred.RawRowView(i), target.RawRowView(i))
		corrSum += corr.r
		if rowScale == 0 {
			continue
		}
		// dr/dp = tc/(np*nt) - r*pc/np^2
		row := grad.RawRowView(i)
		a := 1 / (corr.np * corr.nt)
		b := corr.r / (corr.np * corr.np)
		for j := range row {
			row[j] += rowScale * (a*tcBuf[j] - b*pcBuf[j])
		}
	}
	pcc := 1 - corrSum/float64(r)

	return Losses{
		Loss: beta*mse + (1-beta)*pcc,
		MSE:  mse,
		PCC:  pcc,
	}, grad, nil
}

type correlation struct {
	r, np, nt float64
}

// centered writes the mean-centred p and t into pc and tc and returns
// their smoothed Pearson correlation along with the two smoothed norms.
func centered(pc, tc, p, t []float64) correlation {
	var pm, tm float64
	for j := range p {
		pm += p[j]
		tm += t[j]
	}
	pm /= float64(len(p))
	tm /= float64(len(t))

	var dot, pp, tt float64
	for j := range p {
		pc[j] = p[j] - pm
		tc[j] = t[j] - tm
		dot += pc[j] * tc[j]
		pp += pc[j] * pc[j]
		tt += tc[j] * tc[j]
	}
	np := math.Sqrt(pp + Epsilon)
	nt := math.Sqrt(tt + Epsilon)
	return correlation{r: dot / (np * nt), np: np, nt: nt}
}
