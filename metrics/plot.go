package metrics

import (
	"io"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotPCC renders a PNG histogram of the per-sample Pearson correlations.
// Undefined correlations are left out.
func PlotPCC(w io.Writer, r Report, bins int) error {
	var values plotter.Values
	for _, v := range r.PCC {
		if !math.IsNaN(v) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return errors.New("no defined correlations to plot")
	}
	if bins <= 0 {
		bins = 20
	}

	p, err := plot.New()
	if err != nil {
		return errors.Wrap(err, "new plot")
	}
	p.Title.Text = "Test set PCC"
	p.X.Label.Text = "Pearson correlation"
	p.Y.Label.Text = "Samples"

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return errors.Wrap(err, "histogram")
	}
	p.Add(h)

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return errors.Wrap(err, "render")
	}
	_, err = wt.WriteTo(w)
	return errors.Wrap(err, "write png")
}
