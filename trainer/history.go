package trainer

import "io"

import "github.com/gocarina/gocsv"
import "github.com/pkg/errors"
import chart "github.com/wcharczuk/go-chart"

// Epoch is the record of one training epoch.
type Epoch struct {
	Epoch     int     `csv:"epoch"`
	Seconds   float64 `csv:"time"`
	TrainLoss float64 `csv:"train_loss"`
	TrainMSE  float64 `csv:"train_mse"`
	TrainPCC  float64 `csv:"train_pcc"`
	ValidLoss float64 `csv:"valid_loss"`
	ValidMSE  float64 `csv:"valid_mse"`
	ValidPCC  float64 `csv:"valid_pcc"`
	Improved  bool    `csv:"improved"`
}

// History lists the epochs of one Train call. Best is the epoch whose
// model was returned, -1 if none.
type History struct {
	Epochs []Epoch
	Best   int
}

// TrainLosses returns the combined training loss per epoch.
func (h History) TrainLosses() []float64 {
	out := make([]float64, len(h.Epochs))
	for i, e := range h.Epochs {
		out[i] = e.TrainLoss
	}
	return out
}

// ValidLosses returns the combined validation loss per epoch.
func (h History) ValidLosses() []float64 {
	out := make([]float64, len(h.Epochs))
	for i, e := range h.Epochs {
		out[i] = e.ValidLoss
	}
	return out
}

// WriteCSV writes one row per epoch.
func (h History) WriteCSV(w io.Writer) error {
	return errors.Wrap(gocsv.Marshal(h.Epochs, w), "write history")
}

// PlotLoss renders the training and validation loss curves as a PNG.
func (h History) PlotLoss(w io.Writer) error {
	if len(h.Epochs) < 2 {
		return errors.Errorf("need at least 2 epochs to plot, have %d", len(h.Epochs))
	}
	epochs := make([]float64, len(h.Epochs))
	for i := range epochs {
		epochs[i] = float64(i)
	}

	graph := chart.Chart{
		Title:      "Loss figure",
		TitleStyle: chart.StyleShow(),
		XAxis: chart.XAxis{
			Name:      "Epochs",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		YAxis: chart.YAxis{
			Name:      "Loss values",
			NameStyle: chart.StyleShow(),
			Style:     chart.StyleShow(),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "train loss",
				XValues: epochs,
				YValues: h.TrainLosses(),
				Style: chart.Style{
					Show:            true,
					StrokeColor:     chart.ColorRed,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5, 5},
				},
			},
			chart.ContinuousSeries{
				Name:    "valid loss",
				XValues: epochs,
				YValues: h.ValidLosses(),
				Style: chart.Style{
					Show:        true,
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2,
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}
	return errors.Wrap(graph.Render(chart.PNG, w), "render loss figure")
}
