package trainer

import "github.com/pkg/errors"
import "go.uber.org/zap"
import "gonum.org/v1/gonum/mat"

import "github.com/neurlang/fundnn/metrics"

// TestEvaluate predicts gecs from features in evaluation mode and reports
// the mean absolute per-sample Pearson correlation, the mean per-sample KS
// statistic and the overall MSE. The report block is written to c.Out.
func (c Config) TestEvaluate(model Predictor, features, gecs *mat.Dense) (metrics.Report, error) {
	c = c.withDefaults()
	model.SetTraining(false)

	x, err := c.Device.Place(features)
	if err != nil {
		return metrics.Report{}, errors.Wrap(err, "test features")
	}
	pred, err := model.Forward(x)
	if err != nil {
		return metrics.Report{}, errors.Wrap(err, "test forward")
	}
	report, err := metrics.Evaluate(pred, gecs, c.Workers)
	if err != nil {
		return metrics.Report{}, errors.Wrap(err, "test evaluate")
	}
	if err := report.Fprint(c.Out); err != nil {
		return report, errors.Wrap(err, "print report")
	}
	c.Logger.Info("test evaluated",
		zap.String("run", c.RunID),
		zap.Int("samples", len(report.PCC)),
		zap.Float64("pcc", report.AbsPCCMean),
		zap.Float64("mse", report.MSE),
		zap.Float64("d", report.DMean))
	return report, nil
}
