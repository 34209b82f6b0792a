package trainer

import "fmt"
import "math"
import "time"

import "github.com/pkg/errors"
import "go.uber.org/zap"

// ErrNoModel is returned by Train when no epoch produced a snapshot, either
// because zero epochs were requested or every validation loss was NaN.
var ErrNoModel = errors.New("trainer: no trained model produced")

const epochFormat = "end of epoch:%3d | time:%5.2fs | train loss:%5.5f | valid loss:%5.5f | " +
	"train MseLoss:%5.5f | train PccLoss:%5.5f | valid MseLoss:%5.5f | valid PccLoss:%5.5f\n"

// Train runs c.Epochs epochs of TrainEpoch followed by ValidEpoch. Whenever
// the validation loss is strictly below the best seen so far, a deep copy
// of model becomes the new best. It returns that copy and the per-epoch
// history. The live model keeps its final weights.
func Train[M Model[M]](c Config, model M, train, valid Loader, opt Optimizer) (M, History, error) {
	c = c.withDefaults()
	var best M
	h := History{Best: -1}
	if c.Epochs < 0 {
		return best, h, errors.Errorf("negative epoch count %d", c.Epochs)
	}
	log := c.Logger.With(zap.String("run", c.RunID))
	log.Info("training started",
		zap.Int("epochs", c.Epochs),
		zap.Int("train_batches", train.Len()),
		zap.Int("valid_batches", valid.Len()),
		zap.Float64("beta", c.Beta))

	minLoss := math.Inf(1)
	for epoch := 0; epoch < c.Epochs; epoch++ {
		start := time.Now()

		tr, err := c.TrainEpoch(model, train, opt)
		if err != nil {
			return best, h, errors.Wrapf(err, "epoch %d", epoch)
		}
		va, err := c.ValidEpoch(model, valid)
		if err != nil {
			return best, h, errors.Wrapf(err, "epoch %d", epoch)
		}

		e := Epoch{
			Epoch:     epoch,
			TrainLoss: tr.Loss, TrainMSE: tr.MSE, TrainPCC: tr.PCC,
			ValidLoss: va.Loss, ValidMSE: va.MSE, ValidPCC: va.PCC,
		}
		if va.Loss < minLoss {
			minLoss = va.Loss
			best = model.Clone()
			h.Best = epoch
			e.Improved = true
		}
		e.Seconds = time.Since(start).Seconds()
		h.Epochs = append(h.Epochs, e)

		fmt.Fprintf(c.Out, epochFormat, epoch, e.Seconds,
			tr.Loss, va.Loss, tr.MSE, tr.PCC, va.MSE, va.PCC)
		log.Debug("epoch finished",
			zap.Int("epoch", epoch),
			zap.Float64("train_loss", tr.Loss),
			zap.Float64("valid_loss", va.Loss),
			zap.Bool("improved", e.Improved))
	}

	if h.Best < 0 {
		return best, h, ErrNoModel
	}
	log.Info("training finished", zap.Int("best_epoch", h.Best), zap.Float64("best_valid_loss", minLoss))
	return best, h, nil
}
