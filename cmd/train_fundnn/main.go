package main

import "encoding/hex"
import "io"
import "log"

import arg "github.com/alexflint/go-arg"
import "github.com/google/uuid"
import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "go.uber.org/zap"

import "github.com/neurlang/fundnn/datasets"
import "github.com/neurlang/fundnn/device"
import "github.com/neurlang/fundnn/inference"
import "github.com/neurlang/fundnn/learning"
import "github.com/neurlang/fundnn/metrics"
import "github.com/neurlang/fundnn/net/feedforward"
import "github.com/neurlang/fundnn/trainer"

type options struct {
	Features string   `arg:"required" help:"node feature CSV, genes in the first column"`
	GECs     string   `arg:"--gecs,required" help:"gene expression change CSV, genes in the first column"`
	Config   string   `help:"YAML hyperparameter file"`
	Save     string   `help:"output path prefix"`
	Name     string   `help:"output file name prefix"`
	Epochs   *int     `help:"override epochs"`
	Beta     *float64 `help:"override beta"`
	Device   string   `help:"override device: auto, cpu or cuda[:N]"`
	Resume   bool     `help:"continue from the checkpoint under --save"`
	Log      string   `help:"also append JSON logs to this file"`
	Bins     int      `help:"bins of the test correlation histogram, 0 disables it"`
}

func main() {
	args := options{
		Save: "./",
		Name: "FunDNN",
		Bins: 20,
	}
	arg.MustParse(&args)

	fs := afero.NewOsFs()
	logger, err := learning.NewLogger(fs, args.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(fs, logger, args); err != nil {
		logger.Fatal("training failed", zap.Error(err))
	}
}

func run(fs afero.Fs, logger *zap.Logger, args options) error {
	h := learning.Default()
	if args.Config != "" {
		var err error
		if h, err = learning.LoadFile(fs, args.Config); err != nil {
			return err
		}
	}
	if args.Epochs != nil {
		h.Epochs = *args.Epochs
	}
	if args.Beta != nil {
		h.Beta = *args.Beta
	}
	if args.Device != "" {
		h.Device = args.Device
	}
	if err := h.Validate(); err != nil {
		return err
	}

	runID := uuid.New().String()
	runField := zap.String("run", runID)

	dev, err := device.Resolve(h.Device)
	if err != nil {
		return err
	}
	logger.Info("device selected", runField,
		zap.Stringer("device", dev),
		zap.Bool("vectorized", device.Vectorized()),
		zap.Int("accelerators", len(device.Accelerators())))

	allFeatures, err := datasets.ReadCSVFile(fs, args.Features)
	if err != nil {
		return err
	}
	allGECs, err := datasets.ReadCSVFile(fs, args.GECs)
	if err != nil {
		return err
	}
	features, gecs, err := datasets.Align(allFeatures, allGECs)
	if err != nil {
		return err
	}
	split, err := datasets.SplitIndices(features.Len(), h.ValidFraction, h.TestFraction, h.Seed)
	if err != nil {
		return err
	}
	logger.Info("data loaded", runField,
		zap.Int("genes", features.Len()),
		zap.Int("train", len(split.Train)),
		zap.Int("valid", len(split.Valid)),
		zap.Int("test", len(split.Test)))

	trainLoader, err := datasets.NewLoader(features.Select(split.Train).Data, gecs.Select(split.Train).Data, h.BatchSize, true, h.Seed)
	if err != nil {
		return err
	}
	validLoader, err := datasets.NewLoader(features.Select(split.Valid).Data, gecs.Select(split.Valid).Data, h.BatchSize, false, h.Seed)
	if err != nil {
		return err
	}

	act, err := feedforward.ParseActivation(h.Activation)
	if err != nil {
		return err
	}
	_, in := features.Shape()
	_, out := gecs.Shape()
	net, err := feedforward.New(h.Dims(in, out), act, h.Dropout, h.Seed)
	if err != nil {
		return err
	}
	checkpoint := args.Save + args.Name + "_FunDNN.json.zlib"
	if net, err = trainer.Resume(fs, net, args.Resume, checkpoint); err != nil {
		return err
	}
	if args.Resume {
		logger.Info("resumed from checkpoint", runField,
			zap.String("path", checkpoint),
			zap.Float64("dropout", net.Dropout()),
			zap.Uint64("seed", net.Seed()))
	}
	opt, err := h.NewOptimizer(net.Params())
	if err != nil {
		return err
	}

	cfg := trainer.Config{
		Epochs: h.Epochs,
		Beta:   h.Beta,
		Device: dev,
		Logger: logger,
		RunID:  runID,
	}
	best, history, err := trainer.Train(cfg, net, trainLoader, validLoader, opt)
	if err := writeFile(fs, args.Save+args.Name+"_history.csv", history.WriteCSV); err != nil {
		return err
	}
	if err != nil {
		return err
	}
	if len(history.Epochs) > 1 {
		if err := writeFile(fs, args.Save+args.Name+"_loss.png", history.PlotLoss); err != nil {
			return err
		}
	}

	if err := best.WriteZlibWeightsToFile(fs, checkpoint); err != nil {
		return err
	}
	digest := best.Digest()
	logger.Info("checkpoint written", runField,
		zap.String("path", checkpoint),
		zap.Int("epoch", history.Best),
		zap.String("digest", hex.EncodeToString(digest[:])))

	if len(split.Test) > 0 {
		report, err := cfg.TestEvaluate(best, features.Select(split.Test).Data, gecs.Select(split.Test).Data)
		if err != nil {
			return err
		}
		if q, err := report.PCCQuantiles(); err == nil {
			logger.Info("test pcc quantiles", runField,
				zap.Int("defined", q.Defined),
				zap.Float64("p10", q.P10),
				zap.Float64("median", q.Median),
				zap.Float64("p90", q.P90))
		}
		if args.Bins > 0 {
			err := writeFile(fs, args.Save+args.Name+"_pcc.png", func(w io.Writer) error {
				return metrics.PlotPCC(w, report, args.Bins)
			})
			if err != nil {
				return err
			}
		}
	}

	p := inference.Predictor{
		Model:   best,
		Device:  dev,
		Fs:      fs,
		Columns: gecs.Columns,
		Logger:  logger,
	}
	_, err = p.FeaturePredict(allFeatures, args.Save, args.Name)
	return err
}

func writeFile(fs afero.Fs, name string, write func(io.Writer) error) error {
	f, err := fs.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	err = write(f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	return errors.Wrap(err, name)
}
