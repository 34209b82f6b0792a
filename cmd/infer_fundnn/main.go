package main

import "encoding/hex"
import "log"

import arg "github.com/alexflint/go-arg"
import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "go.uber.org/zap"

import "github.com/neurlang/fundnn/datasets"
import "github.com/neurlang/fundnn/device"
import "github.com/neurlang/fundnn/inference"
import "github.com/neurlang/fundnn/learning"
import "github.com/neurlang/fundnn/net/feedforward"

type options struct {
	Features   string `arg:"required" help:"node feature CSV, genes in the first column"`
	Checkpoint string `arg:"required" help:"trained network, *_FunDNN.json.zlib"`
	GECs       string `arg:"--gecs" help:"take the output column labels from the header of this CSV"`
	Save       string `help:"output path prefix"`
	Name       string `help:"output file name prefix"`
	Device     string `help:"auto, cpu or cuda[:N]"`
}

func main() {
	args := options{
		Save: "./",
		Name: "FunDNN",
	}
	arg.MustParse(&args)

	fs := afero.NewOsFs()
	logger, err := learning.NewLogger(fs, "")
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(fs, logger, args); err != nil {
		logger.Fatal("prediction failed", zap.Error(err))
	}
}

func run(fs afero.Fs, logger *zap.Logger, args options) error {
	dev, err := device.Resolve(args.Device)
	if err != nil {
		return err
	}
	net, err := feedforward.ReadZlibWeightsFromFile(fs, args.Checkpoint)
	if err != nil {
		return err
	}
	digest := net.Digest()
	logger.Info("checkpoint loaded",
		zap.String("path", args.Checkpoint),
		zap.Ints("dims", net.Dims()),
		zap.String("digest", hex.EncodeToString(digest[:])))

	features, err := datasets.ReadCSVFile(fs, args.Features)
	if err != nil {
		return err
	}
	if _, c := features.Shape(); c != net.InputDim() {
		return errors.Errorf("%s has %d features, network expects %d", args.Features, c, net.InputDim())
	}

	var columns []string
	if args.GECs != "" {
		gecs, err := datasets.ReadCSVFile(fs, args.GECs)
		if err != nil {
			return err
		}
		columns = gecs.Columns
	}

	p := inference.Predictor{
		Model:   net,
		Device:  dev,
		Fs:      fs,
		Columns: columns,
		Logger:  logger,
	}
	_, err = p.FeaturePredict(features, args.Save, args.Name)
	return err
}
