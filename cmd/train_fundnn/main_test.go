package main

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neurlang/fundnn/datasets"
	"github.com/neurlang/fundnn/net/feedforward"
)

func writeInputs(t *testing.T, fs afero.Fs) {
	var features, gecs strings.Builder
	features.WriteString("gene,e0,e1,e2\n")
	gecs.WriteString("gene,g0,g1,g2,g3\n")
	for i := 0; i < 22; i++ {
		x := float64(i)
		fmt.Fprintf(&features, "G%02d,%g,%g,%g\n", i, x/22, math.Cos(x), math.Sin(x))
		if i < 20 {
			fmt.Fprintf(&gecs, "G%02d,%g,%g,%g,%g\n", i, math.Sin(x), -x/10, math.Cos(2*x), float64(i%3))
		}
	}
	require.NoError(t, afero.WriteFile(fs, "/in/features.csv", []byte(features.String()), 0644))
	require.NoError(t, afero.WriteFile(fs, "/in/gecs.csv", []byte(gecs.String()), 0644))
	require.NoError(t, afero.WriteFile(fs, "/in/run.yaml", []byte(
		"epochs: 4\nbatch_size: 4\nhidden: [6]\nactivation: tanh\ndropout: 0\nvalid_fraction: 0.2\ntest_fraction: 0.2\nseed: 3\ndevice: cpu\n"), 0644))
}

func TestRunWritesOutputs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeInputs(t, fs)

	err := run(fs, zap.NewNop(), options{
		Features: "/in/features.csv",
		GECs:     "/in/gecs.csv",
		Config:   "/in/run.yaml",
		Save:     "/out/",
		Name:     "RNAi",
		Bins:     5,
	})
	require.NoError(t, err)

	for _, name := range []string{"RNAi_FunDNN.json.zlib", "RNAi_history.csv", "RNAi_loss.png", "RNAi_pcc.png", "RNAi_pre_GECs.csv"} {
		ok, err := afero.Exists(fs, "/out/"+name)
		require.NoError(t, err)
		assert.True(t, ok, name)
	}

	pred, err := datasets.ReadCSVFile(fs, "/out/RNAi_pre_GECs.csv")
	require.NoError(t, err)
	assert.Equal(t, 22, pred.Len())
	assert.Equal(t, []string{"g0", "g1", "g2", "g3"}, pred.Columns)

	net, err := feedforward.ReadZlibWeightsFromFile(fs, "/out/RNAi_FunDNN.json.zlib")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 6, 4}, net.Dims())

	history, err := afero.ReadFile(fs, "/out/RNAi_history.csv")
	require.NoError(t, err)
	assert.Equal(t, 5, strings.Count(string(history), "\n"))
}

func TestRunOverridesAndResume(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeInputs(t, fs)
	one := 1
	opts := options{
		Features: "/in/features.csv",
		GECs:     "/in/gecs.csv",
		Config:   "/in/run.yaml",
		Save:     "/out/",
		Name:     "OE",
		Epochs:   &one,
	}
	require.NoError(t, run(fs, zap.NewNop(), opts))

	// a single epoch has no loss curve
	ok, err := afero.Exists(fs, "/out/OE_loss.png")
	require.NoError(t, err)
	assert.False(t, ok)

	opts.Resume = true
	require.NoError(t, run(fs, zap.NewNop(), opts))
}

func TestRunZeroEpochs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeInputs(t, fs)
	zero := 0
	err := run(fs, zap.NewNop(), options{
		Features: "/in/features.csv",
		GECs:     "/in/gecs.csv",
		Config:   "/in/run.yaml",
		Save:     "/out/",
		Name:     "none",
		Epochs:   &zero,
	})
	assert.Error(t, err)
}

func TestRunWithSGD(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeInputs(t, fs)
	require.NoError(t, afero.WriteFile(fs, "/in/sgd.yaml", []byte(
		"epochs: 2\nbatch_size: 4\nhidden: [6]\nactivation: tanh\ndropout: 0\noptimizer: sgd\nlearning_rate: 0.05\nmomentum: 0.5\nseed: 3\ndevice: cpu\n"), 0644))

	err := run(fs, zap.NewNop(), options{
		Features: "/in/features.csv",
		GECs:     "/in/gecs.csv",
		Config:   "/in/sgd.yaml",
		Save:     "/out/",
		Name:     "sgd",
	})
	require.NoError(t, err)

	ok, err := afero.Exists(fs, "/out/sgd_pre_GECs.csv")
	require.NoError(t, err)
	assert.True(t, ok)
}
