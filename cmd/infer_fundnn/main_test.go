package main

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neurlang/fundnn/datasets"
	"github.com/neurlang/fundnn/net/feedforward"
)

func TestRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	net, err := feedforward.New([]int{3, 4, 2}, feedforward.Tanh, 0, 5)
	require.NoError(t, err)
	require.NoError(t, net.WriteZlibWeightsToFile(fs, "/m/net.json.zlib"))
	require.NoError(t, afero.WriteFile(fs, "/in/features.csv",
		[]byte("gene,a,b,c\nZNF1,1,0,0\nACTB,0,1,0\nGAPDH,0,0,1\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/in/gecs.csv",
		[]byte("gene,up,down\nACTB,1,2\n"), 0644))

	err = run(fs, zap.NewNop(), options{
		Features:   "/in/features.csv",
		Checkpoint: "/m/net.json.zlib",
		GECs:       "/in/gecs.csv",
		Save:       "/out/",
		Name:       "test",
	})
	require.NoError(t, err)

	got, err := datasets.ReadCSVFile(fs, "/out/test_pre_GECs.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"ACTB", "GAPDH", "ZNF1"}, got.Index)
	assert.Equal(t, []string{"up", "down"}, got.Columns)
}

func TestRunInputWidthMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	net, err := feedforward.New([]int{2, 2}, feedforward.ReLU, 0, 5)
	require.NoError(t, err)
	require.NoError(t, net.WriteZlibWeightsToFile(fs, "net.json.zlib"))
	require.NoError(t, afero.WriteFile(fs, "features.csv", []byte(",a,b,c\nX,1,2,3\n"), 0644))

	err = run(fs, zap.NewNop(), options{Features: "features.csv", Checkpoint: "net.json.zlib"})
	assert.Error(t, err)
}
