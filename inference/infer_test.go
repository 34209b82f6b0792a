package inference

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/neurlang/fundnn/datasets"
	"github.com/neurlang/fundnn/net/feedforward"
)

// doubler predicts two outputs per row: the row sum and its double.
type doubler struct{ training bool }

func (d *doubler) Forward(x *mat.Dense) (*mat.Dense, error) {
	r, _ := x.Dims()
	out := mat.NewDense(r, 2, nil)
	for i := 0; i < r; i++ {
		s := mat.Sum(x.RowView(i))
		out.Set(i, 0, s)
		out.Set(i, 1, 2*s)
	}
	return out, nil
}

func (d *doubler) SetTraining(training bool) { d.training = training }

func features(t *testing.T) datasets.Table {
	tab, err := datasets.NewTable([]string{"TP53", "AKT1", "MYC", "BRCA1"}, []string{"e0", "e1"},
		mat.NewDense(4, 2, []float64{1, 1, 2, 2, 3, 3, 4, 4}))
	require.NoError(t, err)
	return tab
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "out/RNAi_pre_GECs.csv", OutputPath("out/", "RNAi"))
}

func TestPredictSortsAndKeepsIndex(t *testing.T) {
	m := &doubler{training: true}
	p := &Predictor{Model: m, Columns: []string{"g1", "g2"}}
	in := features(t)

	got, err := p.Predict(in)
	require.NoError(t, err)
	assert.False(t, m.training)

	assert.Equal(t, in.Len(), got.Len())
	want := append([]string(nil), in.Index...)
	sort.Strings(want)
	assert.Equal(t, want, got.Index)
	assert.True(t, sort.StringsAreSorted(got.Index))
	assert.Equal(t, []string{"g1", "g2"}, got.Columns)

	// AKT1 had features (2, 2)
	assert.Equal(t, 4.0, got.Data.At(0, 0))
	assert.Equal(t, 8.0, got.Data.At(0, 1))
}

func TestPredictSortsNumericIndex(t *testing.T) {
	in, err := datasets.NewTable([]string{"10", "9", "100"}, nil, mat.NewDense(3, 1, []float64{10, 9, 100}))
	require.NoError(t, err)
	got, err := (&Predictor{Model: &doubler{}}).Predict(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10", "100"}, got.Index)
	assert.Equal(t, 18.0, got.Data.At(0, 1))
}

func TestPredictColumnMismatch(t *testing.T) {
	p := &Predictor{Model: &doubler{}, Columns: []string{"only"}}
	_, err := p.Predict(features(t))
	assert.Error(t, err)

	_, err = (&Predictor{}).Predict(features(t))
	assert.Error(t, err)
}

func TestFeaturePredictWritesCSV(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/out/OE_pre_GECs.csv", []byte("stale"), 0644))

	var console bytes.Buffer
	p := &Predictor{Model: &doubler{}, Fs: fs, Out: &console}
	got, err := p.FeaturePredict(features(t), "/out/", "OE")
	require.NoError(t, err)
	assert.Equal(t, 4, got.Len())

	data, err := afero.ReadFile(fs, "/out/OE_pre_GECs.csv")
	require.NoError(t, err)
	assert.Equal(t, ",0,1\nAKT1,4,8\nBRCA1,8,16\nMYC,6,12\nTP53,2,4\n", string(data))
	assert.Equal(t, "\npredict finish:\npre_GECs size:(4, 2)\n\n", console.String())

	back, err := datasets.ReadCSVFile(fs, "/out/OE_pre_GECs.csv")
	require.NoError(t, err)
	assert.ElementsMatch(t, features(t).Index, back.Index)
}

func TestFeaturePredictWithNetwork(t *testing.T) {
	net, err := feedforward.New([]int{2, 5, 3}, feedforward.ReLU, 0.3, 1)
	require.NoError(t, err)
	fs := afero.NewMemMapFs()
	p := &Predictor{Model: net, Fs: fs, Out: &bytes.Buffer{}}

	got, err := p.FeaturePredict(features(t), "", "CRISPR")
	require.NoError(t, err)
	r, c := got.Shape()
	assert.Equal(t, 4, r)
	assert.Equal(t, 3, c)
	assert.False(t, net.Training())

	data, err := afero.ReadFile(fs, "CRISPR_pre_GECs.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), ",0,1,2\nAKT1,"))
}
