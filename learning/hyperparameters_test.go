package learning

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/neurlang/fundnn/net/feedforward"
	"github.com/neurlang/fundnn/optim"
)

func TestDefaultIsValid(t *testing.T) {
	h := Default()
	require.NoError(t, h.Validate())
	assert.Equal(t, 1.0, h.LearningRate)
	assert.Equal(t, 0.9, h.Rho)
	assert.Equal(t, 1e-6, h.Eps)
}

func TestLoadOverridesDefaults(t *testing.T) {
	h, err := Load(strings.NewReader("epochs: 3\nbeta: 0.25\nhidden: [8, 4]\nactivation: tanh\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, h.Epochs)
	assert.Equal(t, 0.25, h.Beta)
	assert.Equal(t, []int{8, 4}, h.Hidden)
	assert.Equal(t, "tanh", h.Activation)
	assert.Equal(t, Default().BatchSize, h.BatchSize)
	assert.Equal(t, []int{10, 8, 4, 2}, h.Dims(10, 2))
}

func TestLoadRejects(t *testing.T) {
	for _, doc := range []string{
		"epoch: 3\n",
		"beta: 1.5\n",
		"batch_size: 0\n",
		"activation: softmax\n",
		"hidden: [4, 0]\n",
		"valid_fraction: 0.6\ntest_fraction: 0.4\n",
		"dropout: 1\n",
		"optimizer: adam\n",
		"optimizer: sgd\nmomentum: 1\n",
	} {
		_, err := Load(strings.NewReader(doc))
		assert.Error(t, err, doc)
	}
}

func TestNewOptimizer(t *testing.T) {
	net, err := feedforward.New([]int{2, 1}, feedforward.Identity, 0, 1)
	require.NoError(t, err)

	h := Default()
	opt, err := h.NewOptimizer(net.Params())
	require.NoError(t, err)
	assert.IsType(t, &optim.Adadelta{}, opt)

	h, err = Load(strings.NewReader("optimizer: sgd\nlearning_rate: 0.01\nmomentum: 0.9\n"))
	require.NoError(t, err)
	opt, err = h.NewOptimizer(net.Params())
	require.NoError(t, err)
	sgd, ok := opt.(*optim.SGD)
	require.True(t, ok)
	assert.Equal(t, 0.01, sgd.LR)
	assert.Equal(t, 0.9, sgd.Momentum)

	h.Optimizer = "rmsprop"
	_, err = h.NewOptimizer(net.Params())
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/run.yaml", []byte("seed: 42\ndevice: cpu\n"), 0644))

	h, err := LoadFile(fs, "/run.yaml")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), h.Seed)
	assert.Equal(t, "cpu", h.Device)

	_, err = LoadFile(fs, "/missing.yaml")
	assert.Error(t, err)
}

func TestNewLoggerFileSink(t *testing.T) {
	fs := afero.NewMemMapFs()
	name := "/logs/train.log"
	require.NoError(t, afero.WriteFile(fs, name, []byte("{}\n"), 0644))
	log, err := NewLogger(fs, name)
	require.NoError(t, err)
	log.Info("epoch done", zap.Int("epoch", 7))
	_ = log.Sync()

	data, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{}\n"))
	assert.Contains(t, string(data), `"msg":"epoch done"`)
	assert.Contains(t, string(data), `"epoch":7`)
	assert.Contains(t, string(data), `"caller":"learning/hyperparameters_test.go`)

	_, err = NewLogger(afero.NewReadOnlyFs(fs), "/logs/other.log")
	assert.Error(t, err)
}
