// Package device resolves the compute device that batches are placed on.
package device

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrUnavailable is returned when the requested device cannot run the model.
var ErrUnavailable = errors.New("device unavailable")

// Kind is the class of a compute device.
type Kind int

const (
	CPU Kind = iota
	CUDA
)

func (k Kind) String() string {
	switch k {
	case CPU:
		return "cpu"
	case CUDA:
		return "cuda"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Device describes one compute device.
type Device struct {
	Kind    Kind
	Ordinal int
	Name    string

	// Features lists instruction set extensions for host devices.
	Features []string

	// Memory is the total device memory in bytes, 0 when unknown.
	Memory uint64
}

func (d Device) String() string {
	if d.Kind == CPU {
		return d.Kind.String()
	}
	return fmt.Sprintf("%s:%d", d.Kind, d.Ordinal)
}

// Place makes m available to kernels running on d. Host matrices are
// already in place and are returned as is.
func (d Device) Place(m *mat.Dense) (*mat.Dense, error) {
	if m == nil {
		return nil, errors.New("place: nil matrix")
	}
	if d.Kind != CPU {
		return nil, errors.Wrapf(ErrUnavailable, "place on %s", d)
	}
	return m, nil
}

// Resolve maps a device name to a Device. The empty string, "auto" and
// "cpu" select the host. "cuda" and "cuda:N" are probed but rejected,
// the network kernels only exist for the host.
func Resolve(name string) (Device, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch {
	case name == "" || name == "auto" || name == "cpu":
		return Host(), nil
	case name == "cuda" || strings.HasPrefix(name, "cuda:"):
		ordinal := 0
		if i := strings.IndexByte(name, ':'); i >= 0 {
			n, err := strconv.Atoi(name[i+1:])
			if err != nil || n < 0 {
				return Device{}, errors.Errorf("invalid device ordinal in %q", name)
			}
			ordinal = n
		}
		for _, acc := range Accelerators() {
			if acc.Ordinal == ordinal {
				return Device{}, errors.Wrapf(ErrUnavailable, "%s (%s) has no network kernels", acc, acc.Name)
			}
		}
		return Device{}, errors.Wrapf(ErrUnavailable, "cuda:%d not found", ordinal)
	}
	return Device{}, errors.Errorf("unknown device %q", name)
}
