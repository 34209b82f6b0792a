//go:build !cuda

package device

// Accelerators lists CUDA devices. Builds without the cuda tag never see any.
func Accelerators() []Device {
	return nil
}
