//go:build cuda

package device

import "gorgonia.org/cu"

// Accelerators lists the CUDA devices visible to the driver.
func Accelerators() (out []Device) {
	n, err := cu.NumDevices()
	if err != nil {
		return nil
	}
	for i := 0; i < n; i++ {
		dev := cu.Device(i)
		name, err := dev.Name()
		if err != nil {
			continue
		}
		memory, err := dev.TotalMem()
		if err != nil || memory < 0 {
			continue
		}
		out = append(out, Device{
			Kind:    CUDA,
			Ordinal: i,
			Name:    name,
			Memory:  uint64(memory),
		})
	}
	return out
}
