package device

import "github.com/klauspost/cpuid/v2"

// Host returns the host processor as a Device.
func Host() Device {
	return Device{
		Kind:     CPU,
		Name:     cpuid.CPU.BrandName,
		Features: cpuid.CPU.FeatureSet(),
	}
}

// Vectorized reports whether the host has the wide SIMD units gonum's
// assembly kernels take advantage of.
func Vectorized() bool {
	if cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ) {
		return true
	}
	return cpuid.CPU.Supports(cpuid.AVX2, cpuid.FMA3)
}

// Threads returns the number of logical cores, at least 1.
func Threads() int {
	if cpuid.CPU.LogicalCores > 0 {
		return cpuid.CPU.LogicalCores
	}
	return 1
}
