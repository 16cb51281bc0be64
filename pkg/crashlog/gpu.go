package crashlog

import "strings"

// GPUVendor is the discrete GPU vendor read from the system specs.
type GPUVendor string

const (
	GPUAmd    GPUVendor = "amd"
	GPUNvidia GPUVendor = "nvidia"

	// GPUUnknown covers integrated graphics and logs whose system specs
	// name neither vendor.
	GPUUnknown GPUVendor = ""
)

// DetectGPU reads the primary GPU vendor from the system specs segment.
func DetectGPU(system []string) GPUVendor {
	for _, line := range system {
		if !strings.Contains(line, "GPU #1") {
			continue
		}
		switch {
		case strings.Contains(line, "AMD"):
			return GPUAmd
		case strings.Contains(line, "Nvidia"):
			return GPUNvidia
		}
	}
	return GPUUnknown
}

// Rival returns the opposing vendor used by vendor-specific mod rules.
// Unknown or integrated GPUs take the Nvidia-rival branch, i.e. they are
// treated like AMD systems for mod compatibility warnings.
func (v GPUVendor) Rival() GPUVendor {
	if v == GPUNvidia {
		return GPUAmd
	}
	return GPUNvidia
}
