package crashlog

import "testing"

func TestDetectGPU(t *testing.T) {
	tests := []struct {
		name   string
		system []string
		want   GPUVendor
	}{
		{"nvidia", []string{"GPU #1: Nvidia GeForce RTX 3060"}, GPUNvidia},
		{"amd", []string{"GPU #1: AMD Radeon RX 6800"}, GPUAmd},
		{"integrated", []string{"GPU #1: Intel UHD Graphics 630"}, GPUUnknown},
		{"no gpu line", []string{"OS: Microsoft Windows 10"}, GPUUnknown},
		{"secondary ignored", []string{"GPU #2: AMD Radeon", "GPU #1: Nvidia GeForce"}, GPUNvidia},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectGPU(tt.system); got != tt.want {
				t.Errorf("DetectGPU() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGPUVendor_Rival(t *testing.T) {
	if got := GPUNvidia.Rival(); got != GPUAmd {
		t.Errorf("Nvidia rival = %q, want amd", got)
	}
	if got := GPUAmd.Rival(); got != GPUNvidia {
		t.Errorf("AMD rival = %q, want nvidia", got)
	}
	// Unknown and integrated GPUs take the Nvidia-rival branch.
	if got := GPUUnknown.Rival(); got != GPUNvidia {
		t.Errorf("unknown rival = %q, want nvidia", got)
	}
}
