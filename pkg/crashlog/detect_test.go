package crashlog

import "testing"

func TestDetectFormat_Buffout4(t *testing.T) {
	result := DetectFormat(sampleLog())

	best := result.Best()
	if best == nil {
		t.Fatal("Best() = nil, want a match")
	}
	if best.Format.Name != "Buffout 4" {
		t.Errorf("Best().Format.Name = %q, want Buffout 4", best.Format.Name)
	}
	if !best.HeaderMatched {
		// sampleLog leads with the game version, not the crashgen header,
		// so only markers count. All six are present.
		t.Log("header not matched; markers carry the score")
	}
	if best.MarkersFound != 6 {
		t.Errorf("MarkersFound = %d, want 6", best.MarkersFound)
	}
}

func TestDetectFormat_NoMatch(t *testing.T) {
	result := DetectFormat([]string{"syslog line", "another line"})
	if result.Best() != nil {
		t.Errorf("Best() = %+v, want nil for a foreign log", result.Best())
	}
}

func TestDetectFormat_HeaderOnly(t *testing.T) {
	result := DetectFormat([]string{"Buffout 4 v1.26.2"})
	best := result.Best()
	if best == nil {
		t.Fatal("Best() = nil, want a header-only match")
	}
	if !best.HeaderMatched || best.MarkersFound != 0 {
		t.Errorf("match = %+v, want header-only", best)
	}
}
