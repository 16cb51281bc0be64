package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

func loadVersionRuleSet(t *testing.T, latest, latestVR string) *ruleset.RuleSet {
	t.Helper()
	content := `game:
  name: Fallout4
  xse_acronym: F4SE
  crashgen_name: Buffout 4
`
	if latest != "" {
		content += "  crashgen_latest: " + latest + "\n"
	}
	if latestVR != "" {
		content += "  crashgen_latest_vr: " + latestVR + "\n"
	}
	content += `warnings:
  outdated: "# WARNING : AN UPDATE FOR Buffout 4 IS AVAILABLE! #"
`
	path := filepath.Join(t.TempDir(), "ruleset.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing ruleset: %v", err)
	}
	rs, err := ruleset.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return rs
}

func TestCheckVersion(t *testing.T) {
	rs := loadVersionRuleSet(t, "Buffout 4 v1.28.6", "Buffout 4 v1.30.0")

	tests := []struct {
		name     string
		detected string
		upToDate bool
	}{
		{"latest flat", "Buffout 4 v1.28.6", true},
		{"newer than flat", "Buffout 4 v1.31.1 Feb 28 2023", true},
		{"older than both", "Buffout 4 v1.26.2", false},
		{"between flat and vr", "Buffout 4 v1.29.0", true},
		{"unparseable", "UNKNOWN", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fragments := CheckVersion(tt.detected, rs)
			if len(fragments) != 1 {
				t.Fatalf("fragments = %d, want 1", len(fragments))
			}
			gotLatest := strings.Contains(fragments[0], "latest version")
			if gotLatest != tt.upToDate {
				t.Errorf("CheckVersion(%q) = %q, want upToDate=%v", tt.detected, fragments[0], tt.upToDate)
			}
		})
	}
}

func TestCheckVersion_NoKnownLatest(t *testing.T) {
	rs := loadVersionRuleSet(t, "", "")
	fragments := CheckVersion("Buffout 4 v1.0.0", rs)
	if len(fragments) != 1 || !strings.Contains(fragments[0], "latest version") {
		t.Errorf("fragments = %q, want up-to-date without version data", fragments)
	}
}
