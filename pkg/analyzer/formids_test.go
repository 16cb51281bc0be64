package analyzer

import (
	"strings"
	"testing"
)

type mapFormIDSource map[string]string

func (m mapFormIDSource) Lookup(formID, plugin string) (string, bool) {
	value, ok := m[plugin+"/"+formID]
	return value, ok
}

func TestCheckFormIDSuspects(t *testing.T) {
	plugins := pluginTable(t,
		"Fallout4.esm", "00",
		"SomeMod.esp", "01",
	)
	stack := []string{
		"  Form ID: 0x0001A332",
		"  Form ID: 0x0001A332",
		"  Form ID: 0x01000F99",
	}

	got := CheckFormIDSuspects(stack, plugins, false, nil)
	if len(got) != 2 {
		t.Fatalf("fragments = %d, want 2", len(got))
	}
	joined := strings.Join(got, "")
	if !strings.Contains(joined, "Form ID: 0001A332 | [Fallout4.esm] | 2") {
		t.Errorf("fragments = %q", joined)
	}
	if !strings.Contains(joined, "Form ID: 01000F99 | [SomeMod.esp] | 1") {
		t.Errorf("fragments = %q", joined)
	}
}

func TestCheckFormIDSuspects_SkipsDynamicIDs(t *testing.T) {
	plugins := pluginTable(t, "Fallout4.esm", "00")
	got := CheckFormIDSuspects([]string{"  Form ID: 0xFF012345"}, plugins, false, nil)
	if len(got) != 0 {
		t.Errorf("fragments = %q, want dynamic Form IDs skipped", got)
	}
}

func TestCheckFormIDSuspects_UnknownPrefix(t *testing.T) {
	plugins := pluginTable(t, "Fallout4.esm", "00")
	got := CheckFormIDSuspects([]string{"  Form ID: 0x7C001234"}, plugins, false, nil)
	if len(got) != 0 {
		t.Errorf("fragments = %q, want no report without an owning plugin", got)
	}
}

func TestCheckFormIDSuspects_WithSource(t *testing.T) {
	plugins := pluginTable(t, "Fallout4.esm", "00")
	// The owning plugin's prefix byte is stripped before the lookup.
	source := mapFormIDSource{"Fallout4.esm/01A332": "DN015_NukaWorld 'Nuka-World'"}

	got := CheckFormIDSuspects([]string{"  Form ID: 0x0001A332"}, plugins, true, source)
	if len(got) != 1 {
		t.Fatalf("fragments = %d, want 1", len(got))
	}
	if !strings.Contains(got[0], "DN015_NukaWorld 'Nuka-World'") {
		t.Errorf("fragment = %q, want the resolved record description", got[0])
	}

	// Lookups are disabled unless values were requested.
	got = CheckFormIDSuspects([]string{"  Form ID: 0x0001A332"}, plugins, false, source)
	if len(got) != 1 || strings.Contains(got[0], "Nuka-World") {
		t.Errorf("fragments = %q, want no description without showValues", got)
	}
}
