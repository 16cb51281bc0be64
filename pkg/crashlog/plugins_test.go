package crashlog

import "testing"

func TestBuildPluginTable_BracketFormats(t *testing.T) {
	s := &Segments{Plugins: []string{
		"[00] Fallout4.esm",
		"[07] MyWeaponMod.esp",
		"[FE:001] SomeLight.esl",
	}}
	result := BuildPluginTable(s, "Fallout4.esm", nil, nil)

	if !result.Loaded {
		t.Fatal("Loaded = false, want true when the game master is present")
	}

	tests := []struct {
		name, tag string
	}{
		{"Fallout4.esm", "00"},
		{"MyWeaponMod.esp", "07"},
		{"SomeLight.esl", "FE001"},
	}
	for _, tt := range tests {
		tag, ok := result.Table.Tag(tt.name)
		if !ok {
			t.Errorf("Tag(%q) missing", tt.name)
			continue
		}
		if tag != tt.tag {
			t.Errorf("Tag(%q) = %q, want %q", tt.name, tag, tt.tag)
		}
	}
}

func TestBuildPluginTable_CanonicalizedLightSlot(t *testing.T) {
	lines := Reformat([]string{
		"PLUGINS:",
		"    [FE:  1] SomeMod.esp",
	}, nil, false)
	s := &Segments{Plugins: []string{lines[1], "[00] Fallout4.esm"}}

	result := BuildPluginTable(s, "Fallout4.esm", nil, nil)
	tag, ok := result.Table.Tag("SomeMod.esp")
	if !ok {
		t.Fatal("SomeMod.esp missing from table")
	}
	if tag != "FE001" {
		t.Errorf("Tag(SomeMod.esp) = %q, want %q", tag, "FE001")
	}
}

func TestBuildPluginTable_FirstOccurrenceWins(t *testing.T) {
	s := &Segments{Plugins: []string{
		"[00] Fallout4.esm",
		"[07] Duplicate.esp",
		"[08] Duplicate.esp",
	}}
	result := BuildPluginTable(s, "Fallout4.esm", nil, nil)

	tag, _ := result.Table.Tag("Duplicate.esp")
	if tag != "07" {
		t.Errorf("Tag(Duplicate.esp) = %q, want first occurrence %q", tag, "07")
	}
	if result.Table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", result.Table.Len())
	}
}

func TestBuildPluginTable_DLLAndUnknownFallbacks(t *testing.T) {
	s := &Segments{Plugins: []string{
		"[00] Fallout4.esm",
		"somehook.dll",
		"NoBracket.esp",
	}}
	result := BuildPluginTable(s, "Fallout4.esm", nil, nil)

	if tag, _ := result.Table.Tag("somehook.dll"); tag != TagDLL {
		t.Errorf("Tag(somehook.dll) = %q, want %q", tag, TagDLL)
	}
	if tag, _ := result.Table.Tag("NoBracket.esp"); tag != TagUnknown {
		t.Errorf("Tag(NoBracket.esp) = %q, want %q", tag, TagUnknown)
	}
}

func TestBuildPluginTable_XSEAndVulkanModules(t *testing.T) {
	s := &Segments{
		Plugins:    []string{"[00] Fallout4.esm"},
		XSEModules: []string{"Buffout4.dll v1.26.2", "x-cell-fo4.dll"},
		AllModules: []string{"Fallout4.exe", "vulkan-1.dll 1.3.224"},
	}
	result := BuildPluginTable(s, "Fallout4.esm", nil, nil)

	for _, name := range []string{"buffout4.dll", "x-cell-fo4.dll", "vulkan-1.dll"} {
		tag, ok := result.Table.Tag(name)
		if !ok {
			t.Errorf("Tag(%q) missing", name)
			continue
		}
		if tag != TagDLL {
			t.Errorf("Tag(%q) = %q, want %q", name, tag, TagDLL)
		}
	}
}

func TestBuildPluginTable_MissingGameMaster(t *testing.T) {
	s := &Segments{
		Plugins:    []string{"[07] MyWeaponMod.esp"},
		XSEModules: []string{"buffout4.dll"},
	}
	result := BuildPluginTable(s, "Fallout4.esm", nil, nil)

	if result.Loaded {
		t.Error("Loaded = true, want false without the game master")
	}
	if result.Table.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (low-confidence table)", result.Table.Len())
	}
}

func TestBuildPluginTable_LoadOrderOverride(t *testing.T) {
	// The override replaces the log entirely, including the game master
	// presence check.
	s := &Segments{Plugins: []string{"[07] FromLog.esp"}}
	result := BuildPluginTable(s, "Fallout4.esm", []string{"First.esm", "Second.esp"}, nil)

	if !result.Loaded {
		t.Error("Loaded = false, want true for an override")
	}
	if result.Table.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", result.Table.Len())
	}
	if tag, _ := result.Table.Tag("First.esm"); tag != TagLoadOrderOverride {
		t.Errorf("Tag(First.esm) = %q, want %q", tag, TagLoadOrderOverride)
	}
	if _, ok := result.Table.Tag("FromLog.esp"); ok {
		t.Error("log-derived entries present despite override")
	}
}

func TestBuildPluginTable_IgnoreSet(t *testing.T) {
	s := &Segments{Plugins: []string{
		"[00] Fallout4.esm",
		"[07] Ignored.esp",
	}}
	result := BuildPluginTable(s, "Fallout4.esm", nil, []string{"ignored.esp"})

	if _, ok := result.Table.Tag("Ignored.esp"); ok {
		t.Error("ignore-set entry still present (match should be case-insensitive)")
	}
	if _, ok := result.Table.Tag("Fallout4.esm"); !ok {
		t.Error("non-ignored entry removed")
	}
}

func TestBuildPluginTable_LimitMarker(t *testing.T) {
	s := &Segments{Plugins: []string{
		"[00] Fallout4.esm",
		"[FF] Overflow.esp",
	}}
	result := BuildPluginTable(s, "Fallout4.esm", nil, nil)

	if !result.LimitReached {
		t.Error("LimitReached = false, want true for a [FF] marker")
	}
}

func TestParsePluginLine_Rejects(t *testing.T) {
	bad := []string{
		"[0] Short.esp",        // one hex digit
		"[007] Long.esp",       // three digits without FE:
		"[FE:01] Light.esl",    // two light digits
		"[GG] NotHex.esp",      // non-hex slot
		"[07] NoExtension",     // missing plugin extension
		"[07] Module.dll",      // dll is not a plugin slot entry
		"no bracket at all",    //
		"[FE:001]",             // missing name
	}
	for _, line := range bad {
		if _, _, ok := parsePluginLine(line); ok {
			t.Errorf("parsePluginLine(%q) ok = true, want rejection", line)
		}
	}
}
