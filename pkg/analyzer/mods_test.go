package analyzer

import (
	"strings"
	"testing"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/crashlog"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

func pluginTable(t *testing.T, pairs ...string) *crashlog.PluginTable {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatal("pluginTable wants name/tag pairs")
	}
	table := crashlog.NewPluginTable()
	for i := 0; i < len(pairs); i += 2 {
		table.InsertIfAbsent(pairs[i], pairs[i+1])
	}
	return table
}

func modTable(pairs ...string) *ruleset.Table {
	table := ruleset.NewTable()
	for i := 0; i < len(pairs); i += 2 {
		table.Set(pairs[i], pairs[i+1])
	}
	return table
}

func TestDetectModsSingle(t *testing.T) {
	rules := modTable(
		"classicholsteredweapons", "CHW warning text.",
		"epo", "EPO warning text.",
	)
	plugins := pluginTable(t,
		"ClassicHolsteredWeapons.esp", "1A",
		"OtherMod.esp", "1B",
	)

	fragments, found, err := DetectModsSingle(rules, plugins)
	if err != nil {
		t.Fatalf("DetectModsSingle() error = %v", err)
	}
	if !found {
		t.Fatal("found = false")
	}
	joined := strings.Join(fragments, "")
	if !strings.Contains(joined, "[!] FOUND : [1A]") || !strings.Contains(joined, "CHW warning text.") {
		t.Errorf("fragments = %q", joined)
	}
	if strings.Contains(joined, "EPO") {
		t.Error("unmatched rule produced output")
	}
}

func TestDetectModsSingle_FirstPluginWins(t *testing.T) {
	rules := modTable("scrap", "Scrap warning.")
	plugins := pluginTable(t,
		"ScrapEverything.esp", "0C",
		"ScrapAll.esp", "0D",
	)

	fragments, _, err := DetectModsSingle(rules, plugins)
	if err != nil {
		t.Fatalf("DetectModsSingle() error = %v", err)
	}
	joined := strings.Join(fragments, "")
	if !strings.Contains(joined, "[0C]") {
		t.Errorf("fragments = %q, want the first matching plugin's tag", joined)
	}
	if strings.Contains(joined, "[0D]") {
		t.Error("rule fired more than once")
	}
}

func TestDetectModsSingle_EmptyWarning(t *testing.T) {
	rules := modTable("broken", "")
	plugins := pluginTable(t, "BrokenMod.esp", "10")

	if _, _, err := DetectModsSingle(rules, plugins); err == nil {
		t.Fatal("DetectModsSingle() error = nil for a rule without warning text")
	}
}

func TestDetectModsDouble(t *testing.T) {
	rules := modTable("unlimited survival mode | classic holstered weapons", "Conflict warning text.")
	plugins := pluginTable(t,
		"Unlimited Survival Mode.esp", "20",
		"Classic Holstered Weapons.esp", "21",
	)

	fragments, found, err := DetectModsDouble(rules, plugins)
	if err != nil {
		t.Fatalf("DetectModsDouble() error = %v", err)
	}
	if !found {
		t.Fatal("found = false")
	}
	joined := strings.Join(fragments, "")
	if strings.Count(joined, "Conflict warning text.") != 1 {
		t.Errorf("warning emitted %d times, want once", strings.Count(joined, "Conflict warning text."))
	}
	if !strings.Contains(joined, "[!] CAUTION : ") {
		t.Errorf("fragments = %q", joined)
	}
}

func TestDetectModsDouble_NeedsBothFragments(t *testing.T) {
	rules := modTable("mod alpha | mod beta", "Pair warning.")
	plugins := pluginTable(t, "Mod Alpha.esp", "30")

	_, found, err := DetectModsDouble(rules, plugins)
	if err != nil {
		t.Fatalf("DetectModsDouble() error = %v", err)
	}
	if found {
		t.Error("rule matched with only one of its two fragments")
	}
}

func TestDetectModsImportant(t *testing.T) {
	rules := modTable(
		"canarysavefilemonitor | Canary Save File Monitor", "This is a highly recommended mod.",
		"weapondebris | Weapon Debris Crash Fix", "Recommended for all Nvidia GPU owners.",
	)

	t.Run("installed", func(t *testing.T) {
		plugins := pluginTable(t, "CanarySaveFileMonitor.esl", "FE000")
		fragments := DetectModsImportant(rules, plugins, crashlog.GPUNvidia)
		joined := strings.Join(fragments, "")
		if !strings.Contains(joined, "✔️ Canary Save File Monitor is installed!") {
			t.Errorf("fragments = %q", joined)
		}
	})

	t.Run("missing and relevant", func(t *testing.T) {
		// An AMD GPU makes Nvidia the rival vendor.
		plugins := pluginTable(t, "Unrelated.esp", "01")
		fragments := DetectModsImportant(rules, plugins, crashlog.GPUNvidia)
		joined := strings.Join(fragments, "")
		if !strings.Contains(joined, "❌ Canary Save File Monitor is not installed!") {
			t.Errorf("fragments = %q", joined)
		}
		if strings.Contains(joined, "Weapon Debris") {
			t.Error("mod for the rival vendor's hardware reported as missing")
		}
	})

	t.Run("installed on rival hardware", func(t *testing.T) {
		plugins := pluginTable(t, "WeaponDebrisCrashFix.dll", "DLL")
		fragments := DetectModsImportant(rules, plugins, crashlog.GPUNvidia)
		joined := strings.Join(fragments, "")
		if !strings.Contains(joined, "❓ Weapon Debris Crash Fix is installed, BUT IT SEEMS YOU DON'T HAVE AN NVIDIA GPU?") {
			t.Errorf("fragments = %q", joined)
		}
	})
}
