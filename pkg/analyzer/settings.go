package analyzer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

// CrashgenSettings holds the crash generator's own settings as reported
// in the [Compatibility] region, in document order.
type CrashgenSettings struct {
	keys   []string
	values map[string]any
}

// ParseCrashgenSettings reads "Name: value" lines from the settings
// segment. Values parse as bool or int where possible, string otherwise.
func ParseCrashgenSettings(segment []string) *CrashgenSettings {
	s := &CrashgenSettings{values: make(map[string]any)}
	for _, line := range segment {
		name, raw, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		raw = strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, exists := s.values[name]; !exists {
			s.keys = append(s.keys, name)
		}
		s.values[name] = parseSettingValue(raw)
	}
	return s
}

func parseSettingValue(raw string) any {
	switch strings.ToLower(raw) {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	return raw
}

// Len returns the number of parsed settings.
func (s *CrashgenSettings) Len() int { return len(s.keys) }

// Bool returns a boolean setting and whether it was present as a bool.
func (s *CrashgenSettings) Bool(name string) (value, ok bool) {
	v, exists := s.values[name]
	if !exists {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}

// CheckCrashgenSettings interprets the crash generator's settings
// against the installed XSE modules: settings disabled without reason,
// and the memory/compatibility parameters that conflict with the X-Cell
// and Baka ScrapHeap mods or the Looks Menu extender.
func CheckCrashgenSettings(settings *CrashgenSettings, xseModules map[string]bool, rs *ruleset.RuleSet) []string {
	var fragments []string
	crashgen := rs.Game.CrashgenName

	hasXCell := xseModules["x-cell-fo4.dll"]
	hasBakaScrapHeap := xseModules["bakascrapheap.dll"]

	ignore := make(map[string]bool, len(rs.CrashgenIgnore))
	for _, name := range rs.CrashgenIgnore {
		ignore[name] = true
	}
	if hasXCell {
		for _, name := range []string{"MemoryManager", "HavokMemorySystem", "ScaleformAllocator", "SmallBlockAllocator"} {
			ignore[name] = true
		}
	} else if hasBakaScrapHeap {
		ignore["MemoryManager"] = true
	}

	for _, name := range settings.keys {
		if value, isBool := settings.values[name].(bool); isBool && !value && !ignore[name] {
			fragments = append(fragments, fmt.Sprintf(
				"* NOTICE : %s is disabled in your %s settings, is this intentional? * \n-----\n", name, crashgen))
		}
	}

	if achievements, ok := settings.Bool("Achievements"); ok {
		if achievements && (xseModules["achievements.dll"] || xseModules["unlimitedsurvivalmode.dll"]) {
			fragments = append(fragments,
				"# ❌ CAUTION : The Achievements Mod and/or Unlimited Survival Mode is installed, but Achievements is set to TRUE # \n",
				fmt.Sprintf(" FIX: Open %s's TOML file and change Achievements to FALSE, this prevents conflicts with %s.\n-----\n", crashgen, crashgen))
		} else {
			fragments = append(fragments,
				fmt.Sprintf("✔️ Achievements parameter is correctly configured in your %s settings! \n-----\n", crashgen))
		}
	}

	fragments = append(fragments, checkMemoryManager(settings, crashgen, hasXCell, hasBakaScrapHeap)...)

	if hasXCell {
		for _, name := range []string{"HavokMemorySystem", "BSTextureStreamerLocalHeap", "ScaleformAllocator", "SmallBlockAllocator"} {
			if value, ok := settings.Bool(name); ok {
				if value {
					fragments = append(fragments,
						fmt.Sprintf("# ❌ CAUTION : X-Cell is installed, but %s parameter is set to TRUE # \n", name),
						fmt.Sprintf(" FIX: Open %s's TOML file and change %s to FALSE, this prevents conflicts with X-Cell.\n-----\n", crashgen, name))
				} else {
					fragments = append(fragments,
						fmt.Sprintf("✔️ %s parameter is correctly configured for use with X-Cell in your %s settings! \n-----\n", name, crashgen))
				}
			}
		}
	}

	if f4ee, ok := settings.Bool("F4EE"); ok {
		if !f4ee && xseModules["f4ee.dll"] {
			fragments = append(fragments,
				"# ❌ CAUTION : Looks Menu is installed, but F4EE parameter under [Compatibility] is set to FALSE # \n",
				fmt.Sprintf(" FIX: Open %s's TOML file and change F4EE to TRUE, this prevents bugs and crashes from Looks Menu.\n-----\n", crashgen))
		} else {
			fragments = append(fragments,
				fmt.Sprintf("✔️ F4EE (Looks Menu) parameter is correctly configured in your %s settings! \n-----\n", crashgen))
		}
	}

	return fragments
}

func checkMemoryManager(settings *CrashgenSettings, crashgen string, hasXCell, hasBakaScrapHeap bool) []string {
	value, ok := settings.Bool("MemoryManager")
	if !ok {
		return nil
	}

	bakaRedundantWithXCell := []string{
		"# ❌ CAUTION : The Baka ScrapHeap Mod is installed, but is redundant with X-Cell # \n",
		" FIX: Uninstall the Baka ScrapHeap Mod, this prevents conflicts with X-Cell.\n-----\n",
	}

	var fragments []string
	switch {
	case value && hasXCell:
		fragments = append(fragments,
			"# ❌ CAUTION : X-Cell is installed, but MemoryManager parameter is set to TRUE # \n",
			fmt.Sprintf(" FIX: Open %s's TOML file and change MemoryManager to FALSE, this prevents conflicts with X-Cell.\n-----\n", crashgen))
		if hasBakaScrapHeap {
			fragments = append(fragments, bakaRedundantWithXCell...)
		}
	case value && hasBakaScrapHeap:
		fragments = append(fragments,
			fmt.Sprintf("# ❌ CAUTION : The Baka ScrapHeap Mod is installed, but is redundant with %s # \n", crashgen),
			fmt.Sprintf(" FIX: Uninstall the Baka ScrapHeap Mod, this prevents conflicts with %s.\n-----\n", crashgen))
	case value:
		fragments = append(fragments,
			fmt.Sprintf("✔️ Memory Manager parameter is correctly configured in your %s settings! \n-----\n", crashgen))
	case hasXCell && hasBakaScrapHeap:
		fragments = append(fragments, bakaRedundantWithXCell...)
	case hasXCell:
		fragments = append(fragments,
			fmt.Sprintf("✔️ Memory Manager parameter is correctly configured for use with X-Cell in your %s settings! \n-----\n", crashgen))
	case hasBakaScrapHeap:
		fragments = append(fragments,
			fmt.Sprintf("# ❌ CAUTION : The Baka ScrapHeap Mod is installed, but is redundant with %s # \n", crashgen),
			fmt.Sprintf(" FIX: Uninstall the Baka ScrapHeap Mod and open %s's TOML file and change MemoryManager to TRUE, this improves performance.\n-----\n", crashgen))
	}
	return fragments
}
