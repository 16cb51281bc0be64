package analyzer

import (
	"fmt"
	"strings"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/crashlog"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

// DetectModsSingle scans a one-key rule table against the plugin table.
// The first plugin matching a rule's name fragment triggers that rule's
// warning; remaining plugins are skipped for that rule. A matched rule
// with no warning text is a broken database and fails loudly.
func DetectModsSingle(rules *ruleset.Table, table *crashlog.PluginTable) (fragments []string, found bool, err error) {
	entries := table.Entries()
	for _, key := range rules.Keys() {
		fragment := strings.ToLower(key)
		for _, entry := range entries {
			if !strings.Contains(strings.ToLower(entry.Name), fragment) {
				continue
			}
			warn := rules.Get(key)
			if warn == "" {
				return nil, false, fmt.Errorf("mod rule %q has no warning in the database", key)
			}
			fragments = append(fragments, fmt.Sprintf("[!] FOUND : [%s] ", entry.Tag), warn)
			found = true
			break
		}
	}
	return fragments, found, nil
}

// DetectModsDouble scans a paired-key rule table ("mod_a | mod_b"). A
// rule matches when each fragment independently matches at least one
// plugin name, not necessarily the same plugin.
func DetectModsDouble(rules *ruleset.Table, table *crashlog.PluginTable) (fragments []string, found bool, err error) {
	names := table.LowerNames()
	for _, key := range rules.Keys() {
		first, second, ok := strings.Cut(strings.ToLower(key), " | ")
		if !ok {
			continue
		}
		firstFound, secondFound := false, false
		for _, name := range names {
			if !firstFound && strings.Contains(name, first) {
				firstFound = true
				continue
			}
			if !secondFound && strings.Contains(name, second) {
				secondFound = true
			}
		}
		if !firstFound || !secondFound {
			continue
		}
		warn := rules.Get(key)
		if warn == "" {
			return nil, false, fmt.Errorf("mod rule %q has no warning in the database", key)
		}
		fragments = append(fragments, "[!] CAUTION : ", warn)
		found = true
	}
	return fragments, found, nil
}

// DetectModsImportant checks a core-mod table ("fragment | display name")
// for presence, with GPU-vendor cross-checks: a rule whose warning names
// the rival vendor describes a mod for hardware the user does not have.
// rival is the vendor opposing the installed GPU.
func DetectModsImportant(rules *ruleset.Table, table *crashlog.PluginTable, rival crashlog.GPUVendor) []string {
	var fragments []string
	names := table.LowerNames()

	for _, key := range rules.Keys() {
		fragment, display, ok := strings.Cut(key, " | ")
		if !ok {
			continue
		}
		warn := rules.Get(key)
		lowerWarn := strings.ToLower(warn)
		lowerFragment := strings.ToLower(fragment)

		installed := false
		for _, name := range names {
			if strings.Contains(name, lowerFragment) {
				installed = true
				break
			}
		}

		switch {
		case installed && rival != "" && strings.Contains(lowerWarn, string(rival)):
			fragments = append(fragments,
				fmt.Sprintf("❓ %s is installed, BUT IT SEEMS YOU DON'T HAVE AN %s GPU?\n", display, strings.ToUpper(string(rival))),
				"IF THIS IS CORRECT, COMPLETELY UNINSTALL THIS MOD TO AVOID ANY PROBLEMS! \n\n")
		case installed:
			fragments = append(fragments, fmt.Sprintf("✔️ %s is installed!\n\n", display))
		case rival != "" && warn != "" && !strings.Contains(lowerWarn, string(rival)):
			fragments = append(fragments, fmt.Sprintf("❌ %s is not installed!\n", display), warn, "\n")
		}
	}
	return fragments
}
