package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/crashlog"
)

// FormIDSource resolves a (formID, plugin) pair to a record description.
// Implemented by the formid package's database; nil disables lookups.
type FormIDSource interface {
	Lookup(formID, plugin string) (string, bool)
}

// CheckFormIDSuspects extracts Form ID references from the call stack
// and correlates each with the plugin owning its load-order byte.
// Dynamic (FF-prefixed) Form IDs are skipped since they never resolve to
// a plugin record. When showValues is set and a source is available,
// resolved record descriptions are included.
func CheckFormIDSuspects(callStack []string, table *crashlog.PluginTable, showValues bool, source FormIDSource) []string {
	var matches []string
	for _, line := range callStack {
		if strings.Contains(line, "0xFF") || !strings.Contains(strings.ToLower(line), "id:") {
			continue
		}
		matches = append(matches, strings.TrimSpace(strings.ReplaceAll(line, "0x", "")))
	}
	if len(matches) == 0 {
		return nil
	}
	sort.Strings(matches)

	var fragments []string
	for i := 0; i < len(matches); {
		j := i
		for j < len(matches) && matches[j] == matches[i] {
			j++
		}
		full, count := matches[i], j-i
		i = j

		_, value, ok := strings.Cut(full, ": ")
		if !ok || len(value) < 2 {
			continue
		}
		prefix, suffix := value[:2], value[2:]

		for _, entry := range table.Entries() {
			if entry.Tag != prefix {
				continue
			}
			if showValues && source != nil {
				if description, found := source.Lookup(suffix, entry.Name); found {
					fragments = append(fragments, fmt.Sprintf("- %s | [%s] | %s | %d\n", full, entry.Name, description, count))
					continue
				}
			}
			fragments = append(fragments, fmt.Sprintf("- %s | [%s] | %d\n", full, entry.Name, count))
			break
		}
	}
	return fragments
}
