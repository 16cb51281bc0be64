package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/crashlog"
)

// CountPluginSuspects counts how many call stack lines mention each
// plugin from the table, skipping "modified by:" annotation lines and
// plugins on the ignore list. Plugins are reported in first-hit order.
func CountPluginSuspects(callStack []string, table *crashlog.PluginTable, ignore []string) []string {
	lowerIgnore := lowerAll(ignore)

	counts := make(map[string]int)
	var order []string

	for _, line := range callStack {
		lowerLine := strings.ToLower(line)
		if strings.Contains(lowerLine, "modified by:") {
			continue
		}
		for _, plugin := range table.LowerNames() {
			if !strings.Contains(lowerLine, plugin) {
				continue
			}
			if containsAnySubstring(plugin, lowerIgnore) {
				continue
			}
			if counts[plugin] == 0 {
				order = append(order, plugin)
			}
			counts[plugin]++
		}
	}

	fragments := make([]string, 0, len(order))
	for _, plugin := range order {
		fragments = append(fragments, fmt.Sprintf("- %s | %d\n", plugin, counts[plugin]))
	}
	return fragments
}

// CountRecordSuspects extracts named-record lines from the call stack:
// lines mentioning any catch-list substring and no ignore-list
// substring. Register dump lines ("[RSP+...]") are trimmed to their
// value column. Records are reported sorted with occurrence counts.
func CountRecordSuspects(callStack []string, catchRecords, ignoreRecords []string) []string {
	lowerCatch := lowerAll(catchRecords)
	lowerIgnore := lowerAll(ignoreRecords)

	var matches []string
	for _, line := range callStack {
		lowerLine := strings.ToLower(line)
		if !containsAnySubstring(lowerLine, lowerCatch) {
			continue
		}
		if containsAnySubstring(lowerLine, lowerIgnore) {
			continue
		}
		record := line
		if strings.Contains(line, "[RSP+") && len(line) > 30 {
			record = line[30:]
		}
		matches = append(matches, strings.TrimSpace(record))
	}

	sort.Strings(matches)

	var fragments []string
	for i := 0; i < len(matches); {
		j := i
		for j < len(matches) && matches[j] == matches[i] {
			j++
		}
		fragments = append(fragments, fmt.Sprintf("- %s | %d\n", matches[i], j-i))
		i = j
	}
	return fragments
}

func lowerAll(values []string) []string {
	lowered := make([]string, len(values))
	for i, value := range values {
		lowered[i] = strings.ToLower(value)
	}
	return lowered
}

func containsAnySubstring(s string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
