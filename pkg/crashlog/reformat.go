package crashlog

import "strings"

// Reformat canonicalizes a crash log's plugin list so that old and new
// crash generator formats match: spaces inside load-order [brackets] are
// replaced with zeros ("[FE:  1]" becomes "[FE:001]"). When simplify is
// true, lines containing any excluded record substring are dropped.
//
// Only the PLUGINS region, found by scanning bottom-up, is rewritten.
// The operation is idempotent.
func Reformat(lines []string, excludeRecords []string, simplify bool) []string {
	out := make([]string, 0, len(lines))

	// Index of the PLUGINS: marker, or -1 when absent.
	pluginsStart := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "PLUGINS:") {
			pluginsStart = i
			break
		}
	}

	for i, line := range lines {
		if simplify && containsAny(line, excludeRecords) {
			continue
		}
		if pluginsStart >= 0 && i > pluginsStart && strings.Contains(line, "[") {
			line = zeroPadBracket(line)
		}
		out = append(out, line)
	}
	return out
}

// zeroPadBracket replaces spaces inside the first [bracket] of a line
// with zeros, leaving the rest of the line untouched.
func zeroPadBracket(line string) string {
	indent, rest, found := strings.Cut(line, "[")
	if !found {
		return line
	}
	index, name, found := strings.Cut(rest, "]")
	if !found {
		return line
	}
	return indent + "[" + strings.ReplaceAll(index, " ", "0") + "]" + name
}

func containsAny(line string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(line, needle) {
			return true
		}
	}
	return false
}
