package crashlog

import (
	"sort"
	"strings"
)

// Index tags for plugin table entries that carry no load-order slot.
const (
	// TagDLL marks native modules and script extender plugins.
	TagDLL = "DLL"

	// TagLoadOrderOverride marks entries sourced from an external load
	// order file rather than the crash log.
	TagLoadOrderOverride = "LO"

	// TagUnknown marks plugin-like entries whose slot could not be read.
	TagUnknown = "???"
)

// PluginEntry is one row of the plugin table: a plugin or module name and
// its index tag (a load-order slot like "07" or "FE001", or one of the
// Tag constants).
type PluginEntry struct {
	Name string
	Tag  string
}

// PluginTable is an insertion-ordered name-to-tag mapping. The first
// occurrence of a name wins; later duplicates are ignored. Storage is
// case-sensitive, matching against free text is case-insensitive.
type PluginTable struct {
	entries []PluginEntry
	index   map[string]int
}

// NewPluginTable returns an empty table.
func NewPluginTable() *PluginTable {
	return &PluginTable{index: make(map[string]int)}
}

// InsertIfAbsent adds a name with its tag unless the name is already
// present. Reports whether the entry was added.
func (t *PluginTable) InsertIfAbsent(name, tag string) bool {
	if _, ok := t.index[name]; ok {
		return false
	}
	t.index[name] = len(t.entries)
	t.entries = append(t.entries, PluginEntry{Name: name, Tag: tag})
	return true
}

// Remove deletes every entry whose name equals name case-insensitively.
func (t *PluginTable) Remove(name string) {
	lower := strings.ToLower(name)
	kept := t.entries[:0]
	for _, entry := range t.entries {
		if strings.ToLower(entry.Name) != lower {
			kept = append(kept, entry)
		}
	}
	t.entries = kept
	t.index = make(map[string]int, len(t.entries))
	for i, entry := range t.entries {
		t.index[entry.Name] = i
	}
}

// Tag returns the tag stored for an exact name.
func (t *PluginTable) Tag(name string) (string, bool) {
	i, ok := t.index[name]
	if !ok {
		return "", false
	}
	return t.entries[i].Tag, true
}

// Entries returns the table rows in insertion order. The returned slice
// must not be modified.
func (t *PluginTable) Entries() []PluginEntry {
	return t.entries
}

// Len returns the number of rows.
func (t *PluginTable) Len() int {
	return len(t.entries)
}

// LowerNames returns every stored name lowercased, in insertion order.
func (t *PluginTable) LowerNames() []string {
	names := make([]string, len(t.entries))
	for i, entry := range t.entries {
		names[i] = strings.ToLower(entry.Name)
	}
	return names
}

// PluginTableResult is the plugin table plus the pass-through facts the
// caller needs to gate downstream detectors.
type PluginTableResult struct {
	Table *PluginTable

	// Loaded reports whether the plugin list could be trusted: the game's
	// primary master file was present, or an external load order was
	// supplied. When false, mod checks downgrade to a no-plugins warning.
	Loaded bool

	// LimitReached reports whether the reserved [FF] slot marker appeared
	// in the plugin segment (load order slot exhaustion).
	LimitReached bool
}

// BuildPluginTable reconciles the plugin-listing formats of a crash log
// into one canonical table.
//
// When loadOrder is non-empty it fully replaces log-derived construction:
// every name is tagged with the override marker and the master-file
// presence check is skipped. Otherwise entries come from the plugin
// segment's bracket lines, the XSE module list and any Vulkan modules,
// first occurrence winning. Entries matching the ignore set are removed
// last.
func BuildPluginTable(segments *Segments, mainESM string, loadOrder []string, ignore []string) *PluginTableResult {
	result := &PluginTableResult{Table: NewPluginTable()}

	for _, line := range segments.Plugins {
		if strings.Contains(line, "[FF]") {
			result.LimitReached = true
			break
		}
	}

	if len(loadOrder) > 0 {
		result.Loaded = true
		for _, name := range loadOrder {
			name = strings.TrimSpace(name)
			if name != "" {
				result.Table.InsertIfAbsent(name, TagLoadOrderOverride)
			}
		}
		removeIgnored(result.Table, ignore)
		return result
	}

	if !containsLine(segments.Plugins, mainESM) {
		return result
	}
	result.Loaded = true

	for _, line := range segments.Plugins {
		entry := strings.TrimSpace(line)
		if entry == "" {
			continue
		}
		if index, name, ok := parsePluginLine(entry); ok {
			result.Table.InsertIfAbsent(name, index)
			continue
		}
		lower := strings.ToLower(entry)
		switch {
		case strings.Contains(lower, ".dll"):
			result.Table.InsertIfAbsent(entry, TagDLL)
		case hasPluginExtension(lower):
			result.Table.InsertIfAbsent(entry, TagUnknown)
		}
	}

	xseModules := segments.NormalizedXSEModules()
	names := make([]string, 0, len(xseModules))
	for name := range xseModules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		result.Table.InsertIfAbsent(name, TagDLL)
	}

	for _, line := range segments.AllModules {
		if !strings.Contains(strings.ToLower(line), "vulkan") {
			continue
		}
		name, _, _ := strings.Cut(strings.TrimSpace(line), " ")
		if name != "" {
			result.Table.InsertIfAbsent(name, TagDLL)
		}
	}

	removeIgnored(result.Table, ignore)
	return result
}

func removeIgnored(table *PluginTable, ignore []string) {
	for _, name := range ignore {
		table.Remove(name)
	}
}

func containsLine(lines []string, substring string) bool {
	if substring == "" {
		return false
	}
	for _, line := range lines {
		if strings.Contains(line, substring) {
			return true
		}
	}
	return false
}

// parsePluginLine reads a plugin segment line of the form
//
//	[XX] Name.esp       (two hex digits, standard slot)
//	[FE:XXX] Name.esl   (three hex digits, light slot)
//
// returning the canonical index tag (colon stripped) and the plugin
// name. The extension set is .esp/.esl/.esm, case-insensitive.
func parsePluginLine(line string) (index, name string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimLeft(line, " \t"), "[")
	if !found {
		return "", "", false
	}
	slot, rest, found := strings.Cut(rest, "]")
	if !found {
		return "", "", false
	}

	if light, isLight := strings.CutPrefix(slot, "FE:"); isLight {
		if !isHex(light, 3) {
			return "", "", false
		}
		index = "FE" + light
	} else {
		if !isHex(slot, 2) {
			return "", "", false
		}
		index = slot
	}

	name = strings.TrimSpace(rest)
	if name == "" || !hasPluginExtension(strings.ToLower(name)) {
		return "", "", false
	}
	return index, name, true
}

func hasPluginExtension(lower string) bool {
	return strings.HasSuffix(lower, ".esp") ||
		strings.HasSuffix(lower, ".esl") ||
		strings.HasSuffix(lower, ".esm")
}

func isHex(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
