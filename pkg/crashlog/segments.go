// Package crashlog provides reading, canonicalization and segmentation of
// crash generator log files, and the plugin table derived from them.
package crashlog

import (
	"strings"
)

// UnknownField is the placeholder for header fields absent from a log.
const UnknownField = "UNKNOWN"

// minimumLines is the shortest log that can plausibly contain the header
// and any segment. Shorter logs are reported as failed scans.
const minimumLines = 20

// Segments holds the six named regions of a crash log plus the header
// fields captured during the same pass.
type Segments struct {
	// Crashgen holds the crash generator settings region, starting below
	// the tab-indented [Compatibility] line.
	Crashgen []string

	// System holds the SYSTEM SPECS region.
	System []string

	// CallStack holds the PROBABLE CALL STACK region.
	CallStack []string

	// AllModules holds the MODULES region.
	AllModules []string

	// XSEModules holds the script extender plugin region.
	XSEModules []string

	// Plugins holds the PLUGINS region (to end of file).
	Plugins []string

	// CallStackIntact is every call stack line joined with no separator,
	// so that substrings may span the line join.
	CallStackIntact string

	// GameVersion, CrashgenVersion and MainError are the header fields,
	// each UnknownField when absent.
	GameVersion     string
	CrashgenVersion string
	MainError       string
}

// Incomplete reports whether the log yielded no usable regions at all.
func (s *Segments) Incomplete() bool {
	return len(s.Crashgen) == 0 && len(s.System) == 0 && len(s.CallStack) == 0 &&
		len(s.AllModules) == 0 && len(s.XSEModules) == 0 && len(s.Plugins) == 0
}

// FindSegments divides a crash log into its six regions in a single
// left-to-right pass, capturing the header fields along the way.
//
// Boundary markers must appear in order; a marker that never appears
// leaves its region (and any later region) empty, which is a valid
// degraded state rather than an error.
func FindSegments(lines []string, xseAcronym, crashgenName, gameRootName string) *Segments {
	// The end marker of each region doubles as the start marker of the
	// next, except for the final region which runs to end of file.
	markers := []string{
		"\t[Compatibility]",
		"SYSTEM SPECS:",
		"PROBABLE CALL STACK:",
		"MODULES:",
		strings.ToUpper(xseAcronym) + " PLUGINS:",
		"PLUGINS:",
	}

	raw := make([][]string, 0, len(markers))
	collecting := false
	segmentStart := 0
	boundary := 0

	var gameVersion, crashgenVersion, mainError string
	headerDone := func() bool {
		return gameVersion != "" && crashgenVersion != "" && mainError != ""
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		if !headerDone() {
			switch {
			case gameVersion == "" && gameRootName != "" && strings.HasPrefix(line, gameRootName):
				gameVersion = strings.TrimSpace(line)
			case crashgenVersion == "" && strings.HasPrefix(line, crashgenName):
				crashgenVersion = strings.TrimSpace(line)
			case mainError == "" && strings.HasPrefix(line, "Unhandled exception"):
				mainError = strings.Replace(line, "|", "\n", 1)
			}
		}

		if collecting {
			// boundary+1 is the end marker of the region being collected;
			// the last region has no end marker and runs to EOF.
			if boundary+1 < len(markers) && strings.HasPrefix(line, markers[boundary+1]) {
				raw = append(raw, lines[segmentStart:i])
				boundary++
				collecting = false
				// Re-examine this line: the end marker is also the next
				// region's start marker.
				i--
			}
		} else if boundary < len(markers) && strings.HasPrefix(line, markers[boundary]) {
			collecting = true
			segmentStart = i + 1
		}
	}
	if collecting {
		raw = append(raw, lines[segmentStart:])
	}
	for len(raw) < len(markers) {
		raw = append(raw, nil)
	}

	trimmed := make([][]string, len(raw))
	for i, segment := range raw {
		trimmed[i] = make([]string, len(segment))
		for j, line := range segment {
			trimmed[i][j] = strings.TrimSpace(line)
		}
	}

	s := &Segments{
		Crashgen:        trimmed[0],
		System:          trimmed[1],
		CallStack:       trimmed[2],
		AllModules:      trimmed[3],
		XSEModules:      trimmed[4],
		Plugins:         trimmed[5],
		CallStackIntact: strings.Join(trimmed[2], ""),
		GameVersion:     gameVersion,
		CrashgenVersion: crashgenVersion,
		MainError:       mainError,
	}
	if s.GameVersion == "" {
		s.GameVersion = UnknownField
	}
	if s.CrashgenVersion == "" {
		s.CrashgenVersion = UnknownField
	}
	if s.MainError == "" {
		s.MainError = UnknownField
	}
	return s
}

// TooShort reports whether a log is too truncated to scan.
func TooShort(lines []string) bool {
	return len(lines) < minimumLines
}

// NormalizedXSEModules returns the lowercase XSE module names with the
// trailing " vX.Y.Z" version suffix removed when present.
func (s *Segments) NormalizedXSEModules() map[string]bool {
	modules := make(map[string]bool, len(s.XSEModules))
	for _, module := range s.XSEModules {
		name := strings.ToLower(module)
		if strings.Contains(name, "dll v") {
			name, _, _ = strings.Cut(name, " v")
		}
		name = strings.TrimSpace(name)
		if name != "" {
			modules[name] = true
		}
	}
	return modules
}
