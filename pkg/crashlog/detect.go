package crashlog

import (
	"sort"
	"strings"
)

// LogFormat describes one known crash generator output format.
type LogFormat struct {
	// Name is the crash generator's human-readable name.
	Name string

	// HeaderPrefix starts the first line of a log from this generator.
	HeaderPrefix string

	// Markers are the section markers this format is expected to emit.
	Markers []string
}

// knownFormats lists the crash generator formats the segmenter
// understands, most specific first.
func knownFormats() []*LogFormat {
	return []*LogFormat{
		{
			Name:         "Buffout 4 NG",
			HeaderPrefix: "Buffout 4 v1.3",
			Markers:      defaultMarkers("F4SE"),
		},
		{
			Name:         "Buffout 4",
			HeaderPrefix: "Buffout 4 v",
			Markers:      defaultMarkers("F4SE"),
		},
		{
			Name:         "Crash Logger SSE",
			HeaderPrefix: "CrashLoggerSSE",
			Markers:      defaultMarkers("SKSE"),
		},
	}
}

func defaultMarkers(xse string) []string {
	return []string{
		"\t[Compatibility]",
		"SYSTEM SPECS:",
		"PROBABLE CALL STACK:",
		"MODULES:",
		xse + " PLUGINS:",
		"PLUGINS:",
	}
}

// FormatMatch is one candidate format with its evidence.
type FormatMatch struct {
	Format *LogFormat

	// Confidence is the fraction of the format's markers found, weighted
	// up when the header prefix matched. 0.0 to 1.0.
	Confidence float64

	// MarkersFound counts section markers present in the sample.
	MarkersFound int

	// HeaderMatched reports whether the first line carried the format's
	// header prefix.
	HeaderMatched bool
}

// DetectionResult holds the outcome of probing a log's format.
type DetectionResult struct {
	// Matches are candidate formats sorted by confidence descending.
	Matches []FormatMatch

	// SampledLines is the number of lines examined.
	SampledLines int
}

// Best returns the highest-confidence match, or nil when nothing matched.
func (r *DetectionResult) Best() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// DetectFormat probes a log's lines against the known crash generator
// formats. Used by the detect command and by pre-scan validation of
// misnamed or foreign log files; scanning itself never requires a
// positive detection.
func DetectFormat(lines []string) *DetectionResult {
	result := &DetectionResult{SampledLines: len(lines)}

	for _, format := range knownFormats() {
		match := FormatMatch{Format: format}
		if len(lines) > 0 && strings.HasPrefix(lines[0], format.HeaderPrefix) {
			match.HeaderMatched = true
		}
		for _, marker := range format.Markers {
			if hasLineWithPrefix(lines, marker) {
				match.MarkersFound++
			}
		}

		// Header match carries the same weight as one marker.
		total := float64(len(format.Markers) + 1)
		score := float64(match.MarkersFound)
		if match.HeaderMatched {
			score++
		}
		match.Confidence = score / total

		if match.MarkersFound > 0 || match.HeaderMatched {
			result.Matches = append(result.Matches, match)
		}
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})
	return result
}

func hasLineWithPrefix(lines []string, prefix string) bool {
	for _, line := range lines {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
