package crashlog

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Read loads a crash log file and returns its lines. Crash generators on
// Windows emit UTF-8 or UTF-16 with a byte order mark depending on
// version, so the encoding is sniffed from the leading bytes; byte
// sequences that survive as invalid UTF-8 are replaced, never fatal.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided log paths are expected
	if err != nil {
		return nil, fmt.Errorf("reading crash log: %w", err)
	}
	decoded, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, fmt.Errorf("decoding crash log %s: %w", path, err)
	}
	return SplitLines(string(decoded)), nil
}

// SplitLines splits log text on newlines, tolerating CRLF endings. A
// trailing newline does not produce a final empty line.
func SplitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
