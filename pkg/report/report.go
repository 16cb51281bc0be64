// Package report assembles, sanitizes and writes AUTOSCAN reports.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// divider separates the major report sections.
const divider = "====================================================\n"

// Report accumulates output fragments in scan order. Fragments are
// appended exactly as produced by the analyzers and joined verbatim, so
// every fragment carries its own trailing whitespace.
type Report struct {
	fragments []string
}

// New creates an empty report.
func New() *Report {
	return &Report{}
}

// Append adds fragments to the end of the report.
func (r *Report) Append(fragments ...string) {
	r.fragments = append(r.fragments, fragments...)
}

// Banner appends a boxed section title.
func (r *Report) Banner(title string) {
	r.fragments = append(r.fragments, divider, title+"\n", divider)
}

// Len returns the number of accumulated fragments.
func (r *Report) Len() int {
	return len(r.fragments)
}

// Fragments returns the accumulated fragments. The returned slice must
// not be modified.
func (r *Report) Fragments() []string {
	return r.fragments
}

// String joins all fragments into the final report text.
func (r *Report) String() string {
	return strings.Join(r.fragments, "")
}

// Redact replaces the user's home directory path with "******" in lines
// that mention the user name. Both path separator spellings are handled,
// since crash logs mix Windows and forward-slash paths.
func Redact(lines []string, home string) []string {
	trimmed := strings.TrimRight(home, `/\`)
	idx := strings.LastIndexAny(trimmed, `/\`)
	if idx < 0 || idx == len(trimmed)-1 {
		return lines
	}
	parent, userName := trimmed[:idx], trimmed[idx+1:]
	pathBackslash := parent + `\` + userName
	pathSlash := parent + "/" + userName

	redacted := make([]string, len(lines))
	for i, line := range lines {
		if strings.Contains(line, userName) {
			line = strings.ReplaceAll(line, pathBackslash, "******")
			line = strings.ReplaceAll(line, pathSlash, "******")
		}
		redacted[i] = line
	}
	return redacted
}

// AutoscanPath returns the report path for a crash log: the log's stem
// with an "-AUTOSCAN.md" suffix, beside the log file.
func AutoscanPath(logPath string) string {
	stem := strings.TrimSuffix(filepath.Base(logPath), filepath.Ext(logPath))
	return filepath.Join(filepath.Dir(logPath), stem+"-AUTOSCAN.md")
}

// Write redacts and writes the report beside its crash log, returning
// the report path.
func (r *Report) Write(logPath, home string) (string, error) {
	path := AutoscanPath(logPath)
	content := strings.Join(Redact(r.fragments, home), "")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}

// Header appends the standard report preamble for a crash log.
func (r *Report) Header(logName, toolVersion string) {
	r.Append(
		fmt.Sprintf("%s -> AUTOSCAN REPORT GENERATED BY %s \n", logName, toolVersion),
		"# FOR BEST VIEWING EXPERIENCE OPEN THIS FILE IN NOTEPAD++ OR SIMILAR # \n",
		"# PLEASE READ EVERYTHING CAREFULLY AND BEWARE OF FALSE POSITIVES # \n",
		divider,
	)
}
