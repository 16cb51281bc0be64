// Package ruleset provides loading and validation of the crash signature
// and mod compatibility rule databases.
package ruleset

import (
	version "github.com/hashicorp/go-version"
)

// GameInfo carries per-game constants used throughout a scan.
type GameInfo struct {
	// Name is the short game identifier (e.g. "Fallout4").
	Name string `yaml:"name"`

	// RootName is the localized game root name that prefixes the game
	// version line in a crash log (e.g. "Fallout 4").
	RootName string `yaml:"root_name"`

	// XSEAcronym is the script extender acronym (e.g. "F4SE").
	XSEAcronym string `yaml:"xse_acronym"`

	// CrashgenName is the crash generator's log name (e.g. "Buffout 4").
	CrashgenName string `yaml:"crashgen_name"`

	// CrashgenLatest is the latest released crash generator version string
	// for the flat game (e.g. "Buffout 4 v1.28.6").
	CrashgenLatest string `yaml:"crashgen_latest"`

	// CrashgenLatestVR is the latest version string for the VR build.
	CrashgenLatestVR string `yaml:"crashgen_latest_vr"`

	// MainESM is the primary master file whose presence in the plugin
	// segment marks the plugin list as loaded (e.g. "Fallout4.esm").
	MainESM string `yaml:"main_esm"`

	// Version and VersionNew are the known game executable versions,
	// used for plugin-limit warnings.
	Version    string `yaml:"version"`
	VersionNew string `yaml:"version_new"`
}

// Warnings holds pre-rendered warning texts referenced by detectors.
type Warnings struct {
	// NoPlugins is appended in place of mod checks when the plugin list
	// could not be loaded from the crash log.
	NoPlugins string `yaml:"no_plugins"`

	// Outdated is appended when the detected crash generator version is
	// older than the latest release.
	Outdated string `yaml:"outdated"`
}

// ErrorRule matches a literal substring against the main error line.
type ErrorRule struct {
	Severity string
	Name     string
	Signal   string
}

// StackRule matches a list of signals against the main error and the
// joined call stack.
type StackRule struct {
	Severity string
	Name     string
	Signals  []Signal
}

// RuleSet is the immutable, process-loaded rule database. It is loaded
// once per game and shared read-only across all scans in a batch.
type RuleSet struct {
	Game     GameInfo
	Warnings Warnings

	// CrashgenIgnore lists crash generator settings that are exempt from
	// the disabled-setting notice.
	CrashgenIgnore []string

	// IgnorePlugins lists plugin name fragments excluded from the
	// call-stack plugin suspect count.
	IgnorePlugins []string

	// IgnoreRecords lists record name fragments excluded from the named
	// record list.
	IgnoreRecords []string

	// IgnoreList is the user-maintained plugin ignore list; matching
	// entries are removed from the plugin table before mod checks.
	IgnoreList []string

	// CatchRecords lists substrings that identify named-record lines in
	// the call stack.
	CatchRecords []string

	// ExcludeLogRecords lists substrings whose lines are dropped when
	// log simplification is enabled.
	ExcludeLogRecords []string

	// ErrorSuspects and StackSuspects are evaluated in database order.
	ErrorSuspects []ErrorRule
	StackSuspects []StackRule

	// Mod rule tables, keyed as described by the signal grammar: a single
	// name fragment, "a | b" fragment pairs, or "fragment | display name"
	// for the important-mod table.
	ModsFreq      *Table
	ModsConf      *Table
	ModsSolu      *Table
	ModsOPC       *Table
	ModsCore      *Table
	ModsCoreFolon *Table

	crashgenLatest   *version.Version
	crashgenLatestVR *version.Version
}

// CrashgenLatestVersions returns the parsed latest crash generator
// versions (flat, VR). Either may be nil when the ruleset omits it.
func (r *RuleSet) CrashgenLatestVersions() (*version.Version, *version.Version) {
	return r.crashgenLatest, r.crashgenLatestVR
}
