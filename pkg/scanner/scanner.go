// Package scanner orchestrates the crash log scan pipeline: reading,
// segmentation, suspect detection, mod checks and report assembly.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/analyzer"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/crashlog"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/report"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

// Options configures a scan run.
type Options struct {
	// ShowFormIDValues enables record description lookups through the
	// Form ID databases.
	ShowFormIDValues bool

	// SimplifyLogs drops excluded record lines during the reformat pass.
	SimplifyLogs bool

	// MoveUnsolved copies failed logs and their reports to BackupDir.
	MoveUnsolved bool

	// FCXMode reflects whether external game file checks run; it only
	// changes the notices and settings interpretation here.
	FCXMode bool

	// LoadOrderPath points at a loadorder.txt that overrides the plugin
	// segment when present. Empty disables the override.
	LoadOrderPath string

	// BackupDir receives unsolved logs. Defaults to "Backup/Unsolved Logs".
	BackupDir string

	// Workers bounds batch concurrency. Zero means one worker per CPU.
	Workers int

	// HomeDir is redacted from reports. Defaults to the user's home.
	HomeDir string

	// ToolVersion appears in the report header.
	ToolVersion string
}

// Scanner runs crash log scans against a loaded rule database. It is
// safe for concurrent use; the rule database is read-only.
type Scanner struct {
	rules     *ruleset.RuleSet
	formIDs   analyzer.FormIDSource
	log       *zap.Logger
	opts      Options
	loadOrder []string
	home      string
}

// New creates a Scanner. formIDs may be nil to disable description
// lookups. When opts.LoadOrderPath is set the file is read once here;
// its first line is a header and is skipped.
func New(rules *ruleset.RuleSet, formIDs analyzer.FormIDSource, logger *zap.Logger, opts Options) (*Scanner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BackupDir == "" {
		opts.BackupDir = filepath.Join("Backup", "Unsolved Logs")
	}

	home := opts.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}

	s := &Scanner{
		rules:   rules,
		formIDs: formIDs,
		log:     logger,
		opts:    opts,
		home:    home,
	}

	if opts.LoadOrderPath != "" {
		lines, err := crashlog.Read(opts.LoadOrderPath)
		if err != nil {
			return nil, fmt.Errorf("reading load order override: %w", err)
		}
		if len(lines) > 1 {
			s.loadOrder = lines[1:]
		}
		s.log.Info("using load order override",
			zap.String("path", opts.LoadOrderPath),
			zap.Int("plugins", len(s.loadOrder)))
	}

	return s, nil
}

// Result is the outcome of scanning one crash log.
type Result struct {
	// LogPath is the scanned file.
	LogPath string

	// Report is the assembled AUTOSCAN report, complete in any outcome.
	Report *report.Report

	// Failed marks logs too truncated or unreadable to scan.
	Failed bool

	// PluginsLoaded reports whether a trustworthy plugin list was found.
	PluginsLoaded bool
}

// ScanFile scans a single crash log and assembles its report. Truncated
// or unreadable logs produce a Result with Failed set, not an error;
// errors are reserved for broken rule databases.
func (s *Scanner) ScanFile(path string) (*Result, error) {
	result := &Result{LogPath: path, Report: report.New()}
	rep := result.Report
	rep.Header(filepath.Base(path), s.opts.ToolVersion)

	lines, err := crashlog.Read(path)
	if err != nil {
		s.log.Warn("crash log unreadable", zap.String("path", path), zap.Error(err))
		result.Failed = true
		return result, nil
	}
	lines = crashlog.Reformat(lines, s.rules.ExcludeLogRecords, s.opts.SimplifyLogs)

	if crashlog.TooShort(lines) {
		s.log.Debug("crash log too short", zap.String("path", path), zap.Int("lines", len(lines)))
		result.Failed = true
		return result, nil
	}

	segments := crashlog.FindSegments(lines, s.rules.Game.XSEAcronym, s.rules.Game.CrashgenName, s.rules.Game.RootName)

	rep.Append(
		fmt.Sprintf("\nMain Error: %s\n", segments.MainError),
		fmt.Sprintf("Detected %s Version: %s \n", s.rules.Game.CrashgenName, segments.CrashgenVersion),
	)
	rep.Append(analyzer.CheckVersion(segments.CrashgenVersion, s.rules)...)

	plugins := crashlog.BuildPluginTable(segments, s.rules.Game.MainESM, s.loadOrder, s.rules.IgnoreList)
	result.PluginsLoaded = plugins.Loaded

	s.appendSuspects(rep, segments)
	s.appendModeNotices(rep)
	if !s.opts.FCXMode {
		settings := analyzer.ParseCrashgenSettings(segments.Crashgen)
		rep.Append(analyzer.CheckCrashgenSettings(settings, segments.NormalizedXSEModules(), s.rules)...)
	}
	s.appendPluginLimit(rep, segments, plugins)
	if err := s.appendModChecks(rep, segments, plugins); err != nil {
		return nil, err
	}
	s.appendCrashDetails(rep, segments, plugins)

	s.log.Debug("crash log scanned",
		zap.String("path", path),
		zap.Bool("plugins_loaded", plugins.Loaded))
	return result, nil
}

// appendSuspects runs the error and stack suspect engines.
func (s *Scanner) appendSuspects(rep *report.Report, segments *crashlog.Segments) {
	rep.Banner("CHECKING IF LOG MATCHES ANY KNOWN CRASH SUSPECTS...")
	rep.Append(analyzer.CheckMainErrorDLL(segments.MainError)...)

	errorFragments, errorFound := analyzer.CheckErrorSuspects(s.rules.ErrorSuspects, segments.MainError)
	stackFragments, stackFound := analyzer.CheckStackSuspects(s.rules.StackSuspects, segments.MainError, segments.CallStackIntact)
	rep.Append(errorFragments...)
	rep.Append(stackFragments...)

	if errorFound || stackFound {
		rep.Append(
			"* FOR DETAILED DESCRIPTIONS AND POSSIBLE SOLUTIONS TO ANY ABOVE DETECTED CRASH SUSPECTS *\n",
			"* SEE: https://docs.google.com/document/d/17FzeIMJ256xE85XdjoPvv_Zi3C5uHeSTQh6wOZugs4c *\n\n",
		)
	} else {
		rep.Append(
			"# FOUND NO CRASH ERRORS / SUSPECTS THAT MATCH THE CURRENT DATABASE #\n",
			"Check below for mods that can cause frequent crashes and other problems.\n\n",
		)
	}
}

func (s *Scanner) appendModeNotices(rep *report.Report) {
	if s.opts.FCXMode {
		rep.Append(
			"* NOTICE: FCX MODE IS ENABLED. THE SCANNER MUST BE RUN BY THE ORIGINAL USER FOR CORRECT DETECTION * \n",
			"[ To disable mod & game files detection, disable FCX Mode in the scanner settings. ] \n\n",
		)
		return
	}
	rep.Append(
		"* NOTICE: FCX MODE IS DISABLED. YOU CAN ENABLE IT TO DETECT PROBLEMS IN YOUR MOD & GAME FILES * \n",
		"[ FCX Mode can be enabled in the scanner settings. ] \n\n",
		"❌ FCX Mode is disabled, skipping game files check... \n-----\n",
	)
}

// appendPluginLimit reports load order slot exhaustion. The next-gen
// game update raised the limit, so the warning only applies when the
// detected game version predates it.
func (s *Scanner) appendPluginLimit(rep *report.Report, segments *crashlog.Segments, plugins *crashlog.PluginTableResult) {
	if !plugins.LimitReached {
		return
	}
	detected := ruleset.ParseCrashgenVersion(segments.GameVersion)
	newGen := ruleset.ParseCrashgenVersion(s.rules.Game.VersionNew)
	if s.rules.Game.VersionNew != "" && detected.GreaterThanOrEqual(newGen) {
		return
	}
	rep.Append(
		"# 💀 CAUTION : THE '[FF]' PLUGIN PREFIX MEANS YOU REACHED THE PLUGIN LIMIT OF 254 PLUGINS # \n",
		" Disable some of your plugins so the game stops crashing from exceeding the load order limit. \n-----\n",
	)
}

// appendModChecks runs the four mod rule tables plus the important-mods
// table, each under its own banner, downgrading to the no-plugins
// warning when the plugin list could not be trusted.
func (s *Scanner) appendModChecks(rep *report.Report, segments *crashlog.Segments, plugins *crashlog.PluginTableResult) error {
	rival := crashlog.DetectGPU(segments.System).Rival()
	table := plugins.Table
	loaded := plugins.Loaded

	rep.Banner("CHECKING FOR MODS THAT CAN CAUSE FREQUENT CRASHES...")
	if loaded {
		fragments, found, err := analyzer.DetectModsSingle(s.rules.ModsFreq, table)
		if err != nil {
			return err
		}
		rep.Append(fragments...)
		if found {
			rep.Append(
				"# [!] CAUTION : ANY ABOVE DETECTED MODS HAVE A MUCH HIGHER CHANCE TO CRASH YOUR GAME! #\n",
				"* YOU CAN DISABLE ANY / ALL OF THEM TEMPORARILY TO CONFIRM THEY CAUSED THIS CRASH. * \n\n",
			)
		} else {
			rep.Append(
				"# FOUND NO PROBLEMATIC MODS THAT MATCH THE CURRENT DATABASE FOR THIS CRASH LOG #\n",
				"THAT DOESN'T MEAN THERE AREN'T ANY! YOU SHOULD RUN PLUGIN CHECKER IN WRYE BASH \n",
				"Plugin Checker Instructions: https://www.nexusmods.com/fallout4/articles/4141 \n\n",
			)
		}
	} else {
		rep.Append(s.rules.Warnings.NoPlugins)
	}

	rep.Banner("CHECKING FOR MODS THAT CONFLICT WITH OTHER MODS...")
	if loaded {
		fragments, found, err := analyzer.DetectModsDouble(s.rules.ModsConf, table)
		if err != nil {
			return err
		}
		rep.Append(fragments...)
		if found {
			rep.Append(
				"# [!] CAUTION : FOUND MODS THAT ARE INCOMPATIBLE OR CONFLICT WITH YOUR OTHER MODS # \n",
				"* YOU SHOULD CHOOSE WHICH MOD TO KEEP AND DISABLE OR COMPLETELY REMOVE THE OTHER MOD * \n\n",
			)
		} else {
			rep.Append("# FOUND NO MODS THAT ARE INCOMPATIBLE OR CONFLICT WITH YOUR OTHER MODS # \n\n")
		}
	} else {
		rep.Append(s.rules.Warnings.NoPlugins)
	}

	rep.Banner("CHECKING FOR MODS WITH SOLUTIONS & COMMUNITY PATCHES")
	if loaded {
		fragments, found, err := analyzer.DetectModsSingle(s.rules.ModsSolu, table)
		if err != nil {
			return err
		}
		rep.Append(fragments...)
		if found {
			rep.Append(
				"# [!] CAUTION : FOUND PROBLEMATIC MODS WITH SOLUTIONS AND COMMUNITY PATCHES # \n",
				"[Due to limitations, the scanner will show warnings for some mods even if fixes or patches are already installed.] \n",
				"[To hide these warnings, you can add their plugin names to the ignore list. ONE PLUGIN PER LINE.] \n\n",
			)
		} else {
			rep.Append("# FOUND NO PROBLEMATIC MODS WITH AVAILABLE SOLUTIONS AND COMMUNITY PATCHES # \n\n")
		}
	} else {
		rep.Append(s.rules.Warnings.NoPlugins)
	}

	if s.rules.ModsOPC.Len() > 0 {
		rep.Banner("CHECKING FOR MODS PATCHED THROUGH OPC INSTALLER...")
		if loaded {
			fragments, found, err := analyzer.DetectModsSingle(s.rules.ModsOPC, table)
			if err != nil {
				return err
			}
			rep.Append(fragments...)
			if found {
				rep.Append(
					"\n* FOR PATCH REPOSITORY THAT PREVENTS CRASHES AND FIXES PROBLEMS IN THESE AND OTHER MODS,* \n",
					"* VISIT OPTIMIZATION PATCHES COLLECTION: https://www.nexusmods.com/fallout4/mods/54872 * \n\n",
				)
			} else {
				rep.Append("# FOUND NO PROBLEMATIC MODS THAT ARE ALREADY PATCHED THROUGH THE OPC INSTALLER # \n\n")
			}
		} else {
			rep.Append(s.rules.Warnings.NoPlugins)
		}
	}

	rep.Banner("CHECKING IF IMPORTANT PATCHES & FIXES ARE INSTALLED")
	if loaded {
		core := s.rules.ModsCore
		if s.rules.ModsCoreFolon.Len() > 0 && hasFolonWorldspace(table) {
			core = s.rules.ModsCoreFolon
		}
		rep.Append(analyzer.DetectModsImportant(core, table, rival)...)
	} else {
		rep.Append(s.rules.Warnings.NoPlugins)
	}

	return nil
}

// hasFolonWorldspace reports whether the Fallout London worldspace
// plugin is present, which switches the important-mods table.
func hasFolonWorldspace(table *crashlog.PluginTable) bool {
	for _, name := range table.LowerNames() {
		if strings.Contains(name, "londonworldspace") {
			return true
		}
	}
	return false
}

// appendCrashDetails lists plugin, Form ID and named-record suspects
// extracted from the call stack.
func (s *Scanner) appendCrashDetails(rep *report.Report, segments *crashlog.Segments, plugins *crashlog.PluginTableResult) {
	crashgen := s.rules.Game.CrashgenName
	table := plugins.Table

	rep.Append("# LIST OF (POSSIBLE) PLUGIN SUSPECTS #\n")
	if fragments := analyzer.CountPluginSuspects(segments.CallStack, table, s.rules.IgnorePlugins); len(fragments) > 0 {
		rep.Append(fragments...)
		rep.Append(
			"\n[Last number counts how many times each Plugin Suspect shows up in the crash log.]\n",
			fmt.Sprintf("These Plugins were caught by %s and some of them might be responsible for this crash.\n", crashgen),
			"You can try disabling these plugins and check if the game still crashes, though this method can be unreliable.\n\n",
		)
	} else {
		rep.Append("* COULDN'T FIND ANY PLUGIN SUSPECTS *\n\n")
	}

	rep.Append("# LIST OF (POSSIBLE) FORM ID SUSPECTS #\n")
	showValues := s.opts.ShowFormIDValues && s.formIDs != nil
	if fragments := analyzer.CheckFormIDSuspects(segments.CallStack, table, showValues, s.formIDs); len(fragments) > 0 {
		rep.Append(fragments...)
		rep.Append(
			"\n[Last number counts how many times each Form ID shows up in the crash log.]\n",
			fmt.Sprintf("These Form IDs were caught by %s and some of them might be related to this crash.\n", crashgen),
			"You can try searching any listed Form IDs in xEdit and see if they lead to relevant records.\n\n",
		)
	} else {
		rep.Append("* COULDN'T FIND ANY FORM ID SUSPECTS *\n\n")
	}

	rep.Append("# LIST OF DETECTED (NAMED) RECORDS #\n")
	if fragments := analyzer.CountRecordSuspects(segments.CallStack, s.rules.CatchRecords, s.rules.IgnoreRecords); len(fragments) > 0 {
		rep.Append(fragments...)
		rep.Append(
			"\n[Last number counts how many times each Named Record shows up in the crash log.]\n",
			fmt.Sprintf("These records were caught by %s and some of them might be related to this crash.\n", crashgen),
			"Named records should give extra info on involved game objects, record types or mod files.\n\n",
		)
	} else {
		rep.Append("* COULDN'T FIND ANY NAMED RECORDS *\n\n")
	}
}
