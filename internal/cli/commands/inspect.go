package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/crashlog"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

// InspectResult represents a single structural check on a crash log.
type InspectResult struct {
	Check   string
	Status  string // "PASS", "WARN", "FAIL"
	Message string
	Details []string
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	var rulesetPath string

	cmd := &cobra.Command{
		Use:   "inspect <crash-log>",
		Short: "Inspect the structure of a single crash log",
		Long: `Inspect reads one crash log and reports what a scan would find in
it: header fields, segment boundaries and plugin list health. Use it
to understand why a particular log fails to scan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], rulesetPath)
		},
	}

	cmd.Flags().StringVarP(&rulesetPath, "ruleset", "r", "", "Crash signature database file (required)")
	_ = cmd.MarkFlagRequired("ruleset")

	return cmd
}

func runInspect(logPath, rulesetPath string) error {
	rules, err := ruleset.Load(rulesetPath)
	if err != nil {
		return fmt.Errorf("loading ruleset: %w", err)
	}

	lines, err := crashlog.Read(logPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", logPath, err)
	}
	lines = crashlog.Reformat(lines, rules.ExcludeLogRecords, false)

	var results []InspectResult
	results = append(results, inspectLength(lines))
	results = append(results, inspectFormat(lines))

	segments := crashlog.FindSegments(lines, rules.Game.XSEAcronym, rules.Game.CrashgenName, rules.Game.RootName)
	results = append(results, inspectHeader(segments))
	results = append(results, inspectSegments(segments))
	results = append(results, inspectPlugins(segments, rules))

	printInspectResults(logPath, results)

	for _, r := range results {
		if r.Status == "FAIL" {
			ExitCode = 1
			break
		}
	}
	return nil
}

func inspectLength(lines []string) InspectResult {
	if crashlog.TooShort(lines) {
		return InspectResult{
			Check:   "Log Length",
			Status:  "FAIL",
			Message: fmt.Sprintf("Only %d lines, log is truncated or empty", len(lines)),
		}
	}
	return InspectResult{
		Check:   "Log Length",
		Status:  "PASS",
		Message: fmt.Sprintf("%d lines", len(lines)),
	}
}

func inspectFormat(lines []string) InspectResult {
	best := crashlog.DetectFormat(lines).Best()
	if best == nil {
		return InspectResult{
			Check:   "Log Format",
			Status:  "FAIL",
			Message: "No known crash generator format detected",
		}
	}
	status := "PASS"
	if best.Confidence < 0.5 {
		status = "WARN"
	}
	return InspectResult{
		Check:   "Log Format",
		Status:  status,
		Message: fmt.Sprintf("%s (%.0f%% confidence)", best.Format.Name, best.Confidence*100),
	}
}

func inspectHeader(segments *crashlog.Segments) InspectResult {
	var missing []string
	if segments.GameVersion == crashlog.UnknownField {
		missing = append(missing, "game version")
	}
	if segments.CrashgenVersion == crashlog.UnknownField {
		missing = append(missing, "crash generator version")
	}
	if segments.MainError == crashlog.UnknownField {
		missing = append(missing, "main error")
	}
	if len(missing) > 0 {
		return InspectResult{
			Check:   "Header Fields",
			Status:  "WARN",
			Message: fmt.Sprintf("%d of 3 header fields missing", len(missing)),
			Details: missing,
		}
	}
	return InspectResult{
		Check:   "Header Fields",
		Status:  "PASS",
		Message: fmt.Sprintf("Game %s, crash generator %s", segments.GameVersion, segments.CrashgenVersion),
		Details: []string{"Main error: " + segments.MainError},
	}
}

func inspectSegments(segments *crashlog.Segments) InspectResult {
	sizes := []string{
		fmt.Sprintf("Settings: %d lines", len(segments.Crashgen)),
		fmt.Sprintf("System specs: %d lines", len(segments.System)),
		fmt.Sprintf("Call stack: %d lines", len(segments.CallStack)),
		fmt.Sprintf("Modules: %d lines", len(segments.AllModules)),
		fmt.Sprintf("XSE plugins: %d lines", len(segments.XSEModules)),
		fmt.Sprintf("Plugins: %d lines", len(segments.Plugins)),
	}
	if segments.Incomplete() {
		return InspectResult{
			Check:   "Segments",
			Status:  "FAIL",
			Message: "No segment boundaries found",
			Details: sizes,
		}
	}
	if len(segments.CallStack) == 0 {
		return InspectResult{
			Check:   "Segments",
			Status:  "WARN",
			Message: "Call stack segment is empty",
			Details: sizes,
		}
	}
	return InspectResult{
		Check:   "Segments",
		Status:  "PASS",
		Message: "All boundary markers resolved",
		Details: sizes,
	}
}

func inspectPlugins(segments *crashlog.Segments, rules *ruleset.RuleSet) InspectResult {
	result := crashlog.BuildPluginTable(segments, rules.Game.MainESM, nil, rules.IgnorePlugins)
	if !result.Loaded || result.Table.Len() == 0 {
		return InspectResult{
			Check:   "Plugin List",
			Status:  "WARN",
			Message: "No plugin list in this log",
			Details: []string{"The game may have crashed before plugins loaded."},
		}
	}
	msg := fmt.Sprintf("%d plugins", result.Table.Len())
	if result.LimitReached {
		return InspectResult{
			Check:   "Plugin List",
			Status:  "WARN",
			Message: msg + ", [FF] plugin limit reached",
		}
	}
	return InspectResult{
		Check:   "Plugin List",
		Status:  "PASS",
		Message: msg,
	}
}

func printInspectResults(logPath string, results []InspectResult) {
	fmt.Printf("Inspecting: %s\n\n", logPath)

	pass, warn, fail := 0, 0, 0
	for _, r := range results {
		symbol := "?"
		switch r.Status {
		case "PASS":
			symbol = "✓"
			pass++
		case "WARN":
			symbol = "⚠"
			warn++
		case "FAIL":
			symbol = "✗"
			fail++
		}
		fmt.Printf("[%s] %s: %s\n", symbol, r.Check, r.Message)
		for _, detail := range r.Details {
			fmt.Printf("      %s\n", detail)
		}
	}

	fmt.Printf("\nSummary: %d passed, %d warnings, %d failed\n", pass, warn, fail)
}
