package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <ruleset-file>",
		Short: "Validate a crash signature database",
		Long: `Validate a crash signature database file without scanning anything.

Checks:
  - YAML syntax
  - Game metadata presence
  - Suspect signal grammar (count thresholds, severity keys)
  - Version string validity`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	rulesetPath := args[0]

	fmt.Printf("Validating %s...\n", rulesetPath)

	rules, err := ruleset.Load(rulesetPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Printf("\nDatabase valid!\n")
	fmt.Printf("  Game:            %s\n", rules.Game.Name)
	fmt.Printf("  Crash generator: %s\n", rules.Game.CrashgenName)
	fmt.Printf("  Error suspects:  %d\n", len(rules.ErrorSuspects))
	fmt.Printf("  Stack suspects:  %d\n", len(rules.StackSuspects))

	fmt.Printf("\nMod databases:\n")
	for _, table := range []struct {
		name string
		t    *ruleset.Table
	}{
		{"frequent crash mods", rules.ModsFreq},
		{"conflicting mod pairs", rules.ModsConf},
		{"mods with solutions", rules.ModsSolu},
		{"OPC patched mods", rules.ModsOPC},
		{"important core mods", rules.ModsCore},
		{"important core mods (FOLON)", rules.ModsCoreFolon},
	} {
		fmt.Printf("  %-28s %d entries\n", table.name, table.t.Len())
	}

	if rules.Game.CrashgenLatest == "" {
		fmt.Printf("\nWarning: no crashgen_latest version, outdated-version checks are disabled\n")
	}

	return nil
}
