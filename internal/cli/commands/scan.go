package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/crashlog"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/formid"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/ruleset"
	"github.com/evildarkarchon/Buffout4-CLAS/pkg/scanner"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// ScanOptions holds command-line options for the scan command.
type ScanOptions struct {
	Ruleset       string
	ScanDirs      []string
	Workers       int
	MoveUnsolved  bool
	BackupDir     string
	CollectFrom   []string
	ShowFIDValues bool
	SimplifyLogs  bool
	FCXMode       bool
	LoadOrder     string
	FormIDDBs     []string
	Verbose       bool
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	opts := &ScanOptions{}

	cmd := &cobra.Command{
		Use:   "scan [crash-log-folder...]",
		Short: "Scan crash logs and write AUTOSCAN reports",
		Long: `Scan all crash-*.log files in the given folders (default: the
current directory) against the crash signature database, and write a
<log-name>-AUTOSCAN.md report beside each log.

Exit codes:
  0 - All logs scanned cleanly
  1 - Some logs failed to scan
  2 - Configuration or runtime error`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Ruleset, "ruleset", "r", "", "Crash signature database file (required)")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "Concurrent scan workers (default: CPU count)")
	cmd.Flags().BoolVar(&opts.MoveUnsolved, "move-unsolved", false, "Copy failed logs to the backup folder")
	cmd.Flags().StringVar(&opts.BackupDir, "backup-dir", "", "Backup folder for unsolved logs")
	cmd.Flags().StringSliceVar(&opts.CollectFrom, "collect-from", nil, "Folder to collect stray crash logs from before scanning (can be repeated)")
	cmd.Flags().BoolVar(&opts.ShowFIDValues, "show-fid-values", false, "Resolve Form ID record descriptions from the databases")
	cmd.Flags().BoolVar(&opts.SimplifyLogs, "simplify-logs", false, "Drop excluded record lines while reformatting")
	cmd.Flags().BoolVar(&opts.FCXMode, "fcx-mode", false, "Assume external game file checks are running")
	cmd.Flags().StringVar(&opts.LoadOrder, "loadorder", "", "loadorder.txt that overrides crash log plugin lists")
	cmd.Flags().StringSliceVar(&opts.FormIDDBs, "formid-db", nil, "Form ID database file (can be repeated)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose scan logging")
	_ = cmd.MarkFlagRequired("ruleset")

	return cmd
}

func runScan(cmd *cobra.Command, args []string, opts *ScanOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	rules, err := ruleset.Load(opts.Ruleset)
	if err != nil {
		return fmt.Errorf("loading ruleset: %w", err)
	}

	folders := args
	if len(folders) == 0 {
		folders = []string{"."}
	}
	if len(opts.CollectFrom) > 0 {
		collected, err := crashlog.CollectLogs(folders[0], opts.CollectFrom...)
		if err != nil {
			return fmt.Errorf("collecting crash logs: %w", err)
		}
		if len(collected) > 0 {
			fmt.Printf("Collected %d crash log(s) into %s\n", len(collected), folders[0])
		}
	}
	logs, err := crashlog.ListLogs(folders...)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		return fmt.Errorf("no crash-*.log files found in %v", folders)
	}

	logger := zap.NewNop()
	if opts.Verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()
	}

	var fidSource *formid.DB
	if len(opts.FormIDDBs) > 0 {
		fidSource, err = formid.Open(rules.Game.Name, opts.FormIDDBs...)
		if err != nil {
			return fmt.Errorf("opening formid databases: %w", err)
		}
		defer func() { _ = fidSource.Close() }()
	}

	s, err := scanner.New(rules, fidSource, logger, scanner.Options{
		ShowFormIDValues: opts.ShowFIDValues,
		SimplifyLogs:     opts.SimplifyLogs,
		MoveUnsolved:     opts.MoveUnsolved,
		BackupDir:        opts.BackupDir,
		FCXMode:          opts.FCXMode,
		LoadOrderPath:    opts.LoadOrder,
		Workers:          opts.Workers,
		ToolVersion:      "CLAS " + Version,
	})
	if err != nil {
		return err
	}

	fmt.Println("SCANNING CRASH LOGS, PLEASE WAIT...")
	start := time.Now()

	stats, err := s.ScanAll(ctx, logs)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printScanSummary(stats, time.Since(start), crashlog.ListMisnamed(folders...))

	if stats.Failed > 0 {
		ExitCode = 1
	}
	return nil
}

func printScanSummary(stats *scanner.Stats, elapsed time.Duration, misnamed []string) {
	fmt.Println("SCAN COMPLETE!")
	fmt.Println("SCAN RESULTS ARE AVAILABLE IN FILES NAMED crash-date-and-time-AUTOSCAN.md")
	fmt.Println()
	fmt.Printf("Scanned all available logs in %.2f seconds.\n", elapsed.Seconds())
	fmt.Printf("Number of Scanned Logs (No Autoscan Errors): %d\n", stats.Scanned)
	fmt.Printf("Number of Incomplete Logs (No Plugins List): %d\n", stats.Incomplete)
	fmt.Printf("Number of Failed Logs (Autoscan Can't Scan): %d\n", stats.Failed)

	if len(stats.FailedLogs) > 0 || len(misnamed) > 0 {
		fmt.Println()
		fmt.Println("❌ NOTICE : THE SCANNER WAS UNABLE TO PROPERLY SCAN THE FOLLOWING LOG(S):")
		for _, name := range stats.FailedLogs {
			fmt.Println(name)
		}
		for _, name := range misnamed {
			fmt.Println(name)
		}
		fmt.Println("Most common reason for this are logs being incomplete or in the wrong format.")
		fmt.Println("Make sure that your crash log files have the .log file format, NOT .txt!")
	}
}
