package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/pastebin"
)

// FetchOptions holds command-line options for the fetch command.
type FetchOptions struct {
	Dir     string
	Timeout time.Duration
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand() *cobra.Command {
	opts := &FetchOptions{}

	cmd := &cobra.Command{
		Use:   "fetch <url>...",
		Short: "Download crash logs from Pastebin",
		Long: `Download one or more crash logs shared through Pastebin and save
them with scannable crash-<id>.log names. Regular paste URLs are
rewritten to their raw form automatically.

Example:
  clas fetch https://pastebin.com/AbCdEf12
  clas fetch --dir "Crash Logs/Pastebin" https://pastebin.com/AbCdEf12`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Dir, "dir", "d", "Crash Logs/Pastebin", "Folder to save downloaded logs in")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", pastebin.DefaultTimeout, "Per-download timeout")

	return cmd
}

func runFetch(cmd *cobra.Command, args []string, opts *FetchOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := pastebin.NewClient(opts.Timeout)

	failed := 0
	for _, rawURL := range args {
		content, id, err := client.Fetch(ctx, rawURL)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", rawURL, err)
			failed++
			continue
		}
		path, err := pastebin.Save(opts.Dir, id, content)
		if err != nil {
			fmt.Printf("❌ %s: %v\n", rawURL, err)
			failed++
			continue
		}
		fmt.Printf("✓ Saved %s\n", path)
	}

	if failed > 0 {
		ExitCode = 1
		return fmt.Errorf("%d of %d downloads failed", failed, len(args))
	}
	return nil
}
