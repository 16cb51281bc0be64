package scanner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/report"
)

// Stats summarizes a batch scan.
type Stats struct {
	// Scanned counts logs that produced a complete report.
	Scanned int

	// Incomplete counts logs whose plugin list could not be loaded.
	Incomplete int

	// Failed counts logs too truncated or unreadable to scan.
	Failed int

	// FailedLogs names the failed files.
	FailedLogs []string
}

// ScanAll scans every crash log concurrently, writes each report beside
// its log and returns the aggregated statistics. The worker count is
// bounded by Options.Workers, defaulting to the CPU count. A data
// integrity error in the rule database cancels the batch.
func (s *Scanner) ScanAll(ctx context.Context, paths []string) (*Stats, error) {
	workers := s.opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	stats := &Stats{}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := s.ScanFile(path)
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}

			if _, err := result.Report.Write(path, s.home); err != nil {
				return err
			}
			if result.Failed && s.opts.MoveUnsolved {
				if err := s.moveUnsolved(path); err != nil {
					s.log.Warn("backing up unsolved log failed", zap.String("path", path), zap.Error(err))
				}
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case result.Failed:
				stats.Failed++
				stats.FailedLogs = append(stats.FailedLogs, filepath.Base(path))
			default:
				stats.Scanned++
			}
			if !result.PluginsLoaded {
				stats.Incomplete++
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Info("batch scan complete",
		zap.Int("scanned", stats.Scanned),
		zap.Int("incomplete", stats.Incomplete),
		zap.Int("failed", stats.Failed))
	return stats, nil
}

// moveUnsolved copies a failed crash log and its report into the backup
// folder. Copies, not moves, so the originals stay inspectable.
func (s *Scanner) moveUnsolved(logPath string) error {
	if err := os.MkdirAll(s.opts.BackupDir, 0o755); err != nil {
		return fmt.Errorf("creating backup folder: %w", err)
	}
	if err := copyFile(logPath, filepath.Join(s.opts.BackupDir, filepath.Base(logPath))); err != nil {
		return err
	}
	autoscan := report.AutoscanPath(logPath)
	if _, err := os.Stat(autoscan); err == nil {
		return copyFile(autoscan, filepath.Join(s.opts.BackupDir, filepath.Base(autoscan)))
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- paths come from directory listings
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst) // #nosec G304
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	return out.Close()
}
