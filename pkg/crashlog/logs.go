package crashlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
)

// ListLogs collects crash log files (crash-*.log) from the given folders,
// deduplicated and sorted for deterministic batch ordering. Folders that
// do not exist simply contribute nothing.
func ListLogs(folders ...string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	for _, folder := range folders {
		if folder == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(folder, "crash-*.log"))
		if err != nil {
			return nil, fmt.Errorf("listing crash logs in %q: %w", folder, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	sort.Strings(result)
	return result, nil
}

// CollectLogs copies stray crash-*.log files from the source folders
// into dest, typically from the script extender's folder into the scan
// folder. Files already present in dest are left alone. Returns the
// paths of the copies made.
func CollectLogs(dest string, sources ...string) ([]string, error) {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("creating %q: %w", dest, err)
	}

	var collected []string
	for _, source := range sources {
		if source == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(source, "crash-*.log"))
		if err != nil {
			return nil, fmt.Errorf("listing crash logs in %q: %w", source, err)
		}
		for _, match := range matches {
			target := filepath.Join(dest, filepath.Base(match))
			if _, err := os.Stat(target); err == nil {
				continue
			}
			if err := copyLog(match, target); err != nil {
				return nil, err
			}
			collected = append(collected, target)
		}
	}

	sort.Strings(collected)
	return collected, nil
}

func copyLog(src, dst string) error {
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

// ListMisnamed returns crash-*.txt files in the given folders. Crash logs
// saved with a .txt extension are a common user error that the scanner
// surfaces in its final summary.
func ListMisnamed(folders ...string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, folder := range folders {
		if folder == "" {
			continue
		}
		matches, err := filepath.Glob(filepath.Join(folder, "crash-*.txt"))
		if err != nil {
			continue
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	sort.Strings(result)
	return result
}
