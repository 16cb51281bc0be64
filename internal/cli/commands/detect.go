package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/evildarkarchon/Buffout4-CLAS/pkg/crashlog"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output  string
	ShowAll bool
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect which crash generator produced a log",
		Long: `Probe a log file against the known crash generator formats and
report the best match with a confidence score.

Useful before scanning a folder of mixed files: a log from an unknown
generator will scan, but segment detection may come up empty.

Example:
  clas detect crash-2024-01-01-12-00-00.log
  clas detect --all -o json crash.log`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.ShowAll, "all", false, "Show all candidate formats, not just the best match")

	return cmd
}

func runDetect(logFile string, opts *DetectOptions) error {
	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		return fmt.Errorf("log file not found: %s", logFile)
	}

	lines, err := crashlog.Read(logFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", logFile, err)
	}

	result := crashlog.DetectFormat(lines)

	switch opts.Output {
	case "json":
		return outputDetectJSON(result, logFile, opts)
	default:
		return outputDetectText(result, logFile, opts)
	}
}

func outputDetectText(result *crashlog.DetectionResult, logFile string, opts *DetectOptions) error {
	fmt.Println("=== Crash Log Format Detection ===")
	fmt.Println()
	fmt.Printf("File: %s\n", logFile)
	fmt.Printf("Lines sampled: %d\n", result.SampledLines)
	fmt.Println()

	best := result.Best()
	if best == nil {
		fmt.Println("No known crash generator format detected.")
		fmt.Println()
		fmt.Println("Tip: Check the first line of the file. Crash generator logs open")
		fmt.Println("with the generator's name and version.")
		ExitCode = 1
		return nil
	}

	fmt.Printf("Detected Format: %s\n", best.Format.Name)
	fmt.Printf("Confidence: %.0f%%\n", best.Confidence*100)
	fmt.Printf("Section markers found: %d of %d\n", best.MarkersFound, len(best.Format.Markers))
	if best.HeaderMatched {
		fmt.Println("Header line matched.")
	} else {
		fmt.Println("Header line did not match; the log may be truncated at the top.")
	}

	if opts.ShowAll && len(result.Matches) > 1 {
		fmt.Println()
		fmt.Println("All candidates:")
		for _, m := range result.Matches {
			fmt.Printf("  %-20s %.0f%%\n", m.Format.Name, m.Confidence*100)
		}
	}
	return nil
}

// JSONMatch is the JSON shape of a single format candidate.
type JSONMatch struct {
	Format        string  `json:"format"`
	Confidence    float64 `json:"confidence"`
	MarkersFound  int     `json:"markers_found"`
	MarkersTotal  int     `json:"markers_total"`
	HeaderMatched bool    `json:"header_matched"`
}

// JSONOutput is the JSON shape of a detection run.
type JSONOutput struct {
	File         string      `json:"file"`
	SampledLines int         `json:"sampled_lines"`
	Detected     bool        `json:"detected"`
	BestMatch    *JSONMatch  `json:"best_match,omitempty"`
	AllMatches   []JSONMatch `json:"all_matches,omitempty"`
}

func outputDetectJSON(result *crashlog.DetectionResult, logFile string, opts *DetectOptions) error {
	out := JSONOutput{
		File:         logFile,
		SampledLines: result.SampledLines,
	}

	toJSON := func(m *crashlog.FormatMatch) JSONMatch {
		return JSONMatch{
			Format:        m.Format.Name,
			Confidence:    m.Confidence,
			MarkersFound:  m.MarkersFound,
			MarkersTotal:  len(m.Format.Markers),
			HeaderMatched: m.HeaderMatched,
		}
	}

	if best := result.Best(); best != nil {
		out.Detected = true
		bm := toJSON(best)
		out.BestMatch = &bm
	} else {
		ExitCode = 1
	}
	if opts.ShowAll {
		for i := range result.Matches {
			out.AllMatches = append(out.AllMatches, toJSON(&result.Matches[i]))
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
