package cmd

import (
	"fmt"
	"io"

	"github.com/adn360mx/imgopt/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <report>",
	Short: "Display a run report",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	r, err := report.Read(args[0])
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	printStats(cmd.OutOrStdout(), r)
	return nil
}

func printStats(w io.Writer, r *report.Report) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Report version: %d\n", r.Version)
	fmt.Fprintf(w, "  Generated:      %s\n", r.GeneratedAt)
	fmt.Fprintf(w, "  Profile:        %s (quality %d, max width %d)\n", r.Profile, r.Params.Quality, r.Params.MaxWidth)
	fmt.Fprintln(w)

	o := r.Original
	fmt.Fprintf(w, "  Original:       %s\n", o.Name)
	fmt.Fprintf(w, "    Format:       %s\n", o.Format)
	fmt.Fprintf(w, "    Dimensions:   %dx%d\n", o.Width, o.Height)
	fmt.Fprintf(w, "    Size:         %s\n", report.FormatSize(o.Size))
	fmt.Fprintln(w)

	v := r.Optimized
	if v == nil {
		fmt.Fprintln(w, "  Optimized:      none")
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "  Optimized:      %s\n", v.Path)
	fmt.Fprintf(w, "    Dimensions:   %dx%.2f (%d rows encoded)\n", v.Width, v.Height, v.SurfaceHeight)
	fmt.Fprintf(w, "    Size:         %s (%s on disk)\n", report.FormatSize(v.EstimatedSize), report.FormatSize(v.Size))
	if r.ReductionPercent != nil {
		fmt.Fprintf(w, "    Reduction:    %d%%\n", *r.ReductionPercent)
	}
	if v.Hash != "" {
		fmt.Fprintf(w, "    Hash:         %s\n", v.Hash)
	}

	// Warnings.
	var warnings []string
	if r.ReductionPercent != nil && *r.ReductionPercent < 0 {
		warnings = append(warnings, "optimized image is larger than the original")
	}
	if v.Width == o.Width && r.ReductionPercent != nil && *r.ReductionPercent <= 0 {
		warnings = append(warnings, "no downscale and no saving, try a lower quality")
	}
	if len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  Warnings (%d):\n", len(warnings))
		for _, msg := range warnings {
			fmt.Fprintf(w, "    ⚠ %s\n", msg)
		}
	}
	fmt.Fprintln(w)
}
