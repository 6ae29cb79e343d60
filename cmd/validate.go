package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/adn360mx/imgopt/internal/report"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <report>",
	Short: "Validate a run report and check the optimized file",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	reportPath := args[0]
	w := cmd.OutOrStdout()

	r, err := report.Read(reportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	errs := report.Validate(r, filepath.Dir(reportPath))
	if len(errs) == 0 {
		fmt.Fprintln(w, "  ✓ Report is valid")
		if r.Optimized != nil {
			fmt.Fprintf(w, "  ✓ %s present, %s\n", r.Optimized.Path, report.FormatSize(r.Optimized.Size))
		}
		return nil
	}

	fmt.Fprintf(w, "  ✗ Report has %d error(s):\n", len(errs))
	for _, e := range errs {
		fmt.Fprintf(w, "    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}
