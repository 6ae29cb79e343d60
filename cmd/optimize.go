package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adn360mx/imgopt/internal/hasher"
	"github.com/adn360mx/imgopt/internal/optimizer"
	"github.com/adn360mx/imgopt/internal/profile"
	"github.com/adn360mx/imgopt/internal/report"
	"github.com/adn360mx/imgopt/internal/session"
	"github.com/spf13/cobra"
)

var (
	optOutDir       string
	optProfile      string
	optQuality      int
	optMaxWidth     int
	optReport       string
	optReportFormat string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <image>",
	Short: "Recompress one image as JPEG",
	Long: `Decodes an image, scales it down to the max width (never up) and
re-encodes it as JPEG at the given quality.

The result is written as optimized-<file name> in the output directory.
With --report, a JSON or YAML record of the run is written as well and
can be checked later with "imgopt validate".`,
	Example: `  imgopt optimize photo.png -q 70 -w 1280
  imgopt optimize photo.png -p compact -o out --report out/report.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optOutDir, "out", "o", ".", "output directory")
	optimizeCmd.Flags().StringVarP(&optProfile, "profile", "p", "", "parameter preset (default from config)")
	optimizeCmd.Flags().IntVarP(&optQuality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	optimizeCmd.Flags().IntVarP(&optMaxWidth, "max-width", "w", 0, "max width 100-3840 (0 = profile default)")
	optimizeCmd.Flags().StringVar(&optReport, "report", "", "write a run report to this path")
	optimizeCmd.Flags().StringVar(&optReportFormat, "report-format", "", "report format: json or yaml (default from extension)")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	start := time.Now()

	profileName := optProfile
	if profileName == "" {
		profileName = cfg.App.Profile
	}
	if !profile.Known(profileName) {
		return fmt.Errorf("unknown profile %q (one of %v)", profileName, profile.Names())
	}
	p := profile.Get(profileName).Params.Override(profile.Params{Quality: optQuality, MaxWidth: optMaxWidth})
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if int64(len(data)) > cfg.App.MaxUploadSize {
		return fmt.Errorf("input is %s, larger than the %s limit",
			report.FormatSize(int64(len(data))), report.FormatSize(cfg.App.MaxUploadSize))
	}

	absOutput, err := filepath.Abs(optOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	logVerbose("input:   %s", inputPath)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (quality=%d, max_width=%d)", profileName, p.Quality, p.MaxWidth)

	sess, err := session.NewFromUpload(hasher.SessionID(data, 1), filepath.Base(inputPath), "", data, cfg.App.MaxPixels)
	if err != nil {
		return err
	}

	opt := optimizer.New(optimizer.Config{Logger: log, MaxPixels: cfg.App.MaxPixels})
	tok := sess.Begin()
	res, err := opt.Optimize(cmd.Context(), sess.OriginalEncoded(), p)
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}
	sess.Complete(tok, res)

	out, name, err := sess.Download()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(absOutput, name)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	r := buildReport(sess, res, profileName, p, outPath, out)
	if optReport != "" {
		if err := writeReport(r, optReport, outPath); err != nil {
			return err
		}
		logVerbose("report:  %s", optReport)
	}

	printOptimizeReport(cmd.OutOrStdout(), r, outPath, time.Since(start))
	return nil
}

func buildReport(sess *session.ImageSession, res *optimizer.Result, profileName string, p profile.Params, outPath string, out []byte) *report.Report {
	info := sess.OriginalInfo()
	r := report.New(profileName)
	r.Params = p
	r.Original = report.OriginalInfo{
		Name:   sess.FileName(),
		Format: info.Format,
		Width:  info.Width,
		Height: info.Height,
		Size:   sess.OriginalByteSize(),
	}
	r.SetOptimized(report.OptimizedInfo{
		Path:          filepath.Base(outPath),
		Width:         res.Dimensions.Width,
		Height:        res.Dimensions.Height,
		SurfaceHeight: res.Surface.Y,
		EstimatedSize: res.EstimatedSize,
		Size:          int64(len(out)),
		Hash:          hasher.ContentHash(out, 16),
	})
	return r
}

// writeReport stores r with the optimized path made relative to the
// report's directory.
func writeReport(r *report.Report, path, outPath string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve report path: %w", err)
	}
	rel, err := filepath.Rel(filepath.Dir(abs), outPath)
	if err != nil {
		return fmt.Errorf("relative output path: %w", err)
	}
	r.Optimized.Path = filepath.ToSlash(rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := report.Write(r, abs, report.FormatFor(abs, optReportFormat)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func printOptimizeReport(w io.Writer, r *report.Report, outPath string, elapsed time.Duration) {
	o, v := r.Original, r.Optimized
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Input:       %s (%s, %dx%d)\n", o.Name, o.Format, o.Width, o.Height)
	fmt.Fprintf(w, "  Output:      %s (%dx%d)\n", outPath, v.Width, v.SurfaceHeight)
	fmt.Fprintf(w, "  Params:      quality %d, max width %d (%s)\n", r.Params.Quality, r.Params.MaxWidth, r.Profile)
	fmt.Fprintf(w, "  Input size:  %s\n", report.FormatSize(o.Size))
	fmt.Fprintf(w, "  Output size: %s\n", report.FormatSize(v.EstimatedSize))
	if r.ReductionPercent != nil {
		fmt.Fprintf(w, "  Reduction:   %d%%\n", *r.ReductionPercent)
	}
	fmt.Fprintf(w, "  Time:        %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintln(w)
}
