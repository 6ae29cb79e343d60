package cmd

import (
	"fmt"
	"runtime"

	"github.com/adn360mx/imgopt/internal/config"
	"github.com/adn360mx/imgopt/internal/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version    = "0.1.0"
	verbose    bool
	configFile string

	cfg *config.Config
	log = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "imgopt",
	Short: "Shrink images to a smaller JPEG with a quality and width budget",
	Long: `imgopt recompresses an image as JPEG at a chosen quality, scaling it
down to a maximum width while keeping the aspect ratio.

Run "imgopt serve" for the local web UI with live size comparison, or
"imgopt optimize" to process a single file from the command line.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Root returns the command tree.
func Root() *cobra.Command {
	return rootCmd
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (yaml, json or toml)")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgopt %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// setup loads .env, the config and the logger before any subcommand.
func setup(_ *cobra.Command, _ []string) error {
	// Load .env file if present (ignore errors)
	_ = godotenv.Load()

	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	level := c.Log.Level
	if verbose {
		level = "debug"
	}
	l, err := logger.New(level, c.Log.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg, log = c, l
	return nil
}

// logVerbose logs a debug line only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		log.Sugar().Debugf(format, args...)
	}
}
