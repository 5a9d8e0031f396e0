package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"db-objects/internal/config"
	"db-objects/internal/reporter"
	"db-objects/internal/scanner"
	"db-objects/internal/tracker"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "db-objects",
	Short: "Track database objects declared across SQL migration files",
	Long: `db-objects scans numbered SQL migration files and, optionally, a directory
of ad-hoc scripts, and records every CREATE, ALTER and DROP of tables, views,
indexes, functions, procedures, triggers and schemas. For each object it reports
the full update history and where the object last changed.

The ad-hoc directory is taken from --adhoc-dir or the DBADHOCDIRECTORY
environment variable.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cfgPath, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return configError("loading configuration", err)
		}
		logger := newLogger(cfg)
		if cfgPath != "" {
			logger.Debug("using config file", "path", cfgPath)
		}
		return runExtraction(cfg, logger)
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default: db-objects.yaml in --dir)")
	rootCmd.Flags().StringP("format", "f", "json", "output format (json, csv, markdown, yaml)")
	rootCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	rootCmd.Flags().StringP("dir", "d", ".", "directory holding the migration files")
	rootCmd.Flags().String("adhoc-dir", "", "directory of ad-hoc scripts (default: $"+config.AdhocDirEnv+")")
	rootCmd.Flags().BoolP("verbose", "v", false, "log every processed file")
	rootCmd.Flags().BoolP("quiet", "q", false, "only log warnings and errors")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitGeneral)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case cfg.Verbose:
		level = slog.LevelDebug
	case cfg.Quiet:
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runExtraction(cfg *config.Config, logger *slog.Logger) error {
	// Reject an unknown format before scanning anything.
	if _, err := reporter.New(cfg.Format, nil); err != nil {
		return configError("invalid format", err)
	}

	switch state := scanner.Describe(cfg.AdhocDir); state {
	case scanner.AdhocNotConfigured:
		logger.Info("ad-hoc directory not configured; set " + config.AdhocDirEnv + " to include ad-hoc scripts")
	case scanner.AdhocNotFound:
		logger.Warn("ad-hoc directory not found, skipping", "dir", cfg.AdhocDir)
	default:
		logger.Info("ad-hoc directory found", "dir", cfg.AdhocDir)
	}

	reg, stats, err := tracker.New(logger).Track(cfg.Dir, cfg.AdhocDir)
	if err != nil {
		return &ExitError{Code: ExitGeneral, Message: "scanning migrations", Err: err}
	}
	entries := reg.Entries()

	if !cfg.Quiet {
		summary := reporter.NewConsoleReporter().WithFiles(stats.FilesFound, stats.FilesScanned, stats.FilesSkipped)
		if err := summary.Report(entries); err != nil {
			return err
		}
	}

	out, err := reporter.Render(cfg.Format, entries)
	if err != nil {
		return outputError("rendering report", err)
	}

	if cfg.Output == "" {
		if _, err := os.Stdout.Write(out); err != nil {
			return outputError("writing to stdout", err)
		}
		return nil
	}
	if err := reporter.WriteFile(cfg.Output, out); err != nil {
		return outputError("writing "+cfg.Output, err)
	}
	logger.Info("output saved", "path", cfg.Output)
	return nil
}
