// Package cli wires the docoutline commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "docoutline",
	Short: "Extract titles and heading outlines from PDF documents",
	Long: `docoutline ranks the font sizes used in a document, maps the largest ones to
a title and H1-H3 levels, and writes the result as one JSON sidecar per input.

Configuration comes from built-in defaults, an optional --config file (TOML or
YAML), environment variables and command-line flags, in increasing priority.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("docoutline %s\n", version.String()))

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: json or text")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads and validates the configuration for cmd and builds the logger.
// Logs go to the command's error stream so stdout carries only results.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, newLogger(cfg, cmd.ErrOrStderr()), nil
}

// applyFlags copies explicitly set flags over the loaded configuration.
// Flags a command does not define are never Changed, so every command can
// share this.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.InputDir, _ = f.GetString("input")
		// An explicit input directory must exist; no fallback.
		cfg.FallbackInputDir = ""
	}
	if f.Changed("output") {
		cfg.OutputDir, _ = f.GetString("output")
	}
	if f.Changed("format") {
		cfg.OutputFormat, _ = f.GetString("format")
	}
	if f.Changed("workers") {
		if n, _ := f.GetInt("workers"); n > 0 {
			cfg.WorkerCount = n
		}
	}
	if f.Changed("title-fallback") {
		cfg.TitleFallback, _ = f.GetBool("title-fallback")
	}
	if f.Changed("metadata-title") {
		cfg.MetadataTitleFallback, _ = f.GetBool("metadata-title")
	}
	if f.Changed("port") {
		cfg.Port, _ = f.GetString("port")
	}
	if f.Changed("log-level") {
		cfg.LogLevel, _ = f.GetString("log-level")
	}
	if f.Changed("log-format") {
		cfg.LogFormat, _ = f.GetString("log-format")
	}
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// addProcessingFlags registers the flags shared by commands that run the
// pipeline over a directory.
func addProcessingFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Input directory (default from INPUT_DIR)")
	cmd.Flags().StringP("output", "o", "", "Output directory (default from OUTPUT_DIR)")
	cmd.Flags().StringP("format", "f", "", "Sidecar format: json, markdown or html")
	cmd.Flags().IntP("workers", "w", 0, "Number of concurrent workers")
	cmd.Flags().Bool("title-fallback", false, "Guess a title from page-one structure when none is found")
	cmd.Flags().Bool("metadata-title", false, "Use the PDF Info title when none is found")
}
