// Command coco inspects and rewrites COCO annotation files.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/nvr-ai/go-dataset/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath        string
	Verbose           bool
	Format            string // "json" | "text"
	ImagesDir         string
	RootName          string
	SkipMissingImages bool

	logger *zap.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the coco CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(nil)
}

// newRootCommand builds the command tree. A nil logger is built from the
// resolved config's log level when a command runs.
func newRootCommand(logger *zap.Logger) *cobra.Command {
	opts := &RootOptions{logger: logger}

	cmd := &cobra.Command{
		Use:           "coco",
		Short:         "Inspect and rewrite COCO annotation files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return errors.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML dataset config")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ImagesDir, "images-dir", "", "directory holding the image files")
	cmd.PersistentFlags().StringVar(&opts.RootName, "root-name", "", "root category name for rebuilt category tables")
	cmd.PersistentFlags().BoolVar(&opts.SkipMissingImages, "skip-missing", false, "drop images whose file is missing")

	cmd.AddCommand(NewClassesCommand(opts))
	cmd.AddCommand(NewGroupCommand(opts))
	cmd.AddCommand(NewRebuildCommand(opts))
	cmd.AddCommand(NewOverlapsCommand(opts))
	cmd.AddCommand(NewDedupeCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// resolveConfig merges the config file, positional annotations path and
// flags, in that order of increasing precedence.
func resolveConfig(cmd *cobra.Command, opts *RootOptions, args []string) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return cfg, err
		}
	}
	if len(args) > 0 {
		cfg.Annotations = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("images-dir") {
		cfg.ImagesDir = opts.ImagesDir
	}
	if flags.Changed("root-name") {
		cfg.RootName = opts.RootName
	}
	if flags.Changed("skip-missing") {
		cfg.SkipMissingImages = opts.SkipMissingImages
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if opts.logger == nil {
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return cfg, err
		}
		opts.logger = logger
	}
	return cfg, nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "invalid log level")
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize logger")
	}
	return logger, nil
}

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
