package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/im-fiv/git-rewrite/pkg/config"
	"github.com/im-fiv/git-rewrite/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "git-rewrite",
	Short: "Export a git branch history to disk and replay it into a new repository",
	Long: `git-rewrite turns one branch of a repository into a portable filesystem
representation - one snapshot directory per commit plus a JSON manifest -
and can later replay that representation into a freshly initialized
repository, reconstructing the same history shape with new identifiers.

Original commit identifiers are never preserved; authorship, timestamps
(including the author's timezone offset), messages, file contents and the
parent structure are.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "git-rewrite.yaml", "config file path")
}

// setup loads configuration and builds the run-scoped logger shared by
// all subcommands. Every log line carries a short run identifier so
// interleaved runs stay distinguishable.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return nil, nil, err
	}

	runID := uuid.NewString()[:8]
	return cfg, logger.With("run_id", runID), nil
}
