package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/im-fiv/git-rewrite/pkg/manifest"
	"github.com/im-fiv/git-rewrite/pkg/replay"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Replay an export tree into a freshly initialized repository",
	Long: `Read the manifest from the export directory and replay every recorded
commit, in order, into a new repository directory named after the
manifest's repository name.

Each original commit becomes a new commit with the same author, message,
timestamp (offset included) and parent structure, but a new identifier.
By default a record whose parent never appeared earlier in the manifest
aborts the run; set replay.allow_dangling_parents to restore the legacy
behavior of silently dropping such parents.

Run this from the directory containing the export tree.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}

	m, err := manifest.Load(filepath.Join(cfg.Export.Dir, cfg.Export.ManifestName))
	if err != nil {
		return err
	}

	// Reject before initializing anything: a rejected manifest must not
	// leave an empty repository directory behind.
	if len(m.Commits) == 0 {
		return replay.ErrEmptyManifest
	}

	replayer, err := replay.New(m.Name, cfg, logger)
	if err != nil {
		return err
	}

	if err := replayer.Replay(m, cmd.OutOrStdout()); err != nil {
		return err
	}

	cmd.Printf("Reconstructed repository at %s (branch %s, %d commits)\n",
		m.Name, m.Branch, len(m.Commits))
	return nil
}
