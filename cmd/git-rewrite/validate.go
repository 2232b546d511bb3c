package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/im-fiv/git-rewrite/pkg/manifest"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an export tree without modifying anything",
	Long: `Load the manifest from the export directory and verify it is replayable:
the structure is well formed, every parent listed in the manifest appears
at a strictly earlier position than its child, and every record's
snapshot directory exists on disk.

Exits non-zero on the first violation. Nothing is written.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	m, err := manifest.Load(filepath.Join(cfg.Export.Dir, cfg.Export.ManifestName))
	if err != nil {
		return err
	}

	if err := m.Validate(); err != nil {
		return fmt.Errorf("manifest invalid: %w", err)
	}

	for _, c := range m.Commits {
		info, err := os.Stat(c.Folder)
		if err != nil {
			return fmt.Errorf("commit %s: snapshot folder %q: %w", c.Sha, c.Folder, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("commit %s: snapshot path %q is not a directory", c.Sha, c.Folder)
		}
	}

	cmd.Printf("Manifest OK: %s (branch %s, %d commits)\n", m.Name, m.Branch, len(m.Commits))
	return nil
}
