package cli

import (
	"fmt"
	"io"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/chg/internal/errors"
	"github.com/ariel-frischer/chg/internal/reconcile"
)

var syncDryRun bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Merge new git history into the changelog",
	Long: `Import the git history newer than the latest release of the changelog
and merge it in: missing releases are inserted, new items are added to the
Unreleased section. Sections and items already in the changelog are never
modified, so hand edits survive.

Sync fails when the changelog has releases that git does not know about.`,
	Example: `  # Update CHANGELOG.md
  chg sync

  # Show the changes as a unified diff without writing
  chg sync --dry-run`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		return runSync(cmd.OutOrStdout(), progressWriter(cmd.ErrOrStderr()), s, syncDryRun)
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print a diff instead of writing the file")
	rootCmd.AddCommand(syncCmd)
}

func runSync(out, progressOut io.Writer, s *Settings, dryRun bool) error {
	existing, before, err := loadChangelog(s.ChangelogFile)
	if err != nil {
		return err
	}

	var stopVersion string
	if latest, ok := existing.LatestRelease(); ok {
		stopVersion = latest.Version
	}
	s.Log.WithField("stop_version", stopVersion).Debug("Importing history")

	incoming, err := importHistory(s, effectiveConfig(existing.Config, s), stopVersion, progressOut)
	if err != nil {
		return err
	}

	steps, err := reconcile.SyncAll(existing, incoming, s.Config.MaxSyncSteps, s.Log)
	if err != nil {
		return clierrors.SyncFailed(s.ChangelogFile, err)
	}
	if steps == 0 {
		fmt.Fprintf(out, "✓ %s is up to date\n", s.ChangelogFile)
		return nil
	}

	after, err := renderChangelog(existing)
	if err != nil {
		return err
	}

	if dryRun {
		diff, err := unifiedDiff(s.ChangelogFile, before, after)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot compute diff")
		}
		_, err = io.WriteString(out, diff)
		return err
	}

	if err := writeFile(s.ChangelogFile, after); err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Synced %s (%d steps)\n", s.ChangelogFile, steps)
	return nil
}

// unifiedDiff returns the diff between the changelog on disk and after sync.
func unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: path,
		ToFile:   path + " (synced)",
		Context:  3,
	})
}
