package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chg/internal/changelog"
	clierrors "github.com/ariel-frischer/chg/internal/errors"
)

var (
	initStopVersion string
	initStdout      bool
	initForce       bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a changelog from git history",
	Long: `Walk the first-parent history from HEAD and write one section per
release tag, newest first. Commits after the latest tag go to Unreleased.

Pull request merges and squash merges become items referencing the pull
request (and the issues it closes); other commits become items of
component "N/A". Tags are matched with the tag_version_pattern of the tool
config, "v*" by default.`,
	Example: `  # Write CHANGELOG.md from the whole history
  chg init

  # Only import releases newer than 1.0.0 and print the result
  chg init --stop-version 1.0.0 --stdout`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		return runInit(cmd.OutOrStdout(), progressWriter(cmd.ErrOrStderr()), s, initOptions{
			stopVersion: initStopVersion,
			stdout:      initStdout,
			force:       initForce,
		})
	},
}

func init() {
	initCmd.Flags().StringVar(&initStopVersion, "stop-version", "", "Stop importing at this release version")
	initCmd.Flags().BoolVar(&initStdout, "stdout", false, "Print the changelog instead of writing the file")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing changelog")
	rootCmd.AddCommand(initCmd)
}

type initOptions struct {
	stopVersion string
	stdout      bool
	force       bool
}

func runInit(out, progressOut io.Writer, s *Settings, opts initOptions) error {
	if !opts.stdout && !opts.force && fileExists(s.ChangelogFile) {
		return clierrors.ChangelogExists(s.ChangelogFile)
	}

	cfg := effectiveConfig(changelog.Config{}, s)
	c, err := importHistory(s, cfg, opts.stopVersion, progressOut)
	if err != nil {
		return err
	}

	c.Prolog = defaultProlog
	if cfg.Git.TagVersionPattern != "" {
		// keep the custom pattern for later syncs
		if c.Prolog, err = withConfigBlock(cfg); err != nil {
			return err
		}
	}

	text, err := renderChangelog(c)
	if err != nil {
		return err
	}
	if opts.stdout {
		_, err := io.WriteString(out, text)
		return err
	}
	if err := writeFile(s.ChangelogFile, text); err != nil {
		return err
	}

	fmt.Fprintf(out, "✓ Wrote %s (%d releases, %d items)\n", s.ChangelogFile, len(c.Releases()), c.ItemCount())
	return nil
}
