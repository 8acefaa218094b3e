package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chg/internal/changelog"
	clierrors "github.com/ariel-frischer/chg/internal/errors"
)

var newWithConfig bool

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty changelog",
	Long: `Create a changelog with a title and an empty Unreleased section.

An existing file is never overwritten. With --with-config the default
configuration block is embedded below the title, ready to be edited
(tag pattern, issue and pull request link templates).`,
	Example: `  # Create CHANGELOG.md
  chg new

  # Create docs/CHANGES.md with an editable config block
  chg new -f docs/CHANGES.md --with-config`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		return runNew(cmd.OutOrStdout(), s.ChangelogFile, newWithConfig)
	},
}

func init() {
	newCmd.Flags().BoolVar(&newWithConfig, "with-config", false, "Embed the default config block")
	rootCmd.AddCommand(newCmd)
}

func runNew(w io.Writer, path string, withConfig bool) error {
	if fileExists(path) {
		return clierrors.ChangelogExists(path)
	}

	c := &changelog.ChangeLog{
		Prolog:     defaultProlog,
		Changesets: []changelog.ChangeSet{{Header: changelog.Unreleased{}}},
	}
	if withConfig {
		prolog, err := withConfigBlock(changelog.DefaultConfig())
		if err != nil {
			return err
		}
		c.Prolog = prolog
	}

	text, err := renderChangelog(c)
	if err != nil {
		return err
	}
	if err := writeFile(path, text); err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ Created %s\n", path)
	return nil
}
