package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chg/internal/changelog"
	clierrors "github.com/ariel-frischer/chg/internal/errors"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

var (
	infoFormat string
	infoPlain  bool
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the sections and items of the changelog",
	Long: `Parse the changelog and list every section with its item count,
followed by the items. References are followed by their link when the
embedded config has a link template for them.

--format yaml exports the parsed model instead.`,
	Example: `  # Overview of CHANGELOG.md
  chg info

  # Without colors (for pipes and logs)
  chg info --plain

  # Machine-readable export
  chg info --format yaml`,
	Args: noArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings()
		if err != nil {
			return err
		}
		plain := infoPlain || s.Config.Plain
		return runInfo(cmd.OutOrStdout(), s.ChangelogFile, infoFormat, plain)
	},
}

func init() {
	infoCmd.Flags().StringVar(&infoFormat, "format", formatText, "Output format: text or yaml")
	infoCmd.Flags().BoolVar(&infoPlain, "plain", false, "Plain output without colors")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(w io.Writer, path, format string, plain bool) error {
	if format != formatText && format != formatYAML {
		return clierrors.InvalidOutputFormat(format)
	}

	c, _, err := loadChangelog(path)
	if err != nil {
		return err
	}

	if format == formatYAML {
		err = changelog.ExportYAML(c, w)
	} else {
		err = changelog.FormatTerminal(c, w, changelog.FormatOptions{Plain: plain})
	}
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot print changelog")
	}
	return nil
}
