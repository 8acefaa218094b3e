package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/chg/internal/version"
)

var versionPlain bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for chg",
	Example: `  # Show version info
  chg version

  # Plain output (for scripts)
  chg version --plain`,
	Args: noArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlain {
			printPlainVersion(cmd.OutOrStdout())
			return
		}
		printPrettyVersion(cmd.OutOrStdout())
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionPlain, "plain", false, "Plain output without formatting")
	rootCmd.AddCommand(versionCmd)
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "chg %s\n", version.Version)
	fmt.Fprintf(w, "commit: %s\n", version.Commit)
	fmt.Fprintf(w, "built: %s\n", version.BuildDate)
	fmt.Fprintf(w, "go: %s\n", version.GoVersion())
	fmt.Fprintf(w, "platform: %s\n", version.Platform())
}

func printPrettyVersion(w io.Writer) {
	label := color.New(color.FgCyan).SprintFunc()
	title := color.New(color.Bold).SprintFunc()

	fmt.Fprintln(w, title(version.Short()))
	fmt.Fprintf(w, "  %s %s\n", label("Built:   "), version.BuildDate)
	fmt.Fprintf(w, "  %s %s\n", label("Go:      "), version.GoVersion())
	fmt.Fprintf(w, "  %s %s\n", label("Platform:"), version.Platform())
}
