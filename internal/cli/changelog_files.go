package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ariel-frischer/chg/internal/changelog"
	clierrors "github.com/ariel-frischer/chg/internal/errors"
)

// defaultProlog starts every changelog chg creates.
const defaultProlog = "# Changelog"

// loadChangelog reads and parses the changelog at path.
func loadChangelog(path string) (*changelog.ChangeLog, string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", clierrors.ChangelogNotFound(path)
	}
	if err != nil {
		return nil, "", clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot read changelog")
	}

	text := string(data)
	c, err := changelog.NewGrammar().ParseString(text)
	if err != nil {
		return nil, "", clierrors.ChangelogParseError(path, err, parseHint(err))
	}
	return c, text, nil
}

// parseHint names what to fix for a parse error.
func parseHint(err error) string {
	var (
		itemErr      *changelog.InvalidItemError
		versionErr   *changelog.InvalidVersionIDError
		separatorErr *changelog.MissingVersionDateSeparatorError
		missingErr   *changelog.MissingTimestampError
		timestampErr *changelog.InvalidTimestampError
		configErr    *changelog.ConfigError
	)
	switch {
	case errors.As(err, &itemErr):
		return fmt.Sprintf("Fix the item on line %d or turn it into a note (no leading '- ')", itemErr.Line)
	case errors.As(err, &versionErr):
		return fmt.Sprintf("Fix the version %q of section %q: it must start with a digit", versionErr.Token, versionErr.Header)
	case errors.As(err, &separatorErr), errors.As(err, &missingErr):
		return "Add the release date to the section header"
	case errors.As(err, &timestampErr):
		return fmt.Sprintf("Use a YYYY-MM-DD date instead of %q", timestampErr.Text)
	case errors.As(err, &configErr):
		return "Fix the " + changelog.ConfigStartMarker + " ... " + changelog.ConfigEndMarker + " block"
	default:
		return "Check the changelog for unexpected content"
	}
}

// renderChangelog renders c as markdown text.
func renderChangelog(c *changelog.ChangeLog) (string, error) {
	text, err := changelog.RenderMarkdownString(c)
	if err != nil {
		return "", clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot render changelog")
	}
	return text, nil
}

// writeFile writes text to path, mapping failures to a CLI error.
func writeFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	return nil
}

// fileExists returns true if path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// withConfigBlock returns defaultProlog followed by the embedded block of cfg.
func withConfigBlock(cfg changelog.Config) (string, error) {
	block, err := cfg.EmbeddedString()
	if err != nil {
		return "", clierrors.WrapWithMessage(err, clierrors.Runtime, "cannot write config block")
	}
	return defaultProlog + "\n\n" + block, nil
}
