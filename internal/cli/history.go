package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ariel-frischer/chg/internal/changelog"
	clierrors "github.com/ariel-frischer/chg/internal/errors"
	"github.com/ariel-frischer/chg/internal/git"
	"github.com/ariel-frischer/chg/internal/history"
	"github.com/ariel-frischer/chg/internal/progress"
)

// countingSource counts the commits read from a source.
type countingSource struct {
	src history.CommitSource
	n   int
}

func (c *countingSource) Next() (history.Commit, error) {
	commit, err := c.src.Next()
	if err == nil {
		c.n++
	}
	return commit, err
}

// importHistory reads the first-parent history of s.RepoDir into a changelog.
// Progress goes to w, with a spinner when w is an interactive terminal.
func importHistory(s *Settings, cfg changelog.Config, stopVersion string, w io.Writer) (*changelog.ChangeLog, error) {
	if !git.IsGitRepository(s.RepoDir) {
		return nil, clierrors.GitNotRepository(s.RepoDir)
	}

	repo, err := git.Open(s.RepoDir)
	if err != nil {
		return nil, clierrors.GitReadFailed(s.RepoDir, err)
	}
	tags, err := repo.Tags(cfg.MatchTag)
	if err != nil {
		return nil, clierrors.GitReadFailed(s.RepoDir, err)
	}
	walker, err := repo.Walk()
	if err != nil {
		return nil, clierrors.GitReadFailed(s.RepoDir, err)
	}

	ind := progress.NewIndicator(w, progressCapabilities(w))
	ind.Start("Importing git history")

	src := &countingSource{src: walker}
	c, err := history.NewImporter(nil, s.Log).Import(src, history.Options{
		Tags:        tags,
		Config:      cfg,
		StopVersion: stopVersion,
	})
	if err != nil {
		ind.Fail("")
		return nil, clierrors.GitReadFailed(s.RepoDir, err)
	}
	ind.Done(fmt.Sprintf("%d commits, %d releases", src.n, len(c.Releases())))
	return c, nil
}

// progressCapabilities only reports a terminal for the real stderr.
func progressCapabilities(w io.Writer) progress.TerminalCapabilities {
	if f, ok := w.(*os.File); ok && f == os.Stderr {
		return progress.DetectTerminalCapabilities(f)
	}
	return progress.TerminalCapabilities{}
}

// progressWriter is where progress lines go; silenced with -s.
func progressWriter(w io.Writer) io.Writer {
	if silentCount > 0 {
		return io.Discard
	}
	return w
}

// effectiveConfig applies the tool config's tag pattern override to the
// configuration embedded in a changelog.
func effectiveConfig(embedded changelog.Config, s *Settings) changelog.Config {
	if s.Config != nil && s.Config.TagVersionPattern != "" {
		embedded.Git.TagVersionPattern = s.Config.TagVersionPattern
	}
	return embedded
}
