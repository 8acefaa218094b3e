// Package testutil provides test helpers shared by chg packages.
package testutil

import (
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// GitRepo is a throwaway git repository in a temp dir.
// Commits are empty and dated one day apart, starting 2021-04-21 10:00 CEST.
type GitRepo struct {
	t    *testing.T
	Dir  string
	Repo *git.Repository
	when time.Time
}

// NewGitRepo initializes an empty repository removed at test cleanup.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &GitRepo{
		t:    t,
		Dir:  dir,
		Repo: repo,
		when: time.Date(2021, 4, 20, 10, 0, 0, 0, time.FixedZone("CEST", 2*3600)),
	}
}

// NextDay advances the clock used for the next signature by one day.
func (r *GitRepo) NextDay() time.Time {
	r.when = r.when.Add(24 * time.Hour)
	return r.when
}

// Signature returns a signature for name at the current clock.
func (r *GitRepo) Signature(name string) *object.Signature {
	return &object.Signature{Name: name, Email: name + "@example.com", When: r.when}
}

// Commit creates an empty commit on the current branch, one day after the previous one.
func (r *GitRepo) Commit(msg, author string) plumbing.Hash {
	r.t.Helper()
	r.NextDay()
	wt, err := r.Repo.Worktree()
	require.NoError(r.t, err)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author:            r.Signature(author),
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return hash
}

// Tag creates a lightweight tag.
func (r *GitRepo) Tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.Repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

// AnnotatedTag creates an annotated tag object pointing at hash.
func (r *GitRepo) AnnotatedTag(name string, hash plumbing.Hash) *plumbing.Reference {
	r.t.Helper()
	ref, err := r.Repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  r.Signature("Releaser"),
		Message: "release " + name,
	})
	require.NoError(r.t, err)
	return ref
}

// CommitObject loads a commit by hash.
func (r *GitRepo) CommitObject(hash plumbing.Hash) *object.Commit {
	r.t.Helper()
	c, err := r.Repo.CommitObject(hash)
	require.NoError(r.t, err)
	return c
}
