// Package git reads the commit history and release tags of a repository for
// changelog import. It uses the go-git library, so no git binary is needed.
package git

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ariel-frischer/chg/internal/history"
)

// maxTagChain bounds how many annotated tags pointing at tags are followed.
const maxTagChain = 16

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// IsGitRepository checks if path (or the current directory when empty) is within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsGitRepository(%s): %v", path, result)
	return result
}

// Repository gives read access to history and tags.
type Repository struct {
	repo *git.Repository
}

// Open opens the repository containing path.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	return &Repository{repo: repo}, nil
}

// Root returns the absolute path of the repository's working tree.
func (r *Repository) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	root := worktree.Filesystem.Root()
	logDebug("[git] Root: %s", root)
	return root, nil
}

// Tags maps commit hashes to tag names. Annotated tags are followed to the
// commit they point at; tags of trees or blobs are skipped. When several tags
// point at the same commit, a name accepted by match is preferred over one
// that is not, then the lexically smallest name wins. A nil match accepts
// every name.
func (r *Repository) Tags(match func(name string) bool) (map[string]string, error) {
	if match == nil {
		match = func(string) bool { return true }
	}

	refs, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var refList []*plumbing.Reference
	if err := refs.ForEach(func(ref *plumbing.Reference) error {
		refList = append(refList, ref)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	sort.Slice(refList, func(i, j int) bool {
		return refList[i].Name().Short() < refList[j].Name().Short()
	})

	tags := make(map[string]string, len(refList))
	for _, ref := range refList {
		name := ref.Name().Short()
		target, ok, err := r.peelTag(ref.Hash())
		if err != nil {
			return nil, fmt.Errorf("resolving tag %s: %w", name, err)
		}
		if !ok {
			logDebug("[git] skipping tag %s: does not point at a commit", name)
			continue
		}
		if existing, dup := tags[target.String()]; dup {
			if match(existing) || !match(name) {
				logDebug("[git] commit %s already tagged %s, ignoring %s", target, existing, name)
				continue
			}
			logDebug("[git] commit %s tagged %s, preferring version tag %s", target, existing, name)
		}
		tags[target.String()] = name
	}

	logDebug("[git] Tags: %d tagged commits", len(tags))
	return tags, nil
}

// peelTag follows annotated tags until it reaches a non-tag object.
// Lightweight tags resolve to their own hash.
func (r *Repository) peelTag(hash plumbing.Hash) (plumbing.Hash, bool, error) {
	for i := 0; i < maxTagChain; i++ {
		tag, err := r.repo.TagObject(hash)
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			// lightweight tag
			return hash, true, nil
		}
		if err != nil {
			return plumbing.ZeroHash, false, err
		}
		switch tag.TargetType {
		case plumbing.TagObject:
			hash = tag.Target
		case plumbing.CommitObject:
			return tag.Target, true, nil
		default:
			return plumbing.ZeroHash, false, nil
		}
	}
	return plumbing.ZeroHash, false, fmt.Errorf("tag chain longer than %d", maxTagChain)
}

// Walk starts a first-parent walk from HEAD. A repository without commits
// yields an empty walk.
func (r *Repository) Walk() (*FirstParentWalker, error) {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		logDebug("[git] Walk: repository has no commits")
		return &FirstParentWalker{repo: r.repo}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit: %w", err)
	}
	logDebug("[git] Walk: starting at %s", head.Hash())
	return &FirstParentWalker{repo: r.repo, next: commit}, nil
}

// FirstParentWalker yields commits newest first, following only the first
// parent of each merge. It implements history.CommitSource.
type FirstParentWalker struct {
	repo *git.Repository
	next *object.Commit
}

// Next returns the current commit and advances to its first parent.
// It returns io.EOF after the root commit.
func (w *FirstParentWalker) Next() (history.Commit, error) {
	if w.next == nil {
		return history.Commit{}, io.EOF
	}
	c := w.next
	w.next = nil

	if len(c.ParentHashes) > 0 {
		parent, err := w.repo.CommitObject(c.ParentHashes[0])
		if err != nil {
			return history.Commit{}, fmt.Errorf("reading parent of %s: %w", c.Hash, err)
		}
		w.next = parent
	}

	return history.Commit{
		ID:         c.Hash.String(),
		Message:    c.Message,
		AuthorName: c.Author.Name,
		AuthorDate: c.Author.When,
	}, nil
}
