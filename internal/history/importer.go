// Package history turns a first-parent commit stream into a changelog.
package history

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ariel-frischer/chg/internal/changelog"
	"github.com/ariel-frischer/chg/internal/commitmsg"
)

// yankedMarker in a tag name flags the release as withdrawn.
const yankedMarker = "YANKED"

// unknownAuthor is used for commits without an author name.
const unknownAuthor = "?"

// Commit is one entry of the commit stream.
type Commit struct {
	ID         string
	Message    string
	AuthorName string
	AuthorDate time.Time
}

// CommitSource yields commits newest first along the first-parent line.
// Next returns io.EOF once the root commit has been yielded.
type CommitSource interface {
	Next() (Commit, error)
}

// Options controls an import run.
type Options struct {
	// Tags maps commit IDs to tag names, with annotated tags already
	// resolved to the commit they point at.
	Tags map[string]string
	// Config is stored in the resulting changelog; its tag pattern decides
	// which tags open a release.
	Config changelog.Config
	// StopVersion ends the walk once a release with this version is opened.
	StopVersion string
}

// Importer builds a changelog from commits.
type Importer struct {
	analyzer *commitmsg.Analyzer
	log      logrus.FieldLogger
}

// NewImporter creates an importer. A nil analyzer selects the default rules
// and a nil logger discards diagnostics.
func NewImporter(analyzer *commitmsg.Analyzer, log logrus.FieldLogger) *Importer {
	if analyzer == nil {
		analyzer = commitmsg.NewAnalyzer()
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Importer{analyzer: analyzer, log: log}
}

// Import walks src and returns a changelog with a leading Unreleased
// changeset followed by one changeset per release, newest first.
func (im *Importer) Import(src CommitSource, opts Options) (*changelog.ChangeLog, error) {
	current := changelog.ChangeSet{Header: changelog.Unreleased{}}
	var sets []changelog.ChangeSet

	openRelease := func(rh changelog.ReleaseHeader) {
		sets = append(sets, current)
		current = changelog.ChangeSet{Header: rh}
	}

walk:
	for {
		commit, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading commit history: %w", err)
		}

		if rh, ok := im.taggedRelease(commit, opts); ok {
			openRelease(rh)
			if im.reachedStop(rh, opts) {
				break
			}
			continue
		}

		switch msg := im.analyzer.Analyze(commit.Message).(type) {
		case commitmsg.Contribution:
			current.Items = append(current.Items, contributionItem(msg, commit))
		case commitmsg.Release:
			rh, ok := changelog.NewRelease(msg.Version, commit.AuthorDate, true)
			if !ok {
				im.log.WithFields(logrus.Fields{"commit": commit.ID, "version": msg.Version}).
					Warn("Ignoring release commit without a usable version")
				continue
			}
			rh.Tag = ""
			im.log.WithFields(logrus.Fields{"commit": commit.ID, "version": rh.Version}).
				Warn("Untagged release detected, marking it as yanked")
			openRelease(rh)
			if im.reachedStop(rh, opts) {
				break walk
			}
		case commitmsg.PostRelease:
			im.log.WithFields(logrus.Fields{"commit": commit.ID, "ref_version": msg.RefVersion}).
				Debug("Post-release commit ignored")
		case commitmsg.Revert:
			im.log.WithFields(logrus.Fields{"commit": commit.ID, "original": msg.OrigMessage}).
				Warn("Revert commit ignored")
		}
	}

	sets = append(sets, current)
	return &changelog.ChangeLog{
		Changesets: sets,
		Meta:       map[string]string{},
		Config:     opts.Config,
	}, nil
}

// taggedRelease opens a release when the commit carries a qualifying tag.
func (im *Importer) taggedRelease(commit Commit, opts Options) (changelog.ReleaseHeader, bool) {
	tag, ok := opts.Tags[commit.ID]
	if !ok {
		return changelog.ReleaseHeader{}, false
	}
	if !opts.Config.MatchTag(tag) {
		im.log.WithFields(logrus.Fields{"commit": commit.ID, "tag": tag}).
			Debug("Tag does not match the version pattern")
		return changelog.ReleaseHeader{}, false
	}
	yanked := strings.Contains(strings.ToUpper(tag), yankedMarker)
	rh, ok := changelog.NewRelease(tag, commit.AuthorDate, yanked)
	if !ok {
		im.log.WithFields(logrus.Fields{"commit": commit.ID, "tag": tag}).
			Warn("Tag has no version number")
	}
	return rh, ok
}

func (im *Importer) reachedStop(rh changelog.ReleaseHeader, opts Options) bool {
	if opts.StopVersion == "" || opts.StopVersion != rh.Version {
		return false
	}
	im.log.WithField("version", rh.Version).Trace("Stopping on requested version")
	return true
}

func contributionItem(msg commitmsg.Contribution, commit Commit) changelog.ChangeItem {
	author := commit.AuthorName
	if author == "" {
		author = unknownAuthor
	}
	return changelog.ChangeItem{
		Refs:      msg.Refs,
		Type:      changelog.ChangeOther,
		Component: msg.Component,
		Text:      msg.Subject,
		Authors:   []string{author},
	}
}
