// Package reconcile merges changesets imported from history into an existing
// changelog. Both changelogs are aligned on their newest shared release; only
// content above that anchor is ever added, one changeset per step, so that
// repeated runs converge.
package reconcile

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ariel-frischer/chg/internal/changelog"
)

// SyncError reports histories that cannot be reconciled.
type SyncError struct {
	Message string
}

func (e *SyncError) Error() string {
	return e.Message
}

// action is what a single step did to the existing changelog.
type action int

const (
	actionNone action = iota
	actionAppendFirst
	actionInsertRelease
	actionInsertUnreleased
	actionMergeUnreleased
)

func (a action) String() string {
	switch a {
	case actionAppendFirst:
		return "append-first"
	case actionInsertRelease:
		return "insert-release"
	case actionInsertUnreleased:
		return "insert-unreleased"
	case actionMergeUnreleased:
		return "merge-unreleased"
	default:
		return "none"
	}
}

// sideMeta is what alignment needs to know about one changelog.
type sideMeta struct {
	// unreleased is 1 when the changelog starts with an Unreleased changeset, else 0.
	unreleased int
	// unshared counts the release changesets newer than the anchor.
	unshared int
	// anchor is the position of the newest shared release, or -1.
	anchor int
}

func (m sideMeta) hasAnchor() bool {
	return m.anchor >= 0
}

// Sync performs one synchronization step from incoming into existing and
// reports whether existing changed. On error existing is left untouched.
// A nil log discards diagnostics.
func Sync(existing, incoming *changelog.ChangeLog, log logrus.FieldLogger) (bool, error) {
	act, err := step(existing, incoming, orDiscard(log))
	return act != actionNone, err
}

// SyncAll repeats Sync until existing stops gaining releases. It stops after
// an Unreleased-level merge and after at most len(incoming.Changesets)+1
// steps, or maxSteps when positive and smaller. It returns the number of
// steps that changed existing.
func SyncAll(existing, incoming *changelog.ChangeLog, maxSteps int, log logrus.FieldLogger) (int, error) {
	log = orDiscard(log)

	limit := len(incoming.Changesets) + 1
	if maxSteps > 0 && maxSteps < limit {
		limit = maxSteps
	}

	changed := 0
	for i := 0; i < limit; i++ {
		act, err := step(existing, incoming, log)
		if err != nil {
			return changed, err
		}
		log.WithField("action", act.String()).Trace("Synchronization step")
		if act == actionNone {
			break
		}
		changed++
		if act != actionInsertRelease && act != actionAppendFirst {
			break
		}
	}
	log.WithField("steps", changed).Debug("Synchronization finished")
	return changed, nil
}

func step(existing, incoming *changelog.ChangeLog, log logrus.FieldLogger) (action, error) {
	if err := existing.Validate(); err != nil {
		return actionNone, fmt.Errorf("existing changelog: %w", err)
	}
	if err := incoming.Validate(); err != nil {
		return actionNone, fmt.Errorf("incoming changelog: %w", err)
	}

	old, cur := comparisonMeta(existing.Changesets, incoming.Changesets)

	switch {
	case !old.hasAnchor() && !cur.hasAnchor():
		return bootstrap(existing, incoming, old, cur, log)
	case old.hasAnchor() && cur.hasAnchor():
		return advance(existing, incoming, old, cur, log)
	default:
		return actionNone, fmt.Errorf("internal error: asymmetric anchor %d/%d", old.anchor, cur.anchor)
	}
}

// bootstrap handles changelogs without any shared release.
func bootstrap(existing, incoming *changelog.ChangeLog, old, cur sideMeta, log logrus.FieldLogger) (action, error) {
	if old.unshared > 0 {
		return actionNone, &SyncError{Message: "no shared release; changelog is probably from a different project"}
	}
	if cur.unshared == 0 && !hasUnreleasedItems(incoming) {
		return actionNone, &SyncError{Message: "there is nothing to synchronize"}
	}

	oldest := incoming.Changesets[len(incoming.Changesets)-1]
	if len(existing.Changesets) == 0 {
		log.WithField("changeset", oldest.Title()).Debug("Starting changelog with the oldest changeset")
		existing.Changesets = append(existing.Changesets, oldest.Clone())
		if oldest.IsUnreleased() {
			return actionInsertUnreleased, nil
		}
		return actionAppendFirst, nil
	}

	slot := &existing.Changesets[len(existing.Changesets)-1]
	merged := MergeItems(slot, oldest)
	log.WithFields(logrus.Fields{"changeset": oldest.Title(), "merged": merged}).
		Debug("Merged oldest changeset into unreleased")
	if merged == 0 {
		return actionNone, nil
	}
	return actionMergeUnreleased, nil
}

// advance handles changelogs sharing a release.
func advance(existing, incoming *changelog.ChangeLog, old, cur sideMeta, log logrus.FieldLogger) (action, error) {
	if rh, ok := existing.Changesets[old.anchor].Release(); ok {
		log.WithFields(logrus.Fields{
			"version": rh.Version,
			"date":    rh.Date.Format(changelog.DateLayout),
		}).Debug("Found shared release")
	}

	if old.unshared > 0 {
		return actionNone, &SyncError{Message: fmt.Sprintf("existing changelog diverges in %d releases", old.unshared)}
	}

	if cur.unshared > 0 {
		next := incoming.Changesets[cur.anchor-1]
		// Unreleased keeps position 0
		existing.Changesets = insertAt(existing.Changesets, old.unreleased, next.Clone())
		log.WithField("changeset", next.Title()).Info("Added release")
		return actionInsertRelease, nil
	}

	if !hasUnreleasedItems(incoming) {
		return actionNone, nil
	}

	if old.unreleased == 0 {
		existing.Changesets = insertAt(existing.Changesets, 0, incoming.Changesets[0].Clone())
		log.Info("Added unreleased changes")
		return actionInsertUnreleased, nil
	}

	merged := MergeItems(&existing.Changesets[0], incoming.Changesets[0])
	log.WithField("merged", merged).Debug("Merged unreleased changes")
	if merged == 0 {
		return actionNone, nil
	}
	return actionMergeUnreleased, nil
}

// MergeItems copies the items of src into the front of dst, skipping items
// sharing a reference with dst. Items without references are always copied.
// It returns the number of items copied.
func MergeItems(dst *changelog.ChangeSet, src changelog.ChangeSet) int {
	seen := make(map[string]bool)
	for _, item := range dst.Items {
		for _, ref := range item.Refs {
			seen[ref] = true
		}
	}

	merged := 0
	for i := len(src.Items) - 1; i >= 0; i-- {
		item := src.Items[i]
		if known(seen, item.Refs) {
			continue
		}
		for _, ref := range item.Refs {
			seen[ref] = true
		}
		dst.Items = insertAt(dst.Items, 0, item.Clone())
		merged++
	}
	return merged
}

func known(seen map[string]bool, refs []string) bool {
	for _, ref := range refs {
		if seen[ref] {
			return true
		}
	}
	return false
}

// comparisonMeta aligns the two changeset lists on the newest shared release.
func comparisonMeta(existing, incoming []changelog.ChangeSet) (sideMeta, sideMeta) {
	_, oldUnreleased := scanVersions(existing)
	curVersions, curUnreleased := scanVersions(incoming)

	for i, cs := range existing {
		rh, ok := cs.Release()
		if !ok {
			continue
		}
		if j, shared := curVersions[rh.Version]; shared {
			return sideMeta{unreleased: oldUnreleased, unshared: i - oldUnreleased, anchor: i},
				sideMeta{unreleased: curUnreleased, unshared: j - curUnreleased, anchor: j}
		}
	}

	return sideMeta{unreleased: oldUnreleased, unshared: len(existing) - oldUnreleased, anchor: -1},
		sideMeta{unreleased: curUnreleased, unshared: len(incoming) - curUnreleased, anchor: -1}
}

// scanVersions maps release versions to positions and reports a leading Unreleased.
func scanVersions(sets []changelog.ChangeSet) (map[string]int, int) {
	versions := make(map[string]int, len(sets))
	unreleased := 0
	for i, cs := range sets {
		switch h := cs.Header.(type) {
		case changelog.Unreleased:
			if i == 0 {
				unreleased = 1
			}
		case changelog.ReleaseHeader:
			if _, dup := versions[h.Version]; !dup {
				versions[h.Version] = i
			}
		}
	}
	return versions, unreleased
}

func hasUnreleasedItems(c *changelog.ChangeLog) bool {
	u := c.Unreleased()
	return u != nil && len(u.Items) > 0
}

func insertAt[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return discard
}
