package changelog

import "fmt"

// Unreleased returns the Unreleased changeset at index 0, or nil if there is none.
func (c *ChangeLog) Unreleased() *ChangeSet {
	if len(c.Changesets) > 0 && c.Changesets[0].IsUnreleased() {
		return &c.Changesets[0]
	}
	return nil
}

// HasUnreleased returns true if the changelog starts with an Unreleased section.
func (c *ChangeLog) HasUnreleased() bool {
	return c.Unreleased() != nil
}

// Releases returns the release headers in document order (newest first).
func (c *ChangeLog) Releases() []ReleaseHeader {
	var releases []ReleaseHeader
	for _, cs := range c.Changesets {
		if rh, ok := cs.Release(); ok {
			releases = append(releases, rh)
		}
	}
	return releases
}

// LatestRelease returns the most recent release header.
// Returns false if there are no released versions.
func (c *ChangeLog) LatestRelease() (ReleaseHeader, bool) {
	for _, cs := range c.Changesets {
		if rh, ok := cs.Release(); ok {
			return rh, true
		}
	}
	return ReleaseHeader{}, false
}

// FindRelease returns the changeset index of the given version, or -1.
func (c *ChangeLog) FindRelease(version string) int {
	for i, cs := range c.Changesets {
		if rh, ok := cs.Release(); ok && rh.Version == version {
			return i
		}
	}
	return -1
}

// ItemCount returns the total number of items across all changesets.
func (c *ChangeLog) ItemCount() int {
	count := 0
	for _, cs := range c.Changesets {
		count += len(cs.Items)
	}
	return count
}

// Validate checks the document invariant: at most one Unreleased changeset,
// and only at index 0.
func (c *ChangeLog) Validate() error {
	for i, cs := range c.Changesets {
		if i > 0 && cs.IsUnreleased() {
			return fmt.Errorf("unreleased section found at index %d; it may only be the first section", i)
		}
	}
	return nil
}
