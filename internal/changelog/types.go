package changelog

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used in release section headers.
const DateLayout = "2006-01-02"

// ChangeLog represents an entire changelog document.
// Changesets are ordered newest first; only the first one may be Unreleased.
type ChangeLog struct {
	// Prolog holds the note lines found before the first section header.
	Prolog string
	// Changesets holds the sections, newest first.
	Changesets []ChangeSet
	// Epilog holds the lines following the first non-item line inside a section.
	Epilog string
	// Meta is an opaque key/value mapping carried along with the document.
	Meta map[string]string
	// Config is the embedded configuration found in the document (or defaults).
	Config Config
}

// ChangeSet is one section of the changelog: a header plus its items.
type ChangeSet struct {
	Header Header
	Items  []ChangeItem
}

// Header identifies a changeset. It is either Unreleased or ReleaseHeader.
type Header interface {
	isHeader()
}

// Unreleased marks the in-progress section at the top of the changelog.
type Unreleased struct{}

func (Unreleased) isHeader() {}

// ReleaseHeader describes a published (or yanked) release.
type ReleaseHeader struct {
	// Version is the release identifier, e.g. "1.2.3".
	Version string
	// Tag is the VCS tag the version was derived from. Empty when parsed from markdown.
	Tag string
	// Date is the release calendar date, at midnight UTC.
	Date time.Time
	// Yanked marks a release withdrawn after publication.
	Yanked bool
}

func (ReleaseHeader) isHeader() {}

// NewRelease derives a release header from a tag by stripping its non-digit prefix.
// It returns false when the tag contains no digit at all.
func NewRelease(tag string, date time.Time, yanked bool) (ReleaseHeader, bool) {
	version := VersionFromTag(tag)
	if version == "" {
		return ReleaseHeader{}, false
	}
	return ReleaseHeader{
		Version: version,
		Tag:     tag,
		Date:    CalendarDate(date),
		Yanked:  yanked,
	}, true
}

// VersionFromTag strips everything before the first ASCII digit ("v1.2" -> "1.2").
// Returns empty string when there is no digit.
func VersionFromTag(tag string) string {
	i := strings.IndexFunc(tag, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return ""
	}
	return tag[i:]
}

// CalendarDate truncates t to its calendar date in t's own location,
// returned as midnight UTC so that dates compare with ==.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ChangeItem is a single line of change.
type ChangeItem struct {
	// Refs are reference tokens such as "PR#12" or "#45", in order.
	Refs []string `yaml:"refs,omitempty"`
	// Type classifies the change; produced output always uses ChangeOther.
	Type ChangeType `yaml:"type"`
	// Component is an optional short subsystem tag, empty if absent.
	Component string `yaml:"component,omitempty"`
	// Text is the human-readable description.
	Text string `yaml:"text"`
	// Authors are display names, in order.
	Authors []string `yaml:"authors,omitempty"`
}

// ChangeType classifies a change item.
type ChangeType int

const (
	ChangeOther ChangeType = iota
	ChangeAdded
	ChangeFixed
	ChangeChanged
	ChangeDeprecated
	ChangeRemoved
	ChangeRefactored
)

var changeTypeNames = []string{"other", "added", "fixed", "changed", "deprecated", "removed", "refactored"}

// String returns the lowercase name of the change type.
func (t ChangeType) String() string {
	if t < 0 || int(t) >= len(changeTypeNames) {
		return "other"
	}
	return changeTypeNames[t]
}

// ParseChangeType maps a name (case-insensitive) back to its ChangeType.
func ParseChangeType(s string) (ChangeType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range changeTypeNames {
		if n == name {
			return ChangeType(i), nil
		}
	}
	return ChangeOther, fmt.Errorf("unknown change type %q (valid: %s)", s, strings.Join(changeTypeNames, ", "))
}

// Clone returns a deep copy of the item.
func (i ChangeItem) Clone() ChangeItem {
	c := i
	c.Refs = cloneStrings(i.Refs)
	c.Authors = cloneStrings(i.Authors)
	return c
}

// Clone returns a deep copy of the changeset.
func (cs ChangeSet) Clone() ChangeSet {
	c := ChangeSet{Header: cs.Header}
	if cs.Items != nil {
		c.Items = make([]ChangeItem, len(cs.Items))
		for i, item := range cs.Items {
			c.Items[i] = item.Clone()
		}
	}
	return c
}

// IsUnreleased returns true if this changeset is the Unreleased section.
func (cs ChangeSet) IsUnreleased() bool {
	_, ok := cs.Header.(Unreleased)
	return ok
}

// Release returns the release header, or false for Unreleased.
func (cs ChangeSet) Release() (ReleaseHeader, bool) {
	rh, ok := cs.Header.(ReleaseHeader)
	return rh, ok
}

// Title returns a short label for the changeset, used in logs and messages.
func (cs ChangeSet) Title() string {
	switch h := cs.Header.(type) {
	case Unreleased:
		return "Unreleased"
	case ReleaseHeader:
		return h.Version
	default:
		return "?"
	}
}

// Clone returns a deep copy of the changelog.
func (c *ChangeLog) Clone() *ChangeLog {
	out := &ChangeLog{
		Prolog: c.Prolog,
		Epilog: c.Epilog,
		Config: c.Config,
	}
	if c.Changesets != nil {
		out.Changesets = make([]ChangeSet, len(c.Changesets))
		for i, cs := range c.Changesets {
			out.Changesets[i] = cs.Clone()
		}
	}
	if c.Meta != nil {
		out.Meta = make(map[string]string, len(c.Meta))
		for k, v := range c.Meta {
			out.Meta[k] = v
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
