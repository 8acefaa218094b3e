// Package commitmsg classifies free-form commit messages into typed events:
// contributions, releases, post-release version bumps and reverts.
//
// The classification rules are compiled once into an Analyzer, which is
// immutable and can be shared by any number of importers.
package commitmsg

import (
	"regexp"
	"strings"
)

// DefaultComponent is the component of contributions that carry no pull request reference.
const DefaultComponent = "N/A"

const revertPrefix = `Revert "`

// Message is the classified form of a commit message. It is one of
// Contribution, Release, PostRelease or Revert.
type Message interface {
	isMessage()
}

// Contribution is a regular commit that contributes to the code.
type Contribution struct {
	// Component is the best component name candidate.
	Component string
	// Refs are references to pull requests and issues, e.g. "PR#12", "#7".
	Refs []string
	// Subject is the one-line summary.
	Subject string
	// Details holds the remaining message lines.
	Details string
}

// Release records a release action, e.g. "Release 1.2.3" or "[BUILD] Released version 1.2.3".
type Release struct {
	Version string
}

// PostRelease switches the project back to a development version after a release.
// The default rules never produce it; see Rules.PostRelease.
type PostRelease struct {
	// RefVersion is the referenced version: next snapshot, next or previous
	// version, depending on the project's tooling.
	RefVersion string
}

// Revert counteracts an earlier commit using git's default revert message.
type Revert struct {
	OrigMessage string
}

func (Contribution) isMessage() {}
func (Release) isMessage()      {}
func (PostRelease) isMessage()  {}
func (Revert) isMessage()       {}

// Rules are the patterns the Analyzer applies, in this order: release,
// post-release, pull request merge commit, pull request squash, close fragment.
type Rules struct {
	Release     *regexp.Regexp
	PostRelease *regexp.Regexp // optional; nil disables post-release detection
	MergeCommit *regexp.Regexp
	SquashMerge *regexp.Regexp
	CloseIssue  *regexp.Regexp
}

// DefaultRules returns the rule set for GitHub style histories. A release
// commit starts with "Release 1.2.3", optionally after a "[TAG]" prefix.
func DefaultRules() Rules {
	return Rules{
		Release:     regexp.MustCompile(`(?i)^(?:\[[^\]]+\]\s*)?released?\s+(?:version\s+)?v?(\d[0-9.\-]*)`),
		MergeCommit: regexp.MustCompile(`Merge pull request #(\d+) from (.*)`),
		SquashMerge: regexp.MustCompile(`^(.*) \(#(\d+)\)$`),
		CloseIssue:  regexp.MustCompile(`(?i)\.?\s*\bclose[sd]?\s*#\s*(\d+)`),
	}
}

// Analyzer classifies commit messages.
type Analyzer struct {
	rules Rules
}

// NewAnalyzer creates an analyzer with the default rules.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithRules(DefaultRules())
}

// NewAnalyzerWithRules creates an analyzer with a custom rule set.
func NewAnalyzerWithRules(rules Rules) *Analyzer {
	return &Analyzer{rules: rules}
}

// Analyze classifies one commit message.
func (a *Analyzer) Analyze(msg string) Message {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return Contribution{}
	}

	if len(msg) > len(revertPrefix) && strings.HasPrefix(msg, revertPrefix) && strings.HasSuffix(msg, `"`) {
		return Revert{OrigMessage: msg[len(revertPrefix) : len(msg)-1]}
	}

	lines := strings.Split(msg, "\n")
	firstLine := strings.TrimSpace(lines[0])
	rest := lines[1:]

	if m := a.rules.Release.FindStringSubmatch(firstLine); m != nil {
		if version := strings.TrimRight(m[1], ".-"); version != "" {
			return Release{Version: version}
		}
	}

	if a.rules.PostRelease != nil {
		if m := a.rules.PostRelease.FindStringSubmatch(firstLine); m != nil && len(m) > 1 {
			return PostRelease{RefVersion: m[1]}
		}
	}

	if pr, subject, details, ok := a.detectPullRequest(firstLine, rest); ok {
		refs := []string{"PR#" + pr}
		subject, issues := a.extractClosedIssues(subject)
		for _, issue := range issues {
			refs = append(refs, "#"+issue)
		}
		return Contribution{
			Refs:    refs,
			Subject: subject,
			Details: details,
		}
	}

	return Contribution{
		Component: DefaultComponent,
		Subject:   firstLine,
		Details:   joinDetails(rest),
	}
}

// detectPullRequest finds the PR number and the clean subject.
func (a *Analyzer) detectPullRequest(firstLine string, rest []string) (pr, subject, details string, ok bool) {
	if m := a.rules.MergeCommit.FindStringSubmatch(firstLine); m != nil {
		// the first non-blank line after the merge line is the PR title
		for i, line := range rest {
			if strings.TrimSpace(line) != "" {
				return m[1], strings.TrimSpace(line), joinDetails(rest[i+1:]), true
			}
		}
		return m[1], firstLine, "", true
	}
	if m := a.rules.SquashMerge.FindStringSubmatch(firstLine); m != nil {
		return m[2], strings.TrimSpace(m[1]), joinDetails(rest), true
	}
	return "", "", "", false
}

// extractClosedIssues strips "close #N" fragments from subject and returns the issue numbers.
func (a *Analyzer) extractClosedIssues(subject string) (string, []string) {
	matches := a.rules.CloseIssue.FindAllStringSubmatch(subject, -1)
	if matches == nil {
		return subject, nil
	}
	issues := make([]string, 0, len(matches))
	for _, m := range matches {
		issues = append(issues, m[1])
	}
	return strings.TrimSpace(a.rules.CloseIssue.ReplaceAllString(subject, "")), issues
}

func joinDetails(lines []string) string {
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
