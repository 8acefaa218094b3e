package commitmsg

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := map[string]struct {
		msg  string
		want Message
	}{
		"empty message": {
			msg:  "  \n ",
			want: Contribution{},
		},
		"revert": {
			msg:  `Revert "Some ultracool stuff"`,
			want: Revert{OrigMessage: "Some ultracool stuff"},
		},
		"revert without closing quote is a contribution": {
			msg:  `Revert "Some ultracool stuff`,
			want: Contribution{Component: DefaultComponent, Subject: `Revert "Some ultracool stuff`},
		},
		"merge commit": {
			msg: "Merge pull request #1234 from pk/some-pr-branch\n\nHere is the PR title",
			want: Contribution{
				Refs:    []string{"PR#1234"},
				Subject: "Here is the PR title",
			},
		},
		"merge commit with details": {
			msg: "Merge pull request #7 from a/b\n\nTitle\n\nmore words\nand more",
			want: Contribution{
				Refs:    []string{"PR#7"},
				Subject: "Title",
				Details: "more words\nand more",
			},
		},
		"merge commit without title": {
			msg: "Merge pull request #1234 from pk/some-pr-branch",
			want: Contribution{
				Refs:    []string{"PR#1234"},
				Subject: "Merge pull request #1234 from pk/some-pr-branch",
			},
		},
		"squash merge": {
			msg: "[cpp] disable tree shap computing when tree model doesn't use input features (#1073)",
			want: Contribution{
				Refs:    []string{"PR#1073"},
				Subject: "[cpp] disable tree shap computing when tree model doesn't use input features",
			},
		},
		"squash merge closing an issue": {
			msg: "[py] not throw exception in destructor. close# 977 (#979)",
			want: Contribution{
				Refs:    []string{"PR#979", "#977"},
				Subject: "[py] not throw exception in destructor",
			},
		},
		"closes several issues": {
			msg: "fix parser Closes #1, closes #2 (#3)",
			want: Contribution{
				Refs:    []string{"PR#3", "#1", "#2"},
				Subject: "fix parser,",
			},
		},
		"release": {
			msg:  "[BUILD] Release v2.5.0",
			want: Release{Version: "2.5.0"},
		},
		"released version": {
			msg:  "[BUILD] Released version 1.2.3-1\n\nnotes",
			want: Release{Version: "1.2.3-1"},
		},
		"release wins over squash": {
			msg:  "Release 3.0 (#50)",
			want: Release{Version: "3.0"},
		},
		"release mentioned mid-sentence in squash": {
			msg: "Fix crash after release 2 (#12)",
			want: Contribution{
				Refs:    []string{"PR#12"},
				Subject: "Fix crash after release 2",
			},
		},
		"release notes squash": {
			msg: "Prepare release 3 notes (#44)",
			want: Contribution{
				Refs:    []string{"PR#44"},
				Subject: "Prepare release 3 notes",
			},
		},
		"release mentioned in plain commit": {
			msg: "document how to release 1.x branches",
			want: Contribution{
				Component: DefaultComponent,
				Subject:   "document how to release 1.x branches",
			},
		},
		"plain commit": {
			msg: "tidy up docs\n\nlonger description",
			want: Contribution{
				Component: DefaultComponent,
				Subject:   "tidy up docs",
				Details:   "longer description",
			},
		},
		"close without pull request stays in subject": {
			msg: "fix crash, close #12",
			want: Contribution{
				Component: DefaultComponent,
				Subject:   "fix crash, close #12",
			},
		},
	}

	analyzer := NewAnalyzer()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.Analyze(tt.msg))
		})
	}
}

func TestAnalyze_PostReleaseRule(t *testing.T) {
	assert.IsType(t, Contribution{}, NewAnalyzer().Analyze("Prepare next development version 1.3.0-SNAPSHOT"))

	rules := DefaultRules()
	rules.PostRelease = regexp.MustCompile(`(?i)next development version (\S+)`)
	analyzer := NewAnalyzerWithRules(rules)

	assert.Equal(t,
		PostRelease{RefVersion: "1.3.0-SNAPSHOT"},
		analyzer.Analyze("Prepare next development version 1.3.0-SNAPSHOT"))
}
