package changelog

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseHeader(t *testing.T) {
	g := NewGrammar()

	tests := map[string]struct {
		input string
		want  Header
	}{
		"unreleased": {
			input: "Unreleased",
			want:  Unreleased{},
		},
		"unreleased lowercase with spaces": {
			input: "  unreleased ",
			want:  Unreleased{},
		},
		"release with separator": {
			input: "2.5.6 - 2020-12-10",
			want:  ReleaseHeader{Version: "2.5.6", Date: date(2020, 12, 10)},
		},
		"release without separator, yanked": {
			input: "1.22.333-alpha-1 2021-04-20 YANKED",
			want:  ReleaseHeader{Version: "1.22.333-alpha-1", Date: date(2021, 4, 20), Yanked: true},
		},
		"rendered yanked marker": {
			input: "1.0.0 - 2021-01-02 [YANKED]",
			want:  ReleaseHeader{Version: "1.0.0", Date: date(2021, 1, 2), Yanked: true},
		},
		"yanked lowercase": {
			input: "1.2.333 2020-04-20 yanked",
			want:  ReleaseHeader{Version: "1.2.333", Date: date(2020, 4, 20), Yanked: true},
		},
		"trailing noise is not yanked": {
			input: "1.2.3-alpha-1 1972-05-31 noise",
			want:  ReleaseHeader{Version: "1.2.3-alpha-1", Date: date(1972, 5, 31)},
		},
		"date embedded at end of token": {
			input: "1.0 released-2020-01-05",
			want:  ReleaseHeader{Version: "1.0", Date: date(2020, 1, 5)},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := g.ParseHeader(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseHeader_Errors(t *testing.T) {
	g := NewGrammar()

	t.Run("invalid version id", func(t *testing.T) {
		_, err := g.ParseHeader("blahblah whatever nonsense")
		var target *InvalidVersionIDError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "blahblah", target.Token)
		assert.Equal(t, "blahblah whatever nonsense", target.Header)
	})

	t.Run("invalid timestamp", func(t *testing.T) {
		_, err := g.ParseHeader("1.2.3-alpha-1 whatever nonsense")
		var target *InvalidTimestampError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "whatever", target.Text)
		assert.Equal(t, "1.2.3-alpha-1 whatever nonsense", target.Header)
	})

	t.Run("out of range date", func(t *testing.T) {
		_, err := g.ParseHeader("1.0.0 - 2020-13-45")
		var target *InvalidTimestampError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "2020-13-45", target.Text)
	})

	t.Run("missing separator", func(t *testing.T) {
		_, err := g.ParseHeader("1.0.0")
		var target *MissingVersionDateSeparatorError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, "1.0.0", target.Header)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		_, err := g.ParseHeader("1.0.0 -")
		var target *MissingTimestampError
		require.ErrorAs(t, err, &target)
	})
}

func TestParseItem(t *testing.T) {
	g := NewGrammar()

	tests := map[string]struct {
		line string
		want ChangeItem
	}{
		"refs, component, text and author": {
			line: "- PR#629: [java] parse the UUID of mojo. close #628 / Qiang Kou",
			want: ChangeItem{
				Refs:      []string{"PR#629"},
				Component: "java",
				Text:      "parse the UUID of mojo. close #628",
				Authors:   []string{"Qiang Kou"},
			},
		},
		"component only": {
			line: "- [HOTFIX] :fire: Wrong grep expression in our Jenkinsfile / mmalohlava",
			want: ChangeItem{
				Component: "HOTFIX",
				Text:      ":fire: Wrong grep expression in our Jenkinsfile",
				Authors:   []string{"mmalohlava"},
			},
		},
		"star bullet, several refs and authors": {
			line: "* PR#979, #977: not throw exception / Alice, Bob ",
			want: ChangeItem{
				Refs:    []string{"PR#979", "#977"},
				Text:    "not throw exception",
				Authors: []string{"Alice", "Bob"},
			},
		},
		"hash-led reference": {
			line: "- #45: fix the thing / Carol",
			want: ChangeItem{
				Refs:    []string{"#45"},
				Text:    "fix the thing",
				Authors: []string{"Carol"},
			},
		},
		"text with slashes uses last slash": {
			line: "- support a/b paths / Dave",
			want: ChangeItem{
				Text:    "support a/b paths",
				Authors: []string{"Dave"},
			},
		},
		"no authors": {
			line: "- something /",
			want: ChangeItem{Text: "something"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok, err := g.ParseItem(tt.line)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, ChangeOther, got.Type)
		})
	}
}

func TestParseItem_NotAnItem(t *testing.T) {
	g := NewGrammar()
	for _, line := range []string{"Some note", "-no space", "# Title", "+ plus"} {
		_, ok, err := g.ParseItem(line)
		require.NoError(t, err, line)
		assert.False(t, ok, line)
	}
}

func TestParseItem_Malformed(t *testing.T) {
	g := NewGrammar()
	_, ok, err := g.ParseItem("- an item without authors")
	assert.True(t, ok)
	var target *InvalidItemError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, "- an item without authors", target.Text)
}

func TestParseString(t *testing.T) {
	g := NewGrammar()

	input := `# Changelog

All notable changes.

## Unreleased

- PR#12: [cli] add sync / Alice

## 1.1.0 - 2021-03-04 [YANKED]

- #7: fix crash / Bob
* typo / Carol

## 1.0.0 - 2021-01-01
## 0.9.0 - 2020-12-01

- first / Dave
Trailing notes start here
## 0.1.0 - 2020-01-01
- not an item anymore
`
	log, err := g.ParseString(input)
	require.NoError(t, err)

	assert.Equal(t, "# Changelog\nAll notable changes.", log.Prolog)
	assert.Equal(t, "Trailing notes start here\n## 0.1.0 - 2020-01-01\n- not an item anymore", log.Epilog)

	require.Len(t, log.Changesets, 4)
	assert.True(t, log.Changesets[0].IsUnreleased())
	assert.Len(t, log.Changesets[0].Items, 1)

	rh, ok := log.Changesets[1].Release()
	require.True(t, ok)
	assert.Equal(t, "1.1.0", rh.Version)
	assert.True(t, rh.Yanked)
	assert.Empty(t, rh.Tag)
	assert.Len(t, log.Changesets[1].Items, 2)

	assert.Equal(t, "1.0.0", log.Changesets[2].Title())
	assert.Empty(t, log.Changesets[2].Items)
	assert.Equal(t, "0.9.0", log.Changesets[3].Title())
	assert.Len(t, log.Changesets[3].Items, 1)
}

func TestParseString_Permissive(t *testing.T) {
	g := NewGrammar()

	tests := map[string]struct {
		input  string
		prolog string
	}{
		"blank document": {input: " ", prolog: ""},
		"garbage":        {input: "#ABCD", prolog: "#ABCD"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			log, err := g.ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.prolog, log.Prolog)
			assert.Empty(t, log.Changesets)
		})
	}
}

func TestParseString_Errors(t *testing.T) {
	g := NewGrammar()

	tests := map[string]struct {
		input  string
		check  func(t *testing.T, err error)
	}{
		"invalid version id": {
			input: "# Changelog\n## blahblah whatever nonsense\n",
			check: func(t *testing.T, err error) {
				var target *InvalidVersionIDError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "blahblah", target.Token)
				assert.Contains(t, err.Error(), "line 2")
			},
		},
		"invalid timestamp": {
			input: "# Changelog\n## 1.2.3-alpha-1 whatever nonsense\n",
			check: func(t *testing.T, err error) {
				var target *InvalidTimestampError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, "whatever", target.Text)
			},
		},
		"malformed item aborts the parse": {
			input: "## Unreleased\n\n- ok / A\n- broken item\n",
			check: func(t *testing.T, err error) {
				var target *InvalidItemError
				require.ErrorAs(t, err, &target)
				assert.Equal(t, 4, target.Line)
				assert.True(t, IsParseError(err))
			},
		},
		"unterminated config block": {
			input: "<!-- CHANGELOG-CONFIG\n[git]\n## Unreleased\n",
			check: func(t *testing.T, err error) {
				var target *ConfigError
				require.ErrorAs(t, err, &target)
				assert.False(t, IsParseError(err))
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			log, err := g.ParseString(tt.input)
			require.Error(t, err)
			assert.Nil(t, log)
			tt.check(t, err)
		})
	}
}

func TestParseString_EmbeddedConfig(t *testing.T) {
	g := NewGrammar()
	input := `# Changelog
<!-- CHANGELOG-CONFIG
[git]
tag_version_pattern = "release-*"

[keys]
pr_key = "PR#NUMBER"
pr_link = "https://example.com/pull/NUMBER"
-->

## Unreleased
`
	log, err := g.ParseString(input)
	require.NoError(t, err)
	assert.Equal(t, "release-*", log.Config.Git.TagVersionPattern)
	assert.Equal(t, "https://example.com/pull/NUMBER", log.Config.Keys.PRLink)
	assert.True(t, strings.HasPrefix(log.Prolog, "# Changelog\n<!-- CHANGELOG-CONFIG"))
	require.Len(t, log.Changesets, 1)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewGrammar().Load("/nonexistent/CHANGELOG.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "reading changelog file")
}
