package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {category: Argument, want: "Argument Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"prerequisite":  {category: Prerequisite, want: "Prerequisite Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"unknown":       {category: ErrorCategory(42), want: "Error"},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrapWithMessage_Unwraps(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("disk on fire")
	err := WrapWithMessage(cause, Runtime, "cannot write")
	assert.Equal(t, "cannot write: disk on fire", err.Error())
	assert.True(t, stderrors.Is(err, cause))

	assert.Nil(t, Wrap(nil, Runtime))
	assert.Nil(t, WrapWithMessage(nil, Runtime, "x"))
}

func TestAsCLIError_FindsWrapped(t *testing.T) {
	t.Parallel()

	inner := NewPrerequisiteError("missing")
	wrapped := fmt.Errorf("running sync: %w", inner)

	assert.True(t, IsCLIError(wrapped))
	assert.Same(t, inner, AsCLIError(wrapped))
	assert.False(t, IsCLIError(fmt.Errorf("plain")))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	err := NewArgumentErrorWithUsage("invalid output format: xml", "chg info --format text|yaml", "Valid formats: text, yaml")
	want := "Error [Argument Error]: invalid output format: xml\n" +
		"\n" +
		"Usage: chg info --format text|yaml\n" +
		"\n" +
		"To fix this:\n" +
		"  • Valid formats: text, yaml\n"
	assert.Equal(t, want, FormatErrorPlain(err))
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFprintError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want string
	}{
		"cli error": {
			err:  ChangelogNotFound("CHANGELOG.md"),
			want: "Error [Prerequisite Error]: changelog not found: CHANGELOG.md\n",
		},
		"plain error becomes runtime error": {
			err:  fmt.Errorf("boom"),
			want: "Error [Runtime Error]: boom\n",
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			FprintError(&buf, tt.err, true)
			out := buf.String()
			require.NotEmpty(t, out)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestMessages_Categories(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("cause")
	tests := map[string]struct {
		err  *CLIError
		want ErrorCategory
	}{
		"changelog not found": {err: ChangelogNotFound("x"), want: Prerequisite},
		"changelog exists":    {err: ChangelogExists("x"), want: Argument},
		"parse error":         {err: ChangelogParseError("x", cause, "hint"), want: Runtime},
		"sync failed":         {err: SyncFailed("x", cause), want: Runtime},
		"not a repository":    {err: GitNotRepository("x"), want: Prerequisite},
		"git read failed":     {err: GitReadFailed("x", cause), want: Runtime},
		"config":              {err: ConfigParseError(cause), want: Configuration},
		"output format":       {err: InvalidOutputFormat("xml"), want: Argument},
		"not writable":        {err: FileNotWritable("x", cause), want: Runtime},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Category)
			assert.NotEmpty(t, tt.err.Remediation)
		})
	}
}
