package progress

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode terminal": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii fallback": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestDetectTerminalCapabilities_NotATerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	caps := DetectTerminalCapabilities(f)
	assert.Equal(t, TerminalCapabilities{}, caps)
	assert.Equal(t, TerminalCapabilities{}, DetectTerminalCapabilities(nil))
}

func TestIndicator_NonInteractive(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		run  func(*Indicator)
		want string
	}{
		"done with detail": {
			run:  func(i *Indicator) { i.Done("12 commits") },
			want: "[OK] Importing history (12 commits)\n",
		},
		"fail without detail": {
			run:  func(i *Indicator) { i.Fail("") },
			want: "[FAIL] Importing history\n",
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			ind := NewIndicator(&buf, TerminalCapabilities{})
			ind.Start("Importing history")
			tt.run(ind)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
