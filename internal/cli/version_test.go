package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ariel-frischer/chg/internal/version"
)

func TestPrintPlainVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printPlainVersion(&buf)

	out := buf.String()
	for _, want := range []string{
		"chg " + version.Version + "\n",
		"commit: " + version.Commit,
		"built: " + version.BuildDate,
		"go: " + version.GoVersion(),
		"platform: " + version.Platform(),
	} {
		assert.Contains(t, out, want)
	}
}

func TestPrintPrettyVersion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printPrettyVersion(&buf)
	assert.Contains(t, buf.String(), version.Short())
	assert.Contains(t, buf.String(), version.Platform())
}
