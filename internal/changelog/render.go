package changelog

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown writes the changelog as markdown: the prolog, every
// changeset in order, then the epilog. The output is the exact inverse of
// the parser grammar, so parsing it yields an equivalent model.
//
// The function is idempotent - given the same model, it produces identical output.
// Notes that would parse back as sections or items fail with ErrNotRenderable.
func RenderMarkdown(c *ChangeLog, w io.Writer) error {
	if err := checkNotes(c); err != nil {
		return err
	}

	var buf bytes.Buffer

	if c.Prolog != "" {
		buf.WriteString(c.Prolog)
		buf.WriteString("\n\n")
	}

	for _, cs := range c.Changesets {
		if err := renderChangeSet(&buf, cs); err != nil {
			return fmt.Errorf("rendering section %s: %w", cs.Title(), err)
		}
	}

	if c.Epilog != "" {
		if buf.Len() > 0 && !bytes.HasSuffix(buf.Bytes(), []byte("\n\n")) {
			buf.WriteString("\n")
		}
		buf.WriteString(c.Epilog)
		buf.WriteString("\n")
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// checkNotes rejects notes the parser would not read back as notes: a
// prolog line opening a section, an epilog without a section to follow, or
// an epilog starting with a section or item line.
func checkNotes(c *ChangeLog) error {
	for _, line := range strings.Split(c.Prolog, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "## ") {
			return fmt.Errorf("%w: prolog line %q opens a section", ErrNotRenderable, line)
		}
	}

	if c.Epilog == "" {
		return nil
	}
	if len(c.Changesets) == 0 {
		return fmt.Errorf("%w: epilog without any section", ErrNotRenderable)
	}
	for _, line := range strings.Split(c.Epilog, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, prefix := range []string{"## ", "- ", "* "} {
			if strings.HasPrefix(line, prefix) {
				return fmt.Errorf("%w: epilog starts with %q", ErrNotRenderable, line)
			}
		}
		break
	}
	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(c *ChangeLog) (string, error) {
	var b strings.Builder
	if err := RenderMarkdown(c, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// renderChangeSet writes one section: the header line and, when there are
// items, a blank line, the item lines and a trailing blank line.
func renderChangeSet(buf *bytes.Buffer, cs ChangeSet) error {
	header, err := FormatHeader(cs.Header)
	if err != nil {
		return err
	}
	buf.WriteString("## ")
	buf.WriteString(header)
	buf.WriteString("\n")

	if len(cs.Items) == 0 {
		return nil
	}

	buf.WriteString("\n")
	for _, item := range cs.Items {
		buf.WriteString("- ")
		buf.WriteString(FormatItem(item))
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
	return nil
}

// FormatHeader returns the section header text without the leading "## ".
func FormatHeader(h Header) (string, error) {
	switch h := h.(type) {
	case Unreleased:
		return "Unreleased", nil
	case ReleaseHeader:
		s := h.Version + " - " + h.Date.Format(DateLayout)
		if h.Yanked {
			s += " [YANKED]"
		}
		return s, nil
	default:
		return "", fmt.Errorf("unknown section header type %T", h)
	}
}

// FormatItem returns the item line body without the leading "- ".
func FormatItem(item ChangeItem) string {
	var sb strings.Builder
	if len(item.Refs) > 0 {
		sb.WriteString(strings.Join(item.Refs, ", "))
		sb.WriteString(": ")
	}
	if item.Component != "" {
		sb.WriteString("[")
		sb.WriteString(item.Component)
		sb.WriteString("] ")
	}
	sb.WriteString(item.Text)
	sb.WriteString(" / ")
	sb.WriteString(strings.Join(item.Authors, ", "))
	return sb.String()
}
