package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var (
	headerColor = color.New(color.Bold)
	yankedColor = color.New(color.FgRed, color.Bold)
	refColor    = color.New(color.FgCyan)
	compoColor  = color.New(color.FgYellow)
	authorColor = color.New(color.Faint)
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes a summary of every changeset followed by its items.
// References are followed by their link when the changelog config resolves them.
func FormatTerminal(c *ChangeLog, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i, cs := range c.Changesets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeChangeSetSummary(cs, w, opts); err != nil {
			return fmt.Errorf("formatting section %s: %w", cs.Title(), err)
		}
		for _, item := range cs.Items {
			if err := writeItem(item, c.Config, w, opts, width); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeChangeSetSummary writes "<date> version <v>[ (YANKED!)]: <n> items".
func writeChangeSetSummary(cs ChangeSet, w io.Writer, opts FormatOptions) error {
	var title, flag string
	switch h := cs.Header.(type) {
	case Unreleased:
		title = "Unreleased"
	case ReleaseHeader:
		title = fmt.Sprintf("%s version %s", h.Date.Format(DateLayout), h.Version)
		if h.Yanked {
			flag = " (YANKED!)"
		}
	default:
		return fmt.Errorf("unknown section header type %T", h)
	}
	count := fmt.Sprintf(": %d %s", len(cs.Items), pluralize(len(cs.Items), "item", "items"))

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s%s\n", title, flag, count)
		return err
	}
	_, err := fmt.Fprintf(w, "%s%s%s\n", headerColor.Sprint(title), yankedColor.Sprint(flag), count)
	return err
}

// writeItem writes "* <refs>: [<component>] <text> (<authors>)" with optional wrapping.
func writeItem(item ChangeItem, cfg Config, w io.Writer, opts FormatOptions, width int) error {
	const prefix = "* "

	refs := make([]string, len(item.Refs))
	for i, ref := range item.Refs {
		if !opts.Plain {
			refs[i] = refColor.Sprint(ref)
		} else {
			refs[i] = ref
		}
		if url, ok := cfg.RefURL(ref); ok {
			refs[i] += " <" + url + ">"
		}
	}

	var sb strings.Builder
	if len(refs) > 0 {
		sb.WriteString(strings.Join(refs, ", "))
		sb.WriteString(": ")
	}
	if item.Component != "" {
		compo := "[" + item.Component + "]"
		if !opts.Plain {
			compo = compoColor.Sprint(compo)
		}
		sb.WriteString(compo)
		sb.WriteString(" ")
	}

	if opts.Plain {
		sb.WriteString(item.Text)
	} else {
		sb.WriteString(wrapText(item.Text, width-len(prefix), "  "))
	}

	if len(item.Authors) > 0 {
		authors := "(" + strings.Join(item.Authors, ", ") + ")"
		if !opts.Plain {
			authors = authorColor.Sprint(authors)
		}
		sb.WriteString(" ")
		sb.WriteString(authors)
	}

	_, err := fmt.Fprintf(w, "%s%s\n", prefix, sb.String())
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
