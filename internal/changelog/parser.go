package changelog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Grammar holds the compiled line rules of the markdown changelog format.
// Build it once with NewGrammar and share it; it is immutable and safe for
// concurrent use.
type Grammar struct {
	item      *regexp.Regexp
	timestamp *regexp.Regexp
}

// NewGrammar compiles the section header and item line rules.
func NewGrammar() *Grammar {
	return &Grammar{
		item:      regexp.MustCompile(`((?P<refs>[\w#].*?):)?\s*(?P<compo>\[\S+\])?\s*(?P<text>.*)/(?P<authors>.*)$`),
		timestamp: regexp.MustCompile(`(\d+-\d+-\d+)$`),
	}
}

type parserState int

const (
	stateProlog parserState = iota
	stateSection
	stateEpilog
)

// Load reads and parses a markdown changelog file.
func (g *Grammar) Load(path string) (*ChangeLog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}
	return g.ParseString(string(data))
}

// Parse reads a whole markdown changelog from r.
func (g *Grammar) Parse(r io.Reader) (*ChangeLog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}
	return g.ParseString(string(data))
}

// ParseString parses markdown changelog text into a ChangeLog.
// The embedded config block, if any, is read first. Any grammar error aborts
// the parse; no partial result is returned.
func (g *Grammar) ParseString(text string) (*ChangeLog, error) {
	cfg, err := ParseEmbeddedConfig(text)
	if err != nil {
		return nil, err
	}

	b := newBuilder()
	state := stateProlog

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if state != stateEpilog && strings.HasPrefix(line, "## ") {
			header, err := g.ParseHeader(line[3:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			b.section(header)
			state = stateSection
			continue
		}

		if state == stateSection {
			item, ok, err := g.ParseItem(line)
			if err != nil {
				var itemErr *InvalidItemError
				if errors.As(err, &itemErr) {
					itemErr.Line = lineNo
				}
				return nil, err
			}
			if ok {
				b.item(item)
				continue
			}
			state = stateEpilog
		}
		b.note(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning changelog: %w", err)
	}

	log := b.build()
	log.Config = cfg
	return log, nil
}

// ParseHeader parses the text of a "## " section header.
//
// Accepted forms:
//
//	Unreleased
//	1.2.123 - 2020-04-20
//	1.2.3-1 2020-04-20
//	1.2.333 2020-04-20 yanked
func (g *Grammar) ParseHeader(s string) (Header, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "unreleased") {
		return Unreleased{}, nil
	}

	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return nil, &InvalidVersionIDError{Token: "", Header: s}
	}

	version := tokens[0]
	if version[0] < '0' || version[0] > '9' {
		return nil, &InvalidVersionIDError{Token: version, Header: s}
	}
	if len(tokens) < 2 {
		return nil, &MissingVersionDateSeparatorError{Header: s}
	}

	candidate := tokens[1]
	rest := tokens[2:]
	if candidate == "-" {
		if len(tokens) < 3 {
			return nil, &MissingTimestampError{Header: s}
		}
		candidate = tokens[2]
		rest = tokens[3:]
	}

	date, err := g.parseDate(candidate, s)
	if err != nil {
		return nil, err
	}

	yanked := false
	for _, tok := range rest {
		if strings.Contains(strings.ToUpper(tok), "YANKED") {
			yanked = true
			break
		}
	}

	return ReleaseHeader{
		Version: version,
		Date:    date,
		Yanked:  yanked,
	}, nil
}

// parseDate extracts a trailing YYYY-MM-DD date from token.
func (g *Grammar) parseDate(token, header string) (time.Time, error) {
	m := g.timestamp.FindStringSubmatch(token)
	if m == nil {
		return time.Time{}, &InvalidTimestampError{Text: token, Header: header, Reason: "no YYYY-MM-DD date found"}
	}

	parts := strings.Split(m[1], "-")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, &InvalidTimestampError{Text: m[1], Header: header, Reason: err.Error()}
		}
		nums[i] = n
	}

	date := time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)
	if date.Year() != nums[0] || int(date.Month()) != nums[1] || date.Day() != nums[2] {
		return time.Time{}, &InvalidTimestampError{Text: m[1], Header: header, Reason: "date out of range"}
	}
	return date, nil
}

// ParseItem parses one item line. It returns ok=false when the line does not
// start with "- " or "* " and so is not an item at all. A line with the item
// prefix but the wrong shape is an *InvalidItemError.
func (g *Grammar) ParseItem(line string) (ChangeItem, bool, error) {
	if !strings.HasPrefix(line, "- ") && !strings.HasPrefix(line, "* ") {
		return ChangeItem{}, false, nil
	}
	body := line[2:]

	m := g.item.FindStringSubmatch(body)
	if m == nil {
		return ChangeItem{}, true, &InvalidItemError{Text: line}
	}

	item := ChangeItem{Type: ChangeOther}
	if refs := m[g.item.SubexpIndex("refs")]; refs != "" {
		item.Refs = splitList(refs)
	}
	if compo := m[g.item.SubexpIndex("compo")]; compo != "" {
		item.Component = compo[1 : len(compo)-1]
	}
	item.Text = strings.TrimSpace(m[g.item.SubexpIndex("text")])
	item.Authors = splitList(m[g.item.SubexpIndex("authors")])
	return item, true, nil
}

// splitList splits a comma separated list, trimming entries and dropping empty ones.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// builder accumulates sections and notes while parsing or importing.
type builder struct {
	prolog  []string
	epilog  []string
	current *ChangeSet
	sets    []ChangeSet
}

func newBuilder() *builder {
	return &builder{}
}

func (b *builder) section(h Header) {
	b.closeSection()
	b.current = &ChangeSet{Header: h}
}

func (b *builder) closeSection() {
	if b.current != nil {
		b.sets = append(b.sets, *b.current)
		b.current = nil
	}
}

func (b *builder) item(item ChangeItem) {
	b.current.Items = append(b.current.Items, item)
}

func (b *builder) note(line string) {
	b.closeSection()
	if len(b.sets) == 0 {
		b.prolog = append(b.prolog, line)
	} else {
		b.epilog = append(b.epilog, line)
	}
}

func (b *builder) build() *ChangeLog {
	b.closeSection()
	return &ChangeLog{
		Prolog:     strings.Join(b.prolog, "\n"),
		Changesets: b.sets,
		Epilog:     strings.Join(b.epilog, "\n"),
		Meta:       map[string]string{},
	}
}
