package changelog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlChangeLog is the YAML export shape of a ChangeLog.
type yamlChangeLog struct {
	Prolog     string            `yaml:"prolog,omitempty"`
	Changesets []yamlChangeSet   `yaml:"changesets"`
	Epilog     string            `yaml:"epilog,omitempty"`
	Meta       map[string]string `yaml:"meta,omitempty"`
	Config     yamlConfig        `yaml:"config"`
}

type yamlChangeSet struct {
	Unreleased bool         `yaml:"unreleased,omitempty"`
	Version    string       `yaml:"version,omitempty"`
	Tag        string       `yaml:"tag,omitempty"`
	Date       string       `yaml:"date,omitempty"`
	Yanked     bool         `yaml:"yanked,omitempty"`
	Items      []ChangeItem `yaml:"items"`
}

type yamlConfig struct {
	TagVersionPattern string `yaml:"tag_version_pattern"`
	IssueLink         string `yaml:"issue_link,omitempty"`
	IssueKey          string `yaml:"issue_key,omitempty"`
	PRLink            string `yaml:"pr_link,omitempty"`
	PRKey             string `yaml:"pr_key,omitempty"`
}

// MarshalYAML encodes the change type by name.
func (t ChangeType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML decodes a change type name.
func (t *ChangeType) UnmarshalYAML(node *yaml.Node) error {
	ct, err := ParseChangeType(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*t = ct
	return nil
}

// ExportYAML writes the changelog model as YAML.
func ExportYAML(c *ChangeLog, w io.Writer) error {
	doc := yamlChangeLog{
		Prolog: c.Prolog,
		Epilog: c.Epilog,
		Meta:   c.Meta,
		Config: yamlConfig{
			TagVersionPattern: c.Config.TagPattern(),
			IssueLink:         c.Config.Keys.IssueLink,
			IssueKey:          c.Config.Keys.IssueKey,
			PRLink:            c.Config.Keys.PRLink,
			PRKey:             c.Config.Keys.PRKey,
		},
		Changesets: make([]yamlChangeSet, 0, len(c.Changesets)),
	}

	for _, cs := range c.Changesets {
		ycs := yamlChangeSet{Items: cs.Items}
		if ycs.Items == nil {
			ycs.Items = []ChangeItem{}
		}
		switch h := cs.Header.(type) {
		case Unreleased:
			ycs.Unreleased = true
		case ReleaseHeader:
			ycs.Version = h.Version
			ycs.Tag = h.Tag
			ycs.Date = h.Date.Format(DateLayout)
			ycs.Yanked = h.Yanked
		default:
			return fmt.Errorf("unknown section header type %T", h)
		}
		doc.Changesets = append(doc.Changesets, ycs)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding changelog YAML: %w", err)
	}
	return enc.Close()
}
