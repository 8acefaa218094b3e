package changelog

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

const (
	// ConfigStartMarker opens the embedded configuration block.
	ConfigStartMarker = "<!-- CHANGELOG-CONFIG"
	// ConfigEndMarker closes the embedded configuration block.
	ConfigEndMarker = "-->"

	// DefaultTagVersionPattern matches tags that start with "v".
	DefaultTagVersionPattern = "v*"

	numberPlaceholder = "NUMBER"
)

// Config is the configuration embedded in a changelog document.
type Config struct {
	Git  GitConfig  `koanf:"git" toml:"git"`
	Keys KeysConfig `koanf:"keys" toml:"keys"`
}

// GitConfig controls how tags are recognized as releases.
type GitConfig struct {
	// TagVersionPattern is a path.Match glob; empty means DefaultTagVersionPattern.
	TagVersionPattern string `koanf:"tag_version_pattern" toml:"tag_version_pattern"`
}

// KeysConfig holds reference key and link templates. NUMBER is the placeholder
// for the issue or pull request number, e.g. pr_key "PR#NUMBER" with
// pr_link "https://github.com/org/repo/pull/NUMBER".
type KeysConfig struct {
	IssueLink string `koanf:"issue_link" toml:"issue_link"`
	IssueKey  string `koanf:"issue_key" toml:"issue_key"`
	PRLink    string `koanf:"pr_link" toml:"pr_link"`
	PRKey     string `koanf:"pr_key" toml:"pr_key"`
}

// DefaultConfig returns the configuration written by "chg new --with-config".
func DefaultConfig() Config {
	return Config{
		Git: GitConfig{TagVersionPattern: DefaultTagVersionPattern},
		Keys: KeysConfig{
			IssueKey: "#NUMBER",
			PRKey:    "PR#NUMBER",
		},
	}
}

// ParseEmbeddedConfig extracts the configuration block from changelog text.
// A document without the start marker yields the zero Config.
func ParseEmbeddedConfig(text string) (Config, error) {
	var cfg Config

	start := strings.Index(text, ConfigStartMarker)
	if start < 0 {
		return cfg, nil
	}
	body := text[start+len(ConfigStartMarker):]
	end := strings.Index(body, ConfigEndMarker)
	if end < 0 {
		return cfg, &ConfigError{Message: "missing end delimiter " + ConfigEndMarker}
	}
	body = strings.TrimSpace(body[:end])

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider([]byte(body)), toml.Parser()); err != nil {
		return cfg, &ConfigError{Message: "cannot parse TOML", Err: err}
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, &ConfigError{Message: "cannot decode", Err: err}
	}
	return cfg, nil
}

// EmbeddedString serializes the configuration as a complete embedded block.
func (c Config) EmbeddedString() (string, error) {
	data, err := gotoml.Marshal(c)
	if err != nil {
		return "", &ConfigError{Message: "cannot serialize", Err: err}
	}
	return fmt.Sprintf("%s\n%s%s", ConfigStartMarker, data, ConfigEndMarker), nil
}

// TagPattern returns the effective tag glob.
func (c Config) TagPattern() string {
	if c.Git.TagVersionPattern == "" {
		return DefaultTagVersionPattern
	}
	return c.Git.TagVersionPattern
}

// MatchTag reports whether a tag name qualifies as a release tag.
func (c Config) MatchTag(tag string) bool {
	ok, err := path.Match(c.TagPattern(), tag)
	return err == nil && ok
}

// RefURL resolves a reference token to a link using the key templates.
// Returns false when no template matches.
func (c Config) RefURL(ref string) (string, bool) {
	if n, ok := matchKey(c.Keys.PRKey, ref); ok && c.Keys.PRLink != "" {
		return strings.ReplaceAll(c.Keys.PRLink, numberPlaceholder, n), true
	}
	if n, ok := matchKey(c.Keys.IssueKey, ref); ok && c.Keys.IssueLink != "" {
		return strings.ReplaceAll(c.Keys.IssueLink, numberPlaceholder, n), true
	}
	return "", false
}

// matchKey matches ref against a key template such as "PR#NUMBER" and returns the number.
func matchKey(key, ref string) (string, bool) {
	if key == "" || !strings.Contains(key, numberPlaceholder) {
		return "", false
	}
	pattern := "^" + strings.Replace(regexp.QuoteMeta(key), numberPlaceholder, `(\d+)`, 1) + "$"
	re, err := regexp.Compile(pattern)
	if err != nil {
		return "", false
	}
	m := re.FindStringSubmatch(ref)
	if m == nil {
		return "", false
	}
	return m[1], true
}
