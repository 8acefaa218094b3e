package changelog

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedChangelog is reserved for documents that do not look like a
// changelog at all. The parser is permissive and does not return it today.
var ErrUnrecognizedChangelog = errors.New("file does not look like a markdown record of changes")

// ErrNotRenderable is returned when the prolog or epilog of a model would
// be read back as sections or items.
var ErrNotRenderable = errors.New("changelog cannot be rendered without changing its structure")

// InvalidVersionIDError is returned when a section header's version token is
// empty or does not start with a digit.
type InvalidVersionIDError struct {
	Token  string
	Header string
}

func (e *InvalidVersionIDError) Error() string {
	return fmt.Sprintf("invalid version ID (%q) in section header (%q)", e.Token, e.Header)
}

// MissingVersionDateSeparatorError is returned when a release header has no
// token after the version.
type MissingVersionDateSeparatorError struct {
	Header string
}

func (e *MissingVersionDateSeparatorError) Error() string {
	return fmt.Sprintf("missing separator '- ' between version and timestamp in release section header (%q)", e.Header)
}

// MissingTimestampError is returned when a release header ends right after the "-" separator.
type MissingTimestampError struct {
	Header string
}

func (e *MissingTimestampError) Error() string {
	return fmt.Sprintf("missing timestamp in release section header (%q)", e.Header)
}

// InvalidTimestampError is returned when the timestamp token is not a YYYY-MM-DD date.
type InvalidTimestampError struct {
	Text   string
	Header string
	Reason string
}

func (e *InvalidTimestampError) Error() string {
	return fmt.Sprintf("invalid timestamp %q in release section header (%q): %s", e.Text, e.Header, e.Reason)
}

// InvalidItemError is returned for a line that starts like an item ("- " or "* ")
// but does not have the "[refs:] [[component]] text / authors" shape.
// Such a line aborts the whole parse.
type InvalidItemError struct {
	Line int
	Text string
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("line %d: invalid item line %q (expected \"- [refs:] [[component]] text / authors\")", e.Line, e.Text)
}

// ConfigError reports a problem reading or writing the embedded configuration block.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedded config: %s: %v", e.Message, e.Err)
	}
	return "embedded config: " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is one of the section header or item grammar errors.
func IsParseError(err error) bool {
	var (
		versionErr *InvalidVersionIDError
		sepErr     *MissingVersionDateSeparatorError
		tsMissing  *MissingTimestampError
		tsErr      *InvalidTimestampError
		itemErr    *InvalidItemError
	)
	return errors.As(err, &versionErr) ||
		errors.As(err, &sepErr) ||
		errors.As(err, &tsMissing) ||
		errors.As(err, &tsErr) ||
		errors.As(err, &itemErr)
}
