package amrtime

import (
	"fmt"
)

// ConfigError reports an invalid option or an option combination
// that cannot be honored.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Option, e.Reason)
}

// MissingDataError reports a lookup miss against the reads or the catalog.
// Kind is one of "read", "aro" or "family".
type MissingDataError struct {
	Kind string
	Key  string
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("missing %s: %q", e.Kind, e.Key)
}

// ParseError reports a malformed line in an input file.
type ParseError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Reason)
}
