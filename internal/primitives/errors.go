package primitives

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidConfig matches every *ConfigError via errors.Is.
var ErrInvalidConfig = errors.New("invalid machine configuration")

// ConfigError reports malformed or missing machine configuration.
// Source and Line are set by loaders when known.
type ConfigError struct {
	Source string
	Line   int
	Msg    string
	Err    error
}

// ConfigErrorf builds a ConfigError without location.
func ConfigErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	if e.Source != "" {
		b.WriteString(e.Source)
		if e.Line > 0 {
			b.WriteString(":")
			b.WriteString(strconv.Itoa(e.Line))
		}
		b.WriteString(": ")
	}
	b.WriteString(e.Msg)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error { return e.Err }

func (e *ConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// Locate returns err annotated with source and line. A *ConfigError keeps its
// message; other errors are wrapped.
func Locate(err error, source string, line int) error {
	if err == nil {
		return nil
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		cp := *ce
		if cp.Source == "" {
			cp.Source = source
		}
		if cp.Line == 0 {
			cp.Line = line
		}
		return &cp
	}
	return &ConfigError{Source: source, Line: line, Msg: "invalid configuration", Err: err}
}
