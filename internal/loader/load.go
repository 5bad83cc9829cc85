package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/comalice/turingx/internal/primitives"
)

// Extensions maps file extensions to formats.
var Extensions = map[string]string{
	".tm":   "text",
	".txt":  "text",
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
}

// LoadFile reads and parses a machine description, choosing the format from
// the file extension. A missing file is a ConfigError wrapping os.ErrNotExist.
func LoadFile(path string) (primitives.Definition, error) {
	format, ok := Extensions[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return primitives.Definition{}, &primitives.ConfigError{
			Source: path,
			Msg:    fmt.Sprintf("unknown machine format %q (want .tm, .txt, .json, .yaml or .yml)", filepath.Ext(path)),
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		msg := "read failed"
		if errors.Is(err, os.ErrNotExist) {
			msg = "configuration file not found"
		}
		return primitives.Definition{}, &primitives.ConfigError{Source: path, Msg: msg, Err: err}
	}
	return Parse(format, data, path)
}

// Parse parses data in the named format ("text", "json" or "yaml").
func Parse(format string, data []byte, source string) (primitives.Definition, error) {
	switch format {
	case "text":
		return ParseText(strings.NewReader(string(data)), source)
	case "json":
		return ParseJSON(data, source)
	case "yaml":
		return ParseYAML(data, source)
	}
	return primitives.Definition{}, &primitives.ConfigError{Source: source, Msg: fmt.Sprintf("unknown format %q", format)}
}
