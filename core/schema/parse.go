package schema

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// Format identifies a declarative schema syntax.
type Format int

const (
	// FormatAuto lets the caller pick a format from the source name.
	FormatAuto Format = iota
	// FormatLayout is "name start width [type] [\"label\"]", 0-based offsets.
	FormatLayout
	// FormatStata is a Stata infile dictionary (.dct), 1-based _column offsets.
	FormatStata
	// FormatYAML is a YAML document with a top-level fields list.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatLayout:
		return "layout"
	case FormatStata:
		return "stata"
	case FormatYAML:
		return "yaml"
	default:
		return "auto"
	}
}

// ParseFormat maps a configuration value to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return FormatAuto, nil
	case "layout":
		return FormatLayout, nil
	case "stata", "dct":
		return FormatStata, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return FormatAuto, fmt.Errorf("unknown schema format %q", name)
	}
}

// DetectFormat picks a format from a file or object name.
func DetectFormat(name string) Format {
	name = strings.TrimSuffix(strings.ToLower(name), ".gz")
	switch path.Ext(name) {
	case ".dct":
		return FormatStata
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatLayout
	}
}

// Parse reads a schema declaration in the given format.
// FormatAuto is treated as FormatLayout; use DetectFormat to resolve it first.
func Parse(r io.Reader, format Format) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseBytes(data, format)
}

// ParseBytes is Parse over an in-memory declaration.
func ParseBytes(data []byte, format Format) (*Schema, error) {
	var (
		decls []declaration
		err   error
	)
	switch format {
	case FormatStata:
		decls, err = parseStata(data)
	case FormatYAML:
		decls, err = parseYAML(data)
	default:
		decls, err = parseLayout(data)
	}
	if err != nil {
		return nil, err
	}
	return build(decls)
}

// lines splits data into lines without their terminators.
func lines(data []byte) []string {
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	return strings.Split(string(data), "\n")
}
