package schema

import (
	"regexp"
	"strconv"
	"strings"
)

// stataColumn matches one dictionary entry:
//
//	_column(13)  byte  pregordr  %2f  "PREGNANCY ORDER (NUMBER)"
var stataColumn = regexp.MustCompile(`^_column\(\s*(\d+)\s*\)\s+(\S+)\s+(\S+)\s+%(\d+)(?:\.\d+)?([a-zA-Z]+)\s*(?:"([^"]*)")?\s*$`)

var stataStrType = regexp.MustCompile(`^str\d*$`)

func parseStata(data []byte) ([]declaration, error) {
	var decls []declaration

	for i, raw := range lines(data) {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		switch {
		case line == "", line == "}":
			continue
		case strings.HasPrefix(line, "*"), strings.HasPrefix(line, "//"):
			continue
		case strings.Contains(line, "dictionary") && strings.HasSuffix(line, "{"):
			continue
		}

		m := stataColumn.FindStringSubmatch(line)
		if m == nil {
			return nil, &SchemaFormatError{Line: lineNo, Text: raw, Reason: "cannot decompose dictionary entry"}
		}

		column, err := strconv.Atoi(m[1])
		if err != nil || column < 1 {
			return nil, &SchemaFormatError{Line: lineNo, Text: raw, Field: m[3], Reason: "_column must be a positive 1-based offset"}
		}
		width, err := strconv.Atoi(m[4])
		if err != nil {
			return nil, &SchemaFormatError{Line: lineNo, Text: raw, Field: m[3], Reason: "invalid width in format " + m[4]}
		}
		typ, ok := stataType(m[2])
		if !ok {
			return nil, &SchemaFormatError{Line: lineNo, Text: raw, Field: m[3], Reason: "unknown storage type " + m[2]}
		}

		decls = append(decls, declaration{
			spec: FieldSpec{
				Name:   m[3],
				Start:  column - 1,
				Length: width,
				Type:   typ,
				Label:  m[6],
			},
			line: lineNo,
			text: raw,
		})
	}

	return decls, nil
}

func stataType(storage string) (Type, bool) {
	switch storage {
	case "byte", "int", "long":
		return TypeInteger, true
	case "float", "double", "numeric":
		return TypeFloat, true
	}
	if stataStrType.MatchString(storage) {
		return TypeString, true
	}
	return TypeString, false
}
