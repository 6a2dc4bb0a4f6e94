package schema

import (
	"errors"
	"strconv"
	"strings"
)

// parseLayout reads the plain layout format:
//
//	# name   start width type     label
//	caseid   0     12    string   "respondent id"
//	pregnum  12    2     integer  "number of pregnancies"
//	label pregnum 0 "none"
func parseLayout(data []byte) ([]declaration, error) {
	var decls []declaration
	byName := make(map[string]int)

	for i, raw := range lines(data) {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		tokens, err := tokenize(line)
		if err != nil {
			return nil, &SchemaFormatError{Line: lineNo, Text: raw, Reason: err.Error()}
		}

		if tokens[0].text == "label" && !tokens[0].quoted {
			if err := applyValueLabel(decls, byName, tokens); err != nil {
				return nil, &SchemaFormatError{Line: lineNo, Text: raw, Reason: err.Error()}
			}
			continue
		}

		if len(tokens) < 3 || len(tokens) > 5 {
			return nil, &SchemaFormatError{Line: lineNo, Text: raw, Reason: "expected: name start width [type] [\"label\"]"}
		}

		spec := FieldSpec{Name: tokens[0].text}
		if spec.Start, err = strconv.Atoi(tokens[1].text); err != nil {
			return nil, &SchemaFormatError{Line: lineNo, Text: raw, Field: spec.Name, Reason: "start offset is not an integer"}
		}
		if spec.Length, err = strconv.Atoi(tokens[2].text); err != nil {
			return nil, &SchemaFormatError{Line: lineNo, Text: raw, Field: spec.Name, Reason: "width is not an integer"}
		}

		rest := tokens[3:]
		if len(rest) > 0 && !rest[0].quoted {
			if spec.Type, err = ParseType(rest[0].text); err != nil {
				return nil, &SchemaFormatError{Line: lineNo, Text: raw, Field: spec.Name, Reason: err.Error()}
			}
			rest = rest[1:]
		}
		if len(rest) > 0 {
			if !rest[0].quoted || len(rest) > 1 {
				return nil, &SchemaFormatError{Line: lineNo, Text: raw, Field: spec.Name, Reason: "trailing tokens after field declaration"}
			}
			spec.Label = rest[0].text
		}

		byName[spec.Name] = len(decls)
		decls = append(decls, declaration{spec: spec, line: lineNo, text: raw})
	}

	return decls, nil
}

// applyValueLabel handles `label <field> <code> "text"`.
func applyValueLabel(decls []declaration, byName map[string]int, tokens []token) error {
	if len(tokens) != 4 || !tokens[3].quoted {
		return errors.New(`expected: label <field> <code> "text"`)
	}
	idx, ok := byName[tokens[1].text]
	if !ok {
		return errors.New("value label for undeclared field " + strconv.Quote(tokens[1].text))
	}
	code, err := strconv.ParseInt(tokens[2].text, 10, 64)
	if err != nil {
		return errors.New("value label code is not an integer")
	}
	spec := &decls[idx].spec
	if spec.ValueLabels == nil {
		spec.ValueLabels = make(map[int64]string)
	}
	spec.ValueLabels[code] = tokens[3].text
	return nil
}

type token struct {
	text   string
	quoted bool
}

// tokenize splits on whitespace, keeping double-quoted runs together.
func tokenize(line string) ([]token, error) {
	var (
		tokens []token
		cur    strings.Builder
		inWord bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inWord {
				return nil, errors.New("quote inside unquoted token")
			}
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				return nil, errors.New("unterminated quoted string")
			}
			tokens = append(tokens, token{text: line[i+1 : i+1+end], quoted: true})
			i += end + 1
		case c == ' ' || c == '\t':
			if inWord {
				tokens = append(tokens, token{text: cur.String()})
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	if inWord {
		tokens = append(tokens, token{text: cur.String()})
	}
	return tokens, nil
}
