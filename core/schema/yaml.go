package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type yamlDocument struct {
	Fields []yaml.Node `yaml:"fields"`
}

type yamlField struct {
	Name   string           `yaml:"name"`
	Start  *int             `yaml:"start"`
	Width  *int             `yaml:"width"`
	Type   string           `yaml:"type"`
	Label  string           `yaml:"label"`
	Values map[int64]string `yaml:"values"`
}

// parseYAML reads
//
//	fields:
//	  - name: caseid
//	    start: 0
//	    width: 12
//	  - name: pregnum
//	    start: 12
//	    width: 2
//	    type: integer
//	    values: {0: none}
func parseYAML(data []byte) ([]declaration, error) {
	var doc yamlDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &SchemaFormatError{Reason: fmt.Sprintf("invalid yaml: %v", err)}
	}

	decls := make([]declaration, 0, len(doc.Fields))
	for _, node := range doc.Fields {
		var f yamlField
		if err := node.Decode(&f); err != nil {
			return nil, &SchemaFormatError{Line: node.Line, Reason: fmt.Sprintf("invalid field entry: %v", err)}
		}
		if f.Start == nil || f.Width == nil {
			return nil, &SchemaFormatError{Line: node.Line, Field: f.Name, Reason: "start and width are required"}
		}
		typ, err := ParseType(f.Type)
		if err != nil {
			return nil, &SchemaFormatError{Line: node.Line, Field: f.Name, Reason: err.Error()}
		}
		decls = append(decls, declaration{
			spec: FieldSpec{
				Name:        f.Name,
				Start:       *f.Start,
				Length:      *f.Width,
				Type:        typ,
				Label:       f.Label,
				ValueLabels: f.Values,
			},
			line: node.Line,
		})
	}

	return decls, nil
}
