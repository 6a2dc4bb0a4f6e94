package checks

import (
	"fmt"

	"survey-integrity/core/schema"
)

// FieldRequirement names a field a check depends on and the types it may
// have. No types means any type.
type FieldRequirement struct {
	Name  string
	Types []schema.Type
}

// SchemaReport strictly types the result of a dictionary check.
type SchemaReport struct {
	Role           string   `json:"role"`
	Source         string   `json:"source"`
	Fields         int      `json:"fields"`
	Width          int      `json:"width"`
	MissingFields  []string `json:"missing_fields"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies that s declares every required field with an
// accepted type.
func CheckSchema(role, source string, s *schema.Schema, required []FieldRequirement) SchemaReport {
	report := SchemaReport{
		Role:           role,
		Source:         source,
		Fields:         s.Len(),
		Width:          s.Width(),
		MissingFields:  []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	for _, req := range required {
		spec, err := s.Lookup(req.Name)
		if err != nil {
			report.MissingFields = append(report.MissingFields, req.Name)
			report.Status = "error"
			continue
		}
		if len(req.Types) == 0 || typeAllowed(spec.Type, req.Types) {
			continue
		}
		report.TypeMismatches = append(report.TypeMismatches,
			fmt.Sprintf("%s: expected %s, got %s", req.Name, typeList(req.Types), spec.Type))
		report.Status = "error"
	}

	return report
}

func typeAllowed(t schema.Type, allowed []schema.Type) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}

func typeList(types []schema.Type) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += "|"
		}
		out += t.String()
	}
	return out
}
