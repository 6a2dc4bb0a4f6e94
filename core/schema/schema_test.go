package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pregDictionary = `infile dictionary {
    _column(1)      str12                             caseid  %12s  "RESPONDENT ID NUMBER"
    _column(13)     byte                             pregordr   %2f  "PREGNANCY ORDER (NUMBER)"
    _column(275)    int                               agepreg   %4f  "AGE AT PREGNANCY OUTCOME"
    _column(423)    double                           finalwgt  %18f  "FINAL POST-STRATIFIED WEIGHT"
}
`

func TestParse_Stata(t *testing.T) {
	s, err := Parse(strings.NewReader(pregDictionary), FormatStata)
	require.NoError(t, err)

	assert.Equal(t, []string{"caseid", "pregordr", "agepreg", "finalwgt"}, s.Names())

	caseid, err := s.Lookup("caseid")
	require.NoError(t, err)
	assert.Equal(t, 0, caseid.Start)
	assert.Equal(t, 12, caseid.Length)
	assert.Equal(t, TypeString, caseid.Type)
	assert.Equal(t, "RESPONDENT ID NUMBER", caseid.Label)

	pregordr, _ := s.Lookup("pregordr")
	assert.Equal(t, 12, pregordr.Start)
	assert.Equal(t, TypeInteger, pregordr.Type)

	finalwgt, _ := s.Lookup("finalwgt")
	assert.Equal(t, 422, finalwgt.Start)
	assert.Equal(t, TypeFloat, finalwgt.Type)
	assert.Equal(t, 440, s.Width())
}

func TestParse_StataErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"Garbage Line", "infile dictionary {\n  hello world\n}", "cannot decompose"},
		{"Zero Column", "infile dictionary {\n _column(0) byte x %1f\n}", "1-based"},
		{"Unknown Storage", "infile dictionary {\n _column(1) blob x %1f\n}", "unknown storage type"},
		{"Zero Width", "infile dictionary {\n _column(1) byte x %0f\n}", "non-positive width"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.input), FormatStata)
			var sfe *SchemaFormatError
			require.ErrorAs(t, err, &sfe)
			assert.Equal(t, 2, sfe.Line)
			assert.Contains(t, sfe.Error(), tt.reason)
		})
	}
}

func TestParse_Layout(t *testing.T) {
	input := `# respondent layout
caseid   0   4  string "respondent id"
pregnum  4   2  integer
weight   6   8  float  "sampling weight"
label pregnum 0 "none"
label pregnum 1 "one pregnancy"
`
	s, err := ParseBytes([]byte(input), FormatLayout)
	require.NoError(t, err)

	fields := s.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, FieldSpec{Name: "caseid", Start: 0, Length: 4, Type: TypeString, Label: "respondent id"}, fields[0])
	assert.Equal(t, TypeInteger, fields[1].Type)
	assert.Equal(t, map[int64]string{0: "none", 1: "one pregnancy"}, fields[1].ValueLabels)
	assert.Equal(t, "sampling weight", fields[2].Label)
}

func TestParse_LayoutErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Too Few Tokens", "caseid 0"},
		{"Bad Start", "caseid x 4"},
		{"Bad Width", "caseid 0 y"},
		{"Negative Width", "caseid 0 -4"},
		{"Negative Start", "caseid -1 4"},
		{"Unknown Type", "caseid 0 4 blob"},
		{"Unterminated Label", `caseid 0 4 string "oops`},
		{"Label For Unknown Field", `label pregnum 1 "one"`},
		{"Duplicate Name", "a 0 1\na 1 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBytes([]byte(tt.input), FormatLayout)
			var sfe *SchemaFormatError
			assert.ErrorAs(t, err, &sfe)
		})
	}
}

func TestParse_OverlappingFields(t *testing.T) {
	input := "caseid 0 4\npregnum 3 2 integer\n"

	_, err := ParseBytes([]byte(input), FormatLayout)
	var sfe *SchemaFormatError
	require.ErrorAs(t, err, &sfe)
	assert.Equal(t, 2, sfe.Line)
	assert.Equal(t, "pregnum", sfe.Field)
	assert.Contains(t, sfe.Reason, `overlaps field "caseid"`)
}

func TestParse_OverlapIndependentOfDeclarationOrder(t *testing.T) {
	_, err := New([]FieldSpec{
		{Name: "late", Start: 10, Length: 5},
		{Name: "early", Start: 0, Length: 11},
	})
	var sfe *SchemaFormatError
	assert.ErrorAs(t, err, &sfe)
}

func TestParse_AdjacentFieldsDoNotOverlap(t *testing.T) {
	s, err := New([]FieldSpec{
		{Name: "b", Start: 4, Length: 2},
		{Name: "a", Start: 0, Length: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, s.Names(), "declaration order is kept")
}

func TestParse_YAML(t *testing.T) {
	input := `fields:
  - name: caseid
    start: 0
    width: 4
  - name: pregnum
    start: 4
    width: 2
    type: integer
    label: number of pregnancies
    values:
      0: none
`
	s, err := ParseBytes([]byte(input), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"caseid", "pregnum"}, s.Names())

	f, err := s.Lookup("pregnum")
	require.NoError(t, err)
	assert.Equal(t, TypeInteger, f.Type)
	assert.Equal(t, "none", f.ValueLabels[0])
}

func TestParse_YAMLErrors(t *testing.T) {
	t.Run("Missing Width", func(t *testing.T) {
		_, err := ParseBytes([]byte("fields:\n  - name: a\n    start: 0\n"), FormatYAML)
		var sfe *SchemaFormatError
		require.ErrorAs(t, err, &sfe)
		assert.Equal(t, 2, sfe.Line)
	})

	t.Run("Invalid Document", func(t *testing.T) {
		_, err := ParseBytes([]byte("fields: [\n"), FormatYAML)
		var sfe *SchemaFormatError
		assert.ErrorAs(t, err, &sfe)
	})
}

func TestSchema_Lookup(t *testing.T) {
	s, err := New([]FieldSpec{{Name: "caseid", Start: 0, Length: 4}})
	require.NoError(t, err)

	assert.True(t, s.Has("caseid"))
	assert.False(t, s.Has("pregnum"))

	_, err = s.Lookup("pregnum")
	var mfe *MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "pregnum", mfe.Field)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatStata, DetectFormat("2002FemPreg.dct"))
	assert.Equal(t, FormatStata, DetectFormat("dicts/2002FemResp.DCT.gz"))
	assert.Equal(t, FormatYAML, DetectFormat("resp.yaml"))
	assert.Equal(t, FormatYAML, DetectFormat("resp.yml"))
	assert.Equal(t, FormatLayout, DetectFormat("resp.layout"))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("dct")
	require.NoError(t, err)
	assert.Equal(t, FormatStata, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
