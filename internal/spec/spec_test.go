package spec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSpecIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())

	assert.Equal(t, BitwardenSchema, s.Schema)
	assert.Equal(t, "login", s.Defaults[FieldType])
	assert.Equal(t, FieldNotes, s.FallbackField)
	assert.True(t, s.FirstLineIsPassword)

	// Pattern order is a contract: earlier patterns win ties.
	require.Len(t, s.Patterns, 3)
	assert.Equal(t, FieldLoginURI, s.Patterns[0].Field)
	assert.Equal(t, FieldLoginUsername, s.Patterns[1].Field)
	assert.Equal(t, FieldLoginTOTP, s.Patterns[2].Field)
}

func TestCompilePatternConventions(t *testing.T) {
	re, err := CompilePattern(`url ?: ?(.*)$`)
	require.NoError(t, err)

	// Case-insensitive and anchored at line start.
	m := re.FindStringSubmatch("URL: example.com")
	require.NotNil(t, m)
	assert.Equal(t, "example.com", m[1])
	assert.Nil(t, re.FindStringSubmatch("the url: example.com"))

	_, err = CompilePattern(`([`)
	assert.Error(t, err)
}

func TestDerivedFields(t *testing.T) {
	s := Default()
	values := map[string]string{}
	for _, d := range s.Derived {
		values[d.Field] = d.Fn("/store", "/store/web/example.com", "ignored")
	}
	assert.Equal(t, "example.com", values[FieldName])
	assert.Equal(t, "web", values[FieldFolder])
}

func TestValidateRejectsBrokenSpecs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FieldSpec)
	}{
		{"empty schema", func(s *FieldSpec) { s.Schema = nil }},
		{"duplicate schema field", func(s *FieldSpec) { s.Schema = append(s.Schema, FieldName) }},
		{"fallback not in schema", func(s *FieldSpec) { s.FallbackField = "nope" }},
		{"default for unknown field", func(s *FieldSpec) { s.Defaults["nope"] = "x" }},
		{"pattern for unknown field", func(s *FieldSpec) {
			s.Patterns[0].Field = "nope"
		}},
		{"pattern without capture group", func(s *FieldSpec) {
			re, err := CompilePattern(`url ?: ?.*$`)
			require.NoError(t, err)
			s.Patterns[0].Re = re
		}},
		{"derived without function", func(s *FieldSpec) { s.Derived[0].Fn = nil }},
		{"first-line policy without password field", func(s *FieldSpec) {
			s.Schema = []string{FieldNotes}
			s.Defaults = nil
			s.Derived = nil
			s.Patterns = nil
			s.FallbackField = FieldNotes
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}
