package spec

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"pass2bw/internal/common"
)

// Well-known Bitwarden CSV field names.
const (
	FieldName          = "name"
	FieldFolder        = "folder"
	FieldType          = "type"
	FieldNotes         = "notes"
	FieldLoginTOTP     = "login_totp"
	FieldLoginURI      = "login_uri"
	FieldLoginUsername = "login_username"
	FieldLoginPassword = "login_password"
)

// BitwardenSchema is the generic-CSV column order for individual accounts.
// The importer is header- and order-exact, so this must not be reordered.
var BitwardenSchema = []string{
	FieldName,
	FieldFolder,
	FieldType,
	"favorite",
	FieldNotes,
	"fields",
	FieldLoginTOTP,
	FieldLoginURI,
	FieldLoginUsername,
	FieldLoginPassword,
}

// DerivedField computes a field from the entry's location rather than its
// content. Fn must be pure.
type DerivedField struct {
	Field string
	Fn    func(baseDir, path, text string) string
}

// FieldPattern binds a field to a compiled line matcher. Matchers are
// case-insensitive, anchored at line start, and capture the value in group 1.
type FieldPattern struct {
	Field string
	Re    *regexp.Regexp
}

// FieldSpec is the immutable, process-wide extraction configuration.
type FieldSpec struct {
	Schema              []string
	Defaults            map[string]string
	Derived             []DerivedField
	Patterns            []FieldPattern
	FallbackField       string
	FirstLineIsPassword bool
}

// defaultPatterns lists the built-in matchers, highest priority first.
// Raw patterns must not carry a leading '^'; CompilePattern anchors them.
var defaultPatterns = []struct{ field, pattern string }{
	{FieldLoginURI, `url ?: ?(.*)$`},
	{FieldLoginUsername, `(?:user|login|username).* ?: ?(.*)$`},
	{FieldLoginTOTP, `otpauth://totp/[^?]+\?secret=([^&]+)`},
}

// Default returns the Bitwarden field specification: first line is the
// password, url/username/totp patterns, everything else accumulates in notes.
func Default() *FieldSpec {
	s := &FieldSpec{
		Schema:   append([]string(nil), BitwardenSchema...),
		Defaults: map[string]string{FieldType: "login"},
		Derived: []DerivedField{
			{Field: FieldName, Fn: deriveName},
			{Field: FieldFolder, Fn: deriveFolder},
		},
		FallbackField:       FieldNotes,
		FirstLineIsPassword: true,
	}
	for _, p := range defaultPatterns {
		s.Patterns = append(s.Patterns, FieldPattern{Field: p.field, Re: regexp.MustCompile(anchored(p.pattern))})
	}
	return s
}

// CompilePattern compiles a raw line pattern with the case-insensitive and
// line-start anchoring conventions applied.
func CompilePattern(raw string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(anchored(raw))
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", raw, err)
	}
	return re, nil
}

func anchored(raw string) string {
	return `(?i)^(?:` + raw + `)`
}

func deriveName(_ string, path string, _ string) string {
	return filepath.Base(path)
}

func deriveFolder(baseDir string, path string, _ string) string {
	dir := filepath.Dir(path)
	dir = strings.TrimPrefix(dir, baseDir)
	return strings.TrimLeft(dir, "/"+string(filepath.Separator))
}

// Validate checks the specification before any entry is processed. A failure
// here is fatal: the engine cannot fulfill its contract for any input.
func (s *FieldSpec) Validate() error {
	if len(s.Schema) == 0 {
		return common.NewAppError("SPEC_INVALID", "schema must not be empty", common.ErrValidation)
	}
	inSchema := make(map[string]bool, len(s.Schema))
	for _, f := range s.Schema {
		if f == "" {
			return common.NewAppError("SPEC_INVALID", "schema contains an empty field name", common.ErrValidation)
		}
		if inSchema[f] {
			return common.NewAppError("SPEC_INVALID", fmt.Sprintf("duplicate schema field %q", f), common.ErrValidation)
		}
		inSchema[f] = true
	}
	if s.FirstLineIsPassword && !inSchema[FieldLoginPassword] {
		return common.NewAppError("SPEC_INVALID", "firstline_is_password requires login_password in the schema", common.ErrValidation)
	}
	if s.FallbackField == "" || !inSchema[s.FallbackField] {
		return common.NewAppError("SPEC_INVALID", fmt.Sprintf("fallback field %q is not in the schema", s.FallbackField), common.ErrValidation)
	}
	for f := range s.Defaults {
		if !inSchema[f] {
			return common.NewAppError("SPEC_INVALID", fmt.Sprintf("default for unknown field %q", f), common.ErrValidation)
		}
	}
	for _, d := range s.Derived {
		if !inSchema[d.Field] {
			return common.NewAppError("SPEC_INVALID", fmt.Sprintf("derived value for unknown field %q", d.Field), common.ErrValidation)
		}
		if d.Fn == nil {
			return common.NewAppError("SPEC_INVALID", fmt.Sprintf("derived field %q has no function", d.Field), common.ErrValidation)
		}
	}
	for _, p := range s.Patterns {
		if !inSchema[p.Field] {
			return common.NewAppError("SPEC_INVALID", fmt.Sprintf("pattern for unknown field %q", p.Field), common.ErrValidation)
		}
		if p.Re == nil {
			return common.NewAppError("SPEC_INVALID", fmt.Sprintf("pattern for field %q is not compiled", p.Field), common.ErrValidation)
		}
		if p.Re.NumSubexp() < 1 {
			return common.NewAppError("SPEC_INVALID", fmt.Sprintf("pattern for field %q has no capture group", p.Field), common.ErrValidation)
		}
	}
	return nil
}
