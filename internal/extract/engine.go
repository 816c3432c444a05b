package extract

import (
	"log/slog"
	"strings"

	"pass2bw/internal/spec"
)

// Engine converts one decrypted entry into a schema-complete record using an
// injected field specification. It holds no mutable state: every Extract call
// is a pure function of its inputs plus Warn-level diagnostics on the logger.
type Engine struct {
	logger *slog.Logger
	spec   *spec.FieldSpec
}

func NewEngine(s *spec.FieldSpec, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger, spec: s}
}

// Extract derives a record from the entry's location and content.
//
// Line handling, in order: the first line is the password when configured;
// each remaining line goes to the first pattern that matches it; a line whose
// matched field was already found is dropped with a warning; a line no
// pattern claims accumulates into the fallback field. Content-derived values
// overwrite defaults and derived values, never the other way around.
func (e *Engine) Extract(baseDir string, entry Entry) Record {
	rec := make(Record, len(e.spec.Schema))
	for field, value := range e.spec.Defaults {
		rec[field] = value
	}
	for _, d := range e.spec.Derived {
		rec[d.Field] = d.Fn(baseDir, entry.Path, entry.Text)
	}

	lines := splitLines(entry.Text)
	if len(lines) == 0 {
		e.logger.Warn("entry is empty", "path", entry.Path)
		return Complete(rec, e.spec.Schema)
	}

	// Fields resolved from content; defaults and derived values are not
	// tracked here so a matching line can still claim their field.
	found := make(map[string]bool)

	if e.spec.FirstLineIsPassword {
		rec[spec.FieldLoginPassword] = lines[0]
		found[spec.FieldLoginPassword] = true
		lines = lines[1:]
	}

	var fallback []string
	for _, line := range lines {
		field, value, matched := e.matchLine(line)
		switch {
		case matched && found[field]:
			// Later matches for a resolved field are dropped whole: no
			// further patterns, no fallback accumulation.
			e.logger.Warn("duplicate field, skipping line", "field", field, "path", entry.Path)
		case matched:
			rec[field] = value
			found[field] = true
		default:
			fallback = append(fallback, line)
			found[e.spec.FallbackField] = true
		}
	}
	if len(fallback) > 0 {
		rec[e.spec.FallbackField] = strings.Join(fallback, "\n")
	}

	rec = Complete(rec, e.spec.Schema)
	if uri, ok := rec[spec.FieldLoginURI]; ok && uri == "" {
		rec[spec.FieldLoginURI] = InferURI(rec)
	}
	return rec
}

// matchLine evaluates the ordered patterns against one line. The earliest
// declared pattern wins even when a later one would also match.
func (e *Engine) matchLine(line string) (field, value string, ok bool) {
	for _, p := range e.spec.Patterns {
		if m := p.Re.FindStringSubmatch(line); m != nil {
			return p.Field, m[1], true
		}
	}
	return "", "", false
}

// splitLines splits text into lines in original order, treating \n, \r\n and
// bare \r as line breaks. A trailing line break does not produce a final
// empty line, and empty content has no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}
