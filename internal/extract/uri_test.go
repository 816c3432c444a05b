package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pass2bw/internal/spec"
)

func TestInferURI(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"example.com", "example.com"},
		{"sub.example.com", "sub.example.com"},
		{"example.co.uk", "example.co.uk"},
		{"my-shop.example.org", "my-shop.example.org"},
		{"Example.COM", "Example.COM"},
		{"notes.txt", ""},        // file-like name, not a real suffix
		{"backup.tar.gz", ""},    // same
		{"nodots", ""},           // needs at least one dot
		{"-bad.example.com", ""}, // leading hyphen
		{"bad-.example.com", ""}, // trailing hyphen
		{"exa_mple.com", ""},     // underscore is not hostname syntax
		{"example.verylongtld", ""},
		{"example.c", ""},
		{"", ""},
		{"example..com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{spec.FieldName: tt.name}
			assert.Equal(t, tt.want, InferURI(rec))
		})
	}
}

func TestInferURIWithoutName(t *testing.T) {
	assert.Empty(t, InferURI(Record{}))
}

func TestComplete(t *testing.T) {
	schema := []string{"a", "b", "c"}
	rec := Complete(Record{"b": "kept"}, schema)

	assert.Equal(t, Record{"a": "", "b": "kept", "c": ""}, rec)
	assert.Equal(t, Record{"a": "", "b": "", "c": ""}, Complete(nil, schema))
}
