package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pass2bw/internal/extract"
	"pass2bw/internal/spec"
)

func TestWriteCSVHeaderExact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, spec.BitwardenSchema, nil))

	assert.Equal(t,
		"name,folder,type,favorite,notes,fields,login_totp,login_uri,login_username,login_password\n",
		buf.String(),
	)
}

func TestWriteCSVQuoting(t *testing.T) {
	schema := []string{"name", "notes", "login_password"}
	recs := []extract.Record{
		{"name": "plain", "notes": "one line", "login_password": "hunter2"},
		{"name": "tricky, name", "notes": "line1\nline2 \"quoted\"", "login_password": "a,b"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, schema, recs))

	lines := []string{
		`name,notes,login_password`,
		`plain,one line,hunter2`,
		`"tricky, name","line1` + "\n" + `line2 ""quoted""","a,b"`,
	}
	assert.Equal(t, strings.Join(lines, "\n")+"\n", buf.String())
}

func TestWriteCSVMissingFieldsAreEmpty(t *testing.T) {
	schema := []string{"name", "notes"}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, schema, []extract.Record{{"name": "x"}}))

	assert.Equal(t, "name,notes\nx,\n", buf.String())
}
