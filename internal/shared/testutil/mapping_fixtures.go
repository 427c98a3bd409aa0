package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MappingHeader is the header line of a cross-reference table
const MappingHeader = "SEQ,ICD10,WHO,ICD10_DESC,ICD10AM,AUS,ADD,ICD10AM_DESC"

// Row joins fields into one comma-delimited line
func Row(fields ...string) string {
	return strings.Join(fields, ",")
}

// MappingRow builds a full eight-field row with no update flags or additive map
func MappingRow(seq, sourceCode, sourceDesc, targetCode, targetDesc string) string {
	return Row(seq, sourceCode, "", sourceDesc, targetCode, "", "", targetDesc)
}

// MappingTable renders a header line followed by rows, newline terminated
func MappingTable(rows ...string) string {
	var b strings.Builder
	b.WriteString(MappingHeader)
	b.WriteByte('\n')
	for _, r := range rows {
		b.WriteString(r)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile writes raw bytes into dir/name, creating dir as needed
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteMappingFile writes a header plus rows as dir/name
func WriteMappingFile(t *testing.T, dir, name string, rows ...string) string {
	t.Helper()
	return WriteFile(t, dir, name, []byte(MappingTable(rows...)))
}
