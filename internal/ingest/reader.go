package ingest

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"

	apperrors "icdmap/internal/errors"
)

// ErrEmptyFile is returned for a file without even a header line
var ErrEmptyFile = errors.New("file has no header line")

// Table is the decoded content of one delimited-text file
type Table struct {
	Path     string
	Encoding string
	Header   string
	Rows     [][]string
}

// Reader reads comma-delimited cross-reference tables
type Reader struct {
	policy EncodingPolicy
}

// NewReader creates a reader that decodes files with the given policy.
// A nil or empty policy means UTF-8 only.
func NewReader(policy EncodingPolicy) *Reader {
	if len(policy) == 0 {
		policy = StrictPolicy()
	}
	return &Reader{policy: policy}
}

// Policy returns the encoding policy in use
func (r *Reader) Policy() EncodingPolicy {
	return r.policy
}

// ReadFile loads, decodes and splits one file. The first line is the header and is
// returned verbatim; the rest is split into minimally quoted comma-separated records.
// The whole file is read before any row is returned, so a failure leaves nothing behind.
func (r *Reader) ReadFile(path string) (*Table, error) {
	name := filepath.Base(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewFileError(name, "failed to read file", err)
	}

	text, enc, err := r.policy.Decode(name, data)
	if err != nil {
		return nil, err
	}

	table, err := Parse(bytes.NewReader(text))
	if err != nil {
		return nil, apperrors.NewFileError(name, "failed to parse file", err)
	}
	table.Path = path
	table.Encoding = enc
	return table, nil
}

// Parse splits already-decoded text into a header line and data rows.
// CRLF and lone CR line endings are read as LF, inside quoted fields too.
func Parse(src io.Reader) (*Table, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	data = bytes.ReplaceAll(data, []byte("\r"), []byte("\n"))

	header, body, _ := bytes.Cut(data, []byte("\n"))
	table := &Table{Header: string(header)}

	scanner := &recordScanner{data: body}
	for {
		record, ok := scanner.next()
		if !ok {
			break
		}
		table.Rows = append(table.Rows, record)
	}
	return table, nil
}
