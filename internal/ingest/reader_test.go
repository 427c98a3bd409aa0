package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "icdmap/internal/errors"
)

const sampleTable = `Counter,ICD-10 Code,WHO Update,ICD-10 Descriptor,ICD-10-AM Code,AUS Update,Additive Map,ICD-10-AM Descriptor
1,A00,, Cholera , A00.0 ,,,"Cholera due to Vibrio cholerae 01, biovar cholerae"
2,A00,,Cholera,A00.1,,,El Tor cholera
3,short,row
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(sampleTable))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(table.Header, "Counter,ICD-10 Code"))
	require.Len(t, table.Rows, 3)
	assert.Len(t, table.Rows[0], 8)
	assert.Equal(t, "Cholera due to Vibrio cholerae 01, biovar cholerae", table.Rows[0][7])
	assert.Equal(t, " Cholera ", table.Rows[0][3], "whitespace is left for the record parser")
	assert.Equal(t, []string{"3", "short", "row"}, table.Rows[2])
}

func TestParse_HeaderOnly(t *testing.T) {
	table, err := Parse(strings.NewReader("a,b,c\r\n"))
	require.NoError(t, err)
	assert.Equal(t, "a,b,c", table.Header)
	assert.Empty(t, table.Rows)
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestParse_QuoteInsideUnquotedField(t *testing.T) {
	table, err := Parse(strings.NewReader("hdr\n1,A00,,Say \"hi\",A00.0,,,x\n"))
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, `Say "hi"`, table.Rows[0][3])
}

func TestParse_TextAfterClosingQuote(t *testing.T) {
	input := "hdr\n" +
		"1,\"A00\"x,,Cholera,A00.0,,,Desc\n" +
		"2,A01,,Typhoid,A01.0,,,Desc2\n" +
		"3,A02,,Salmonella,A02.0,,,Desc3\n"

	table, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, []string{"1", "A00x", "", "Cholera", "A00.0", "", "", "Desc"}, table.Rows[0])
	assert.Equal(t, "A01", table.Rows[1][1])
	assert.Equal(t, "Desc3", table.Rows[2][7])
}

func TestParse_Quoting(t *testing.T) {
	tests := []struct {
		name string
		body string
		want [][]string
	}{
		{
			name: "doubled quote",
			body: "1,\"say \"\"hi\"\"\",x\n",
			want: [][]string{{"1", `say "hi"`, "x"}},
		},
		{
			name: "line break inside quotes",
			body: "1,\"two\nlines\",x\n2,y\n",
			want: [][]string{{"1", "two\nlines", "x"}, {"2", "y"}},
		},
		{
			name: "crlf inside quotes",
			body: "1,\"two\r\nlines\"\r\n",
			want: [][]string{{"1", "two\nlines"}},
		},
		{
			name: "blank lines",
			body: "\n1,a\n\n\n2,b\n",
			want: [][]string{{"1", "a"}, {"2", "b"}},
		},
		{
			name: "trailing empty field",
			body: "1,a,\n",
			want: [][]string{{"1", "a", ""}},
		},
		{
			name: "no final newline",
			body: "1,a",
			want: [][]string{{"1", "a"}},
		},
		{
			name: "unterminated quote runs to end of input",
			body: "1,\"open\n2,b\n",
			want: [][]string{{"1", "open\n2,b\n"}},
		},
		{
			name: "empty quoted field",
			body: "\"\",b\n",
			want: [][]string{{"", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Parse(strings.NewReader("hdr\n" + tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Rows)
		})
	}
}

func TestParse_LoneCarriageReturns(t *testing.T) {
	table, err := Parse(strings.NewReader("hdr\r1,a\r2,b\r"))
	require.NoError(t, err)
	assert.Equal(t, "hdr", table.Header)
	assert.Equal(t, [][]string{{"1", "a"}, {"2", "b"}}, table.Rows)
}

func TestReader_ReadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.txt")
	require.NoError(t, os.WriteFile(good, []byte(sampleTable), 0644))

	latin := filepath.Join(dir, "latin.txt")
	require.NoError(t, os.WriteFile(latin, []byte("hdr\n1,A00,,Caf\xe9,A00.0,,,Caf\xe9\n"), 0644))

	t.Run("utf-8 file", func(t *testing.T) {
		table, err := NewReader(nil).ReadFile(good)
		require.NoError(t, err)
		assert.Equal(t, EncodingUTF8, table.Encoding)
		assert.Equal(t, good, table.Path)
		assert.Len(t, table.Rows, 3)
	})

	t.Run("strict reader fails on latin-1", func(t *testing.T) {
		_, err := NewReader(StrictPolicy()).ReadFile(latin)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrEncodingExhausted))
		assertErrorType(t, err, apperrors.ErrTypeEncodingExhausted)
	})

	t.Run("fallback reader decodes latin-1", func(t *testing.T) {
		table, err := NewReader(FallbackPolicy()).ReadFile(latin)
		require.NoError(t, err)
		assert.Equal(t, EncodingLatin1, table.Encoding)
		assert.Equal(t, "Café", table.Rows[0][3])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewReader(nil).ReadFile(filepath.Join(dir, "nope.txt"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assertErrorType(t, err, apperrors.ErrTypeFileFailure)
	})

	t.Run("empty file", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.txt")
		require.NoError(t, os.WriteFile(empty, nil, 0644))
		_, err := NewReader(nil).ReadFile(empty)
		assert.ErrorIs(t, err, ErrEmptyFile)
		assertErrorType(t, err, apperrors.ErrTypeFileFailure)
	})
}

func assertErrorType(t *testing.T, err error, want apperrors.ErrorType) {
	t.Helper()
	got, ok := apperrors.TypeOf(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, want, got)
}
