package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "message only",
			err:  NewAppError(ErrTypeConfig, "bad mode", nil),
			want: "[CONFIG] bad mode",
		},
		{
			name: "with file and cause",
			err:  NewFileError("a.txt", "failed to read file", stderrors.New("boom")),
			want: "[FILE_FAILURE] failed to read file (a.txt): boom",
		},
		{
			name: "export error",
			err:  NewExportError("out.xlsx", stderrors.New("disk full")),
			want: "[EXPORT] failed to write output (out.xlsx): disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := NewFileError("a.txt", "failed", cause)

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())

	wrapped := fmt.Errorf("processing: %w", err)
	var appErr *AppError
	require.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, "a.txt", appErr.File)
}

func TestAppError_WithContext(t *testing.T) {
	err := &AppError{Type: ErrTypeFileFailure, Message: "x"}
	err.WithContext("row", 12).WithContext("column", 4)

	assert.Equal(t, 12, err.Context["row"])
	assert.Equal(t, 4, err.Context["column"])
}

func TestNewDecodeError(t *testing.T) {
	last := stderrors.New("invalid byte 0x81")
	err := NewDecodeError("bad.txt", []string{"utf-8", "latin-1"}, last)

	assert.Equal(t, ErrTypeEncodingExhausted, err.Type)
	assert.Equal(t, "bad.txt", err.File)
	assert.True(t, stderrors.Is(err, ErrEncodingExhausted))
	assert.True(t, stderrors.Is(err, last))
	assert.Contains(t, err.Error(), "utf-8, latin-1")
	assert.Equal(t, []string{"utf-8", "latin-1"}, err.Context["encodings"])

	noLast := NewDecodeError("bad.txt", nil, nil)
	assert.True(t, stderrors.Is(noLast, ErrEncodingExhausted))
}
