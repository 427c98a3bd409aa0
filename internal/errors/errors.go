package errors

import (
	stderrors "errors"
)

// Sentinel errors checked with errors.Is
var (
	// ErrInputDirMissing is returned when the input directory cannot be listed
	ErrInputDirMissing = stderrors.New("input directory missing")
	// ErrEncodingExhausted is wrapped by every decode failure
	ErrEncodingExhausted = stderrors.New("all candidate encodings failed")
	// ErrNoTextFiles is informational: the directory had no input files. It never fails a run.
	ErrNoTextFiles = stderrors.New("no text files found")
	// ErrUnknownEncoding is returned for an encoding name with no decoder
	ErrUnknownEncoding = stderrors.New("unknown encoding")
)

// TypeOf returns the ErrorType of the first AppError in err's chain
func TypeOf(err error) (ErrorType, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type, true
	}
	return "", false
}

// IsFatal reports whether err should abort the run
func IsFatal(err error) bool {
	t, ok := TypeOf(err)
	return ok && t == ErrTypeFatal
}
