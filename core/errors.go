package core

import "fmt"

// NotFoundError reports that an input path is missing, is not a regular
// file, or cannot be read.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("file not found: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// UnsupportedFormatError reports that the image container could not be
// decoded.
type UnsupportedFormatError struct {
	Path string
	Err  error
}

func (e *UnsupportedFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported image format: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("unsupported image format: %s", e.Path)
}

func (e *UnsupportedFormatError) Unwrap() error { return e.Err }

// FormatError reports a malformed metadata segment: a bad header, or an
// offset pointing past the end of the buffer.
type FormatError struct {
	Offset int64
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed metadata segment at offset %d: %s", e.Offset, e.Reason)
}

func NewNotFoundError(path string, err error) error {
	return &NotFoundError{Path: path, Err: err}
}

func NewUnsupportedFormatError(path string, err error) error {
	return &UnsupportedFormatError{Path: path, Err: err}
}

func NewFormatError(offset int64, format string, args ...interface{}) error {
	return &FormatError{Offset: offset, Reason: fmt.Sprintf(format, args...)}
}
