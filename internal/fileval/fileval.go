// Package fileval rejects inputs that cannot be SQL text before they reach
// the parser: binary content and invalid UTF-8.
package fileval

import (
	"bytes"
	"fmt"
	"unicode/utf8"
)

// BinaryFileError is returned when the content contains a NUL byte. The
// parser reads NUL-terminated strings, so such input would be truncated.
type BinaryFileError struct {
	Path   string
	Offset int
}

func (e *BinaryFileError) Error() string {
	return fmt.Sprintf("file appears to be binary (NUL byte at offset %d)", e.Offset)
}

// NotUTF8Error is returned when the content is not valid UTF-8 text.
type NotUTF8Error struct {
	Path   string
	Offset int
}

func (e *NotUTF8Error) Error() string {
	return fmt.Sprintf("file does not appear to be valid UTF-8 text (invalid byte at offset %d)", e.Offset)
}

// Check validates content read from path.
func Check(path string, content []byte) error {
	if i := bytes.IndexByte(content, 0); i >= 0 {
		return &BinaryFileError{Path: path, Offset: i}
	}
	if i := invalidUTF8(content); i >= 0 {
		return &NotUTF8Error{Path: path, Offset: i}
	}
	return nil
}

// invalidUTF8 returns the offset of the first byte that does not start a
// valid UTF-8 sequence, or -1.
func invalidUTF8(content []byte) int {
	if utf8.Valid(content) {
		return -1
	}
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
