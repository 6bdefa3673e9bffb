package objfile

import "fmt"

// DecodeError reports a malformed object file. It carries the byte
// offset where the problem was detected so a caller can report it
// without re-deriving the cursor position.
type DecodeError struct {
	Offset  int
	Message string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("object file decode error at byte %d: %s", e.Offset, e.Message)
}

func newDecodeError(offset int, format string, args ...any) error {
	return &DecodeError{Offset: offset, Message: fmt.Sprintf(format, args...)}
}
