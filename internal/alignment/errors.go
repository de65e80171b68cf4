package alignment

import (
	"errors"
	"fmt"
)

// ErrFormat marks input that is not a recognized alignment container
// (BAM or SAM), or one so corrupt that no forward progress is possible.
var ErrFormat = errors.New("alignment: unrecognized format")

// IOError reports an alignment source that could not be opened or read.
// Open and read failures are never retried.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("alignment file %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// DecodeError describes one malformed record. The reader recovers from it
// by skipping the record; callers only see it through Options.OnSkip.
type DecodeError struct {
	Line int // 1-based line for SAM input, 0 for BAM
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("malformed record: %v", e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

func formatErrorf(path, format string, a ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrFormat, path, fmt.Sprintf(format, a...))
}
