package contig

import (
	"errors"
	"fmt"
)

// ErrFormat marks a contig file that is not FASTA with name;score headers.
var ErrFormat = errors.New("contig: unrecognized format")

// IOError reports a contig file that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("contig file %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

func formatErrorf(path, format string, a ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrFormat, path, fmt.Sprintf(format, a...))
}
