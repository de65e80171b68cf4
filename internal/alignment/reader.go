// Package alignment decodes BAM or SAM input into Records, one forward
// pass in file order. Malformed records are skipped and counted.
package alignment

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"errors"
	"io"
	"os"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Format is the detected container type.
type Format int

const (
	FormatBAM Format = iota + 1
	FormatSAM
)

func (f Format) String() string {
	switch f {
	case FormatBAM:
		return "BAM"
	case FormatSAM:
		return "SAM"
	}
	return "unknown"
}

// DefaultMaxConsecutiveSkips bounds how many malformed records in a row are
// tolerated before the input is declared corrupt.
const DefaultMaxConsecutiveSkips = 1000

// Options tune a Reader.
type Options struct {
	MaxConsecutiveSkips int             // <=0 uses DefaultMaxConsecutiveSkips
	OnSkip              func(err error) // called once per skipped record
}

// Reader yields Records lazily. It is not safe for concurrent use.
type Reader struct {
	path   string
	closer io.Closer
	format Format
	hdr    *sam.Header
	opts   Options

	// BAM
	br *bam.Reader

	// SAM
	sc   *bufio.Scanner
	line int

	skipped     int
	consecutive int
}

// Open sniffs the container type of path ("-" reads stdin) and prepares
// a Reader positioned at the first record.
func Open(path string, opts Options) (*Reader, error) {
	if opts.MaxConsecutiveSkips <= 0 {
		opts.MaxConsecutiveSkips = DefaultMaxConsecutiveSkips
	}
	var (
		src    io.Reader
		closer io.Closer
	)
	if path == "-" {
		src, closer = os.Stdin, io.NopCloser(nil)
	} else {
		fh, err := os.Open(path)
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		src, closer = fh, fh
	}
	r, err := newReader(path, src, opts)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	r.closer = closer
	return r, nil
}

// NewReader wraps an already open stream. The caller keeps ownership of src.
func NewReader(src io.Reader, opts Options) (*Reader, error) {
	if opts.MaxConsecutiveSkips <= 0 {
		opts.MaxConsecutiveSkips = DefaultMaxConsecutiveSkips
	}
	return newReader("<stream>", src, opts)
}

func newReader(path string, src io.Reader, opts Options) (*Reader, error) {
	bufr := bufio.NewReaderSize(src, 64*1024)
	sig, err := bufr.Peek(2)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, &IOError{Path: path, Err: err}
	}
	r := &Reader{path: path, opts: opts}
	switch {
	case len(sig) == 2 && sig[0] == 0x1f && sig[1] == 0x8b:
		br, err := bam.NewReader(bufr, 0)
		if err != nil {
			return nil, formatErrorf(path, "not BAM: %v", err)
		}
		r.format, r.br, r.hdr = FormatBAM, br, br.Header()
	case len(sig) > 0 && looksLikeSAM(bufr):
		if err := r.initSAM(bufr); err != nil {
			return nil, err
		}
	default:
		return nil, formatErrorf(path, "neither BAM nor SAM")
	}
	return r, nil
}

// looksLikeSAM accepts a header line or a record line with the 11
// mandatory tab-separated columns.
func looksLikeSAM(bufr *bufio.Reader) bool {
	peek, _ := bufr.Peek(bufr.Size())
	if len(peek) == 0 {
		return false
	}
	if peek[0] == '@' {
		return true
	}
	first := peek
	if i := bytes.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return bytes.Count(first, []byte{'\t'}) >= 10 && bytes.IndexByte(first, 0) < 0
}

func (r *Reader) initSAM(bufr *bufio.Reader) error {
	var text []byte
	for {
		b, err := bufr.Peek(1)
		if err != nil || b[0] != '@' {
			break
		}
		line, err := bufr.ReadBytes('\n')
		r.line++
		text = append(text, line...)
		if err != nil {
			break
		}
	}
	if len(text) > 0 && text[len(text)-1] != '\n' {
		text = append(text, '\n')
	}
	h, err := sam.NewHeader(text, nil)
	if err != nil {
		return formatErrorf(r.path, "bad SAM header: %v", err)
	}
	sc := bufio.NewScanner(bufr)
	const maxLine = 64 * 1024 * 1024
	sc.Buffer(make([]byte, 64*1024), maxLine)
	r.format, r.hdr, r.sc = FormatSAM, h, sc
	return nil
}

// Format returns the detected container type.
func (r *Reader) Format() Format { return r.format }

// Header exposes the reference list and sort order.
func (r *Reader) Header() *sam.Header { return r.hdr }

// Skipped is the number of malformed records skipped so far.
func (r *Reader) Skipped() int { return r.skipped }

// Next returns the next record in file order, or io.EOF.
func (r *Reader) Next() (Record, error) {
	for {
		rec, err := r.read()
		if err == nil {
			r.consecutive = 0
			return fromSAM(rec), nil
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			return Record{}, err
		}
		r.skipped++
		r.consecutive++
		if r.opts.OnSkip != nil {
			r.opts.OnSkip(err)
		}
		if r.consecutive > r.opts.MaxConsecutiveSkips {
			return Record{}, formatErrorf(r.path, "%d consecutive malformed records", r.consecutive)
		}
	}
}

func (r *Reader) read() (*sam.Record, error) {
	if r.format == FormatBAM {
		rec, err := r.br.Read()
		if err == nil {
			return rec, nil
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if isStreamError(err) {
			return nil, &IOError{Path: r.path, Err: err}
		}
		return nil, &DecodeError{Err: err}
	}

	for r.sc.Scan() {
		r.line++
		line := bytes.TrimRight(r.sc.Bytes(), "\r")
		if len(line) == 0 {
			continue
		}
		// An RNAME missing from @SQ fails here and is skipped, the same as a
		// BAM refID outside the header. Header references absent from the
		// contig table are handled later, as lookup misses.
		var rec sam.Record
		if err := rec.UnmarshalSAM(r.hdr, line); err != nil {
			return nil, &DecodeError{Line: r.line, Err: err}
		}
		return &rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, &IOError{Path: r.path, Err: err}
	}
	return nil, io.EOF
}

// isStreamError separates container damage (truncation, bad compression)
// from a single undecodable record.
func isStreamError(err error) bool {
	var ce flate.CorruptInputError
	return errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, gzip.ErrChecksum) ||
		errors.Is(err, gzip.ErrHeader) ||
		errors.As(err, &ce)
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	var err error
	if r.br != nil {
		err = r.br.Close()
	}
	if r.closer != nil {
		if cerr := r.closer.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
