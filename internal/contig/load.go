// internal/contig/load.go
package contig

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
)

// Load scans a FASTA file (plain, gzip or "-" for stdin) into a Table.
// Only headers and sequence lengths are kept.
// Cancellation via ctx is honored between lines.
func Load(ctx context.Context, path string) (*Table, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	sc := bufio.NewScanner(rc)
	const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var (
		t      = newTable()
		cur    Contig
		inRec  bool
		lineNo int
	)

	flush := func() error {
		if !inRec {
			return nil
		}
		if !t.add(cur) {
			return formatErrorf(path, "duplicate contig %q", cur.ID())
		}
		return nil
	}

	for sc.Scan() {
		lineNo++
		if lineNo&0x3ff == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		if line[0] == '>' {
			if err := flush(); err != nil {
				return nil, err
			}
			id := parseHeaderID(line[1:])
			name, score, perr := ParseID(id)
			if perr != nil {
				return nil, formatErrorf(path, "line %d: header %q: %v", lineNo, id, perr)
			}
			cur = Contig{Name: name, Score: score}
			inRec = true
			continue
		}
		if !inRec {
			return nil, formatErrorf(path, "line %d: sequence before first header", lineNo)
		}
		cur.Length += len(bytes.TrimSpace(line))
	}
	if err := sc.Err(); err != nil {
		return nil, &IOError{Path: path, Err: fmt.Errorf("fasta scan: %w", err)}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if t.Len() == 0 {
		return nil, formatErrorf(path, "no FASTA records")
	}
	return t, nil
}

func parseHeaderID(hdr []byte) string {
	hdr = bytes.TrimSpace(hdr)
	if i := bytes.IndexAny(hdr, " \t"); i >= 0 {
		return string(hdr[:i])
	}
	return string(hdr)
}
