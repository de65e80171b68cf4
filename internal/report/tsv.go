// internal/report/tsv.go
package report

import (
	"bufio"
	"fmt"
	"io"

	"scaffold/internal/linkage"
)

// Coord selects the per-contig coordinate column.
type Coord string

const (
	// CoordBoundary prints the extremal alignment coordinate nearest the junction.
	CoordBoundary Coord = "boundary"
	// CoordIndex prints the contig's index in the alignment header.
	CoordIndex Coord = "index"
)

// TSVHeader is the optional header row.
const TSVHeader = "contig_a\tcoord_a\tcontig_b\tcoord_b\tsupport"

// Options control rendering.
type Options struct {
	Coord      Coord
	Header     bool
	MinSupport int // edges below this are dropped; <=1 keeps all
}

func (o Options) coord(s linkage.Side) int {
	if o.Coord == CoordIndex {
		return s.RefIndex
	}
	return s.Boundary
}

// FormatLine renders one edge without the trailing newline.
func FormatLine(e linkage.Edge, o Options) string {
	return fmt.Sprintf("%s\t%d\t%s\t%d\t%d",
		e.A.Contig.ID(), o.coord(e.A),
		e.B.Contig.ID(), o.coord(e.B),
		e.Count,
	)
}

// WriteTSV writes the ranked edges, one line each, and flushes.
// It returns the number of lines written (header excluded).
func WriteTSV(w io.Writer, ranked []linkage.Edge, o Options) (int, error) {
	bw := bufio.NewWriter(w)
	if o.Header {
		if _, err := fmt.Fprintln(bw, TSVHeader); err != nil {
			return 0, err
		}
	}
	n := 0
	for _, e := range ranked {
		if e.Count < o.MinSupport {
			continue
		}
		if _, err := fmt.Fprintln(bw, FormatLine(e, o)); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}
