package linkage

import (
	"scaffold/internal/contig"
)

// Side is one contig of an Edge together with the evidence boundary
// nearest the junction.
type Side struct {
	Contig   contig.Contig
	RefIndex int  // index in the alignment header
	AtEnd    bool // junction lies past the contig's end (else before its start)
	Boundary int  // 0-based coordinate closest to the junction
}

// widen moves the boundary toward the junction side chosen when the edge
// was created. Later records on the opposite strand still widen toward
// that side; they never flip it.
func (s *Side) widen(start, end int) {
	if s.AtEnd {
		if last := end - 1; last > s.Boundary {
			s.Boundary = last
		}
		return
	}
	if start < s.Boundary {
		s.Boundary = start
	}
}

// Edge aggregates the read pairs linking two distinct contigs.
// A.Contig.ID() sorts before B.Contig.ID().
type Edge struct {
	A, B  Side
	Count int
	Seq   int // creation order, 0-based
}

// Key identifies an unordered contig pair.
type Key struct {
	A, B string
}

// MakeKey orders the two identifiers so (x,y) and (y,x) collide.
func MakeKey(x, y string) Key {
	if y < x {
		x, y = y, x
	}
	return Key{A: x, B: y}
}

// Table is the edge table, iterable in creation order.
type Table struct {
	edges []*Edge
	index map[Key]*Edge
}

func newTable() *Table {
	return &Table{index: make(map[Key]*Edge, 1<<10)}
}

// Len returns the number of edges.
func (t *Table) Len() int { return len(t.edges) }

// Edges returns a copy of all edges in creation order.
func (t *Table) Edges() []Edge {
	out := make([]Edge, len(t.edges))
	for i, e := range t.edges {
		out[i] = *e
	}
	return out
}

// Get looks an edge up by its two contig identifiers, in either order.
func (t *Table) Get(x, y string) (Edge, bool) {
	e, ok := t.index[MakeKey(x, y)]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// observe records one qualifying pair. a and b must be on distinct contigs.
func (t *Table) observe(a, b end, rule BoundaryRule) {
	if b.contig.ID() < a.contig.ID() {
		a, b = b, a
	}
	k := Key{A: a.contig.ID(), B: b.contig.ID()}
	e, ok := t.index[k]
	if !ok {
		e = &Edge{
			A:   a.side(rule),
			B:   b.side(rule),
			Seq: len(t.edges),
		}
		t.index[k] = e
		t.edges = append(t.edges, e)
	}
	e.Count++
	e.A.widen(a.rec.Start, a.rec.End)
	e.B.widen(b.rec.Start, b.rec.End)
}
