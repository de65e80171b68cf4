// Package linkage turns paired-read alignments into inter-contig link
// evidence. Records are grouped by read name; a group whose two ends align
// uniquely to two different known contigs adds one unit of support to the
// edge between them.
package linkage

import (
	"fmt"

	"github.com/biogo/hts/sam"

	"scaffold/internal/alignment"
	"scaffold/internal/contig"
)

// BoundaryRule chooses which end of a contig faces the junction.
type BoundaryRule string

const (
	// BoundaryStrand: a forward-strand end points past the contig's end,
	// a reverse-strand end points before its start.
	BoundaryStrand BoundaryRule = "strand"
	// BoundaryStart always uses the minimum aligned start.
	BoundaryStart BoundaryRule = "start"
	// BoundaryEnd always uses the maximum aligned end.
	BoundaryEnd BoundaryRule = "end"
)

// Grouping chooses how records sharing a read name are collected.
type Grouping string

const (
	GroupAuto     Grouping = "auto"     // adjacent for SO:queryname input, else buffered
	GroupAdjacent Grouping = "adjacent" // a group ends when the read name changes
	GroupBuffered Grouping = "buffered" // groups are resolved at end of stream
)

// Resolve picks a concrete grouping for input with the given sort order.
func (g Grouping) Resolve(so sam.SortOrder) Grouping {
	if g != GroupAuto && g != "" {
		return g
	}
	if so == sam.QueryName {
		return GroupAdjacent
	}
	return GroupBuffered
}

// Options configure an Aggregator.
type Options struct {
	Boundary BoundaryRule
	Grouping Grouping // must be resolved; GroupAuto behaves as GroupBuffered
	Filter   alignment.Filter
}

// Reason classifies the outcome of one read group.
type Reason int

const (
	Linked Reason = iota
	Secondary
	MissingMate
	NonUnique
	Unmapped
	Filtered
	SameContig
	UnknownContig
	numReasons
)

var reasonNames = [numReasons]string{
	"linked", "secondary_only", "missing_mate", "non_unique",
	"unmapped", "filtered", "same_contig", "unknown_contig",
}

func (r Reason) String() string {
	if r < 0 || r >= numReasons {
		return fmt.Sprintf("reason(%d)", int(r))
	}
	return reasonNames[r]
}

// Stats counts what the aggregator saw.
type Stats struct {
	Records int
	Groups  int
	Reasons [numReasons]int
}

// Each calls fn for every reason in declaration order.
func (s Stats) Each(fn func(r Reason, n int)) {
	for r := Reason(0); r < numReasons; r++ {
		fn(r, s.Reasons[r])
	}
}

// end is one resolved mate of a pair.
type end struct {
	rec    alignment.Record
	contig contig.Contig
}

func (e end) side(rule BoundaryRule) Side {
	s := Side{Contig: e.contig, RefIndex: e.rec.RefIndex}
	switch rule {
	case BoundaryStart:
		s.AtEnd = false
	case BoundaryEnd:
		s.AtEnd = true
	default:
		s.AtEnd = !e.rec.Reverse()
	}
	if s.AtEnd {
		s.Boundary = e.rec.End - 1
	} else {
		s.Boundary = e.rec.Start
	}
	return s
}

type group struct {
	name       string
	r0, r1, r2 []alignment.Record // primary records: unflagged, read1, read2
}

func (g *group) add(rec alignment.Record) {
	if !rec.Primary() {
		return
	}
	switch rec.Mate() {
	case 1:
		g.r1 = append(g.r1, rec)
	case 2:
		g.r2 = append(g.r2, rec)
	default:
		g.r0 = append(g.r0, rec)
	}
}

// ends splits the group's primaries into the two template ends.
// Unflagged primaries fill whichever end is still empty, in file order.
func (g *group) ends() (e1, e2 []alignment.Record) {
	e1, e2 = g.r1, g.r2
	for _, rec := range g.r0 {
		if len(e1) == 0 {
			e1 = append(e1, rec)
		} else {
			e2 = append(e2, rec)
		}
	}
	return e1, e2
}

// Aggregator accumulates edges. It is not safe for concurrent use; the
// table it builds is handed to the caller by Finish.
type Aggregator struct {
	contigs *contig.Table
	opts    Options
	table   *Table
	stats   Stats

	cur     *group            // GroupAdjacent
	pending map[string]*group // GroupBuffered
	order   []string
}

// NewAggregator returns an Aggregator resolving contigs through t.
func NewAggregator(t *contig.Table, opts Options) *Aggregator {
	if opts.Boundary == "" {
		opts.Boundary = BoundaryStrand
	}
	a := &Aggregator{contigs: t, opts: opts, table: newTable()}
	if opts.Grouping != GroupAdjacent {
		a.pending = make(map[string]*group)
	}
	return a
}

// Add consumes one record. Records must arrive in file order.
func (a *Aggregator) Add(rec alignment.Record) {
	a.stats.Records++
	if a.pending == nil {
		if a.cur != nil && a.cur.name != rec.Name {
			a.resolve(a.cur)
			a.cur = nil
		}
		if a.cur == nil {
			a.cur = &group{name: rec.Name}
		}
		a.cur.add(rec)
		return
	}
	g, ok := a.pending[rec.Name]
	if !ok {
		g = &group{name: rec.Name}
		a.pending[rec.Name] = g
		a.order = append(a.order, rec.Name)
	}
	g.add(rec)
}

// Finish resolves any open groups and returns the edge table and stats.
// The Aggregator must not be used afterwards.
func (a *Aggregator) Finish() (*Table, Stats) {
	if a.cur != nil {
		a.resolve(a.cur)
		a.cur = nil
	}
	for _, name := range a.order {
		a.resolve(a.pending[name])
		delete(a.pending, name)
	}
	a.order = nil
	t := a.table
	a.table = nil
	return t, a.stats
}

func (a *Aggregator) resolve(g *group) {
	a.stats.Groups++
	r := a.classify(g)
	a.stats.Reasons[r]++
}

func (a *Aggregator) classify(g *group) Reason {
	if len(g.r0)+len(g.r1)+len(g.r2) == 0 {
		return Secondary
	}
	e1, e2 := g.ends()
	switch {
	case len(e1) == 0 || len(e2) == 0:
		return MissingMate
	case len(e1) > 1 || len(e2) > 1:
		return NonUnique
	}
	x, y := e1[0], e2[0]
	if !x.Mapped() || !y.Mapped() {
		return Unmapped
	}
	if !a.opts.Filter.Keep(x) || !a.opts.Filter.Keep(y) {
		return Filtered
	}
	if x.RefIndex == y.RefIndex {
		return SameContig
	}
	cx, okx := a.contigs.Lookup(x.Ref)
	cy, oky := a.contigs.Lookup(y.Ref)
	if !okx || !oky {
		return UnknownContig
	}
	if cx.Index == cy.Index {
		return SameContig
	}
	a.table.observe(end{rec: x, contig: cx}, end{rec: y, contig: cy}, a.opts.Boundary)
	return Linked
}
