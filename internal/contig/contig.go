// Package contig holds the read-only contig lookup table built from the
// assembler's FASTA output. Identifiers have the form "name;score".
package contig

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Contig is one assembled fragment.
type Contig struct {
	Name   string // identifier before ';'
	Score  int    // assembly-time score after ';'
	Length int    // bases
	Index  int    // 0-based order in the contig file
}

// ID returns the full "name;score" identifier.
func (c Contig) ID() string { return c.Name + ";" + strconv.Itoa(c.Score) }

var errBadID = errors.New("identifier is not name;score")

// ParseID splits "name;score".
func ParseID(id string) (name string, score int, err error) {
	i := strings.LastIndexByte(id, ';')
	if i <= 0 || i == len(id)-1 {
		return "", 0, errBadID
	}
	score, err = strconv.Atoi(id[i+1:])
	if err != nil {
		return "", 0, errBadID
	}
	return id[:i], score, nil
}

// Table maps identifiers to contigs. Safe for concurrent reads.
type Table struct {
	contigs []Contig
	byID    map[string]int
	byName  map[string]int // -1 when the bare name is ambiguous
}

func newTable() *Table {
	return &Table{
		byID:   make(map[string]int),
		byName: make(map[string]int),
	}
}

// NewTable builds a table from contigs in order; Index is reassigned.
func NewTable(cs ...Contig) (*Table, error) {
	t := newTable()
	for _, c := range cs {
		if !t.add(c) {
			return nil, fmt.Errorf("%w: duplicate contig %q", ErrFormat, c.ID())
		}
	}
	return t, nil
}

func (t *Table) add(c Contig) bool {
	id := c.ID()
	if _, dup := t.byID[id]; dup {
		return false
	}
	c.Index = len(t.contigs)
	t.contigs = append(t.contigs, c)
	t.byID[id] = c.Index
	if _, seen := t.byName[c.Name]; seen {
		t.byName[c.Name] = -1
	} else {
		t.byName[c.Name] = c.Index
	}
	return true
}

// Lookup resolves either a full "name;score" identifier or a bare name.
func (t *Table) Lookup(id string) (Contig, bool) {
	if i, ok := t.byID[id]; ok {
		return t.contigs[i], true
	}
	if i, ok := t.byName[id]; ok && i >= 0 {
		return t.contigs[i], true
	}
	return Contig{}, false
}

// Len returns the number of contigs.
func (t *Table) Len() int { return len(t.contigs) }

// At returns the i-th contig in file order.
func (t *Table) At(i int) Contig { return t.contigs[i] }
