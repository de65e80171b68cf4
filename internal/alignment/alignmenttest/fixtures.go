// Package alignmenttest builds small SAM and BAM fixtures for tests.
package alignmenttest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
)

// Ref is a reference sequence in the fixture header.
type Ref struct {
	Name string
	Len  int
}

// Rec is one alignment line. Ref == "" means unmapped. Pos is 0-based.
type Rec struct {
	Name  string
	Flags sam.Flags
	Ref   string
	Pos   int
	MapQ  int
	Len   int // read length; aligned as a single M run
}

// Pair returns a flagged read1/read2 mate pair placed on two references.
// revA and revB put the respective end on the reverse strand.
func Pair(name string, refA string, posA int, revA bool, refB string, posB int, revB bool) []Rec {
	fa := sam.Paired | sam.Read1
	fb := sam.Paired | sam.Read2
	if revA {
		fa |= sam.Reverse
		fb |= sam.MateReverse
	}
	if revB {
		fb |= sam.Reverse
		fa |= sam.MateReverse
	}
	return []Rec{
		{Name: name, Flags: fa, Ref: refA, Pos: posA, MapQ: 60, Len: 10},
		{Name: name, Flags: fb, Ref: refB, Pos: posB, MapQ: 60, Len: 10},
	}
}

// SAMText renders a SAM document. sortOrder is the SO header value
// ("queryname", "coordinate", "unsorted" or "" for none).
func SAMText(sortOrder string, refs []Ref, recs []Rec) string {
	var b strings.Builder
	b.WriteString("@HD\tVN:1.0")
	if sortOrder != "" {
		b.WriteString("\tSO:" + sortOrder)
	}
	b.WriteByte('\n')
	for _, r := range refs {
		fmt.Fprintf(&b, "@SQ\tSN:%s\tLN:%d\n", r.Name, r.Len)
	}
	for _, r := range recs {
		b.WriteString(SAMLine(r))
		b.WriteByte('\n')
	}
	return b.String()
}

// SAMLine renders one record without the trailing newline.
func SAMLine(r Rec) string {
	n := r.Len
	if n <= 0 {
		n = 10
	}
	seq := strings.Repeat("A", n)
	if r.Ref == "" {
		return fmt.Sprintf("%s\t%d\t*\t0\t0\t*\t*\t0\t0\t%s\t*", r.Name, int(r.Flags|sam.Unmapped), seq)
	}
	return fmt.Sprintf("%s\t%d\t%s\t%d\t%d\t%dM\t*\t0\t0\t%s\t*", r.Name, int(r.Flags), r.Ref, r.Pos+1, r.MapQ, n, seq)
}

// WriteFile writes data under t.TempDir and returns the path.
func WriteFile(t testing.TB, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

// WriteSAM writes a SAM fixture and returns its path.
func WriteSAM(t testing.TB, sortOrder string, refs []Ref, recs []Rec) string {
	t.Helper()
	return WriteFile(t, "aln.sam", SAMText(sortOrder, refs, recs))
}

// WriteBAM writes a BAM fixture and returns its path.
func WriteBAM(t testing.TB, so sam.SortOrder, refs []Ref, recs []Rec) string {
	t.Helper()
	var srefs []*sam.Reference
	byName := make(map[string]*sam.Reference, len(refs))
	for _, r := range refs {
		ref, err := sam.NewReference(r.Name, "", "", r.Len, nil, nil)
		if err != nil {
			t.Fatalf("reference %s: %v", r.Name, err)
		}
		srefs = append(srefs, ref)
		byName[r.Name] = ref
	}
	h, err := sam.NewHeader(nil, srefs)
	if err != nil {
		t.Fatalf("header: %v", err)
	}
	h.Version = "1.0"
	h.SortOrder = so

	p := filepath.Join(t.TempDir(), "aln.bam")
	fh, err := os.Create(p)
	if err != nil {
		t.Fatalf("create %s: %v", p, err)
	}
	defer fh.Close()
	w, err := bam.NewWriter(fh, h, 1)
	if err != nil {
		t.Fatalf("bam writer: %v", err)
	}
	for _, r := range recs {
		n := r.Len
		if n <= 0 {
			n = 10
		}
		seq := []byte(strings.Repeat("A", n))
		qual := []byte(strings.Repeat("I", n))
		var (
			ref   *sam.Reference
			pos   = -1
			cigar []sam.CigarOp
			flags = r.Flags
		)
		if r.Ref != "" {
			ref = byName[r.Ref]
			pos = r.Pos
			cigar = []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, n)}
		} else {
			flags |= sam.Unmapped
		}
		rec, err := sam.NewRecord(r.Name, ref, nil, pos, -1, 0, byte(r.MapQ), cigar, seq, qual, nil)
		if err != nil {
			t.Fatalf("record %s: %v", r.Name, err)
		}
		rec.Flags = flags
		if err := w.Write(rec); err != nil {
			t.Fatalf("write record: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close bam: %v", err)
	}
	return p
}
