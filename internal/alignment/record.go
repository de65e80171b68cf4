package alignment

import (
	"github.com/biogo/hts/sam"
)

// Record is one decoded alignment. Coordinates are 0-based, half-open.
type Record struct {
	Name     string
	Ref      string // reference (contig) name; "" when unmapped
	RefIndex int    // position in the header's reference list; -1 when unmapped
	Start    int
	End      int
	MapQ     int
	Flags    sam.Flags
}

// Reverse reports whether the read aligned to the reverse strand.
func (r Record) Reverse() bool { return r.Flags&sam.Reverse != 0 }

// Mapped reports whether the record places the read on a reference.
func (r Record) Mapped() bool { return r.Flags&sam.Unmapped == 0 && r.RefIndex >= 0 }

// Primary is false for secondary and supplementary alignments.
func (r Record) Primary() bool { return r.Flags&(sam.Secondary|sam.Supplementary) == 0 }

// Mate returns 1 or 2 for first/last segment of a template, 0 when unflagged.
func (r Record) Mate() int {
	switch {
	case r.Flags&sam.Read1 != 0:
		return 1
	case r.Flags&sam.Read2 != 0:
		return 2
	}
	return 0
}

func fromSAM(s *sam.Record) Record {
	rec := Record{
		Name:     s.Name,
		RefIndex: -1,
		Start:    s.Pos,
		End:      s.Pos,
		MapQ:     int(s.MapQ),
		Flags:    s.Flags,
	}
	if s.Ref != nil {
		rec.Ref = s.Ref.Name()
		rec.RefIndex = s.Ref.ID()
		rec.End = s.End()
	}
	return rec
}

// Filter drops records before pairing. The zero value keeps everything.
type Filter struct {
	MinMapQ        int
	DropQCFail     bool
	DropDuplicates bool
}

// Keep reports whether rec passes the filter.
func (f Filter) Keep(rec Record) bool {
	if rec.MapQ < f.MinMapQ {
		return false
	}
	if f.DropQCFail && rec.Flags&sam.QCFail != 0 {
		return false
	}
	if f.DropDuplicates && rec.Flags&sam.Duplicate != 0 {
		return false
	}
	return true
}
