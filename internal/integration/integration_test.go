// internal/integration/integration_test.go
package integration

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/biogo/hts/sam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scaffold/internal/alignment/alignmenttest"
	"scaffold/internal/app"
)

// inchworm-style contig scores; every other contig scores 1.
var scores = map[int]int{
	1: 43, 3: 61, 9: 40, 37: 14, 40: 12, 339: 142, 340: 25, 345: 34, 346: 23,
	354: 96, 368: 13, 432: 9, 689: 4, 719: 8, 774: 6, 832: 15,
}

const numContigs = 832

func id(n int) string {
	s, ok := scores[n]
	if !ok {
		s = 1
	}
	return fmt.Sprintf("a%d;%d", n, s)
}

// links in creation order; (a10,a20) ties with (a689,a774) but is seen later.
var links = []struct{ a, b, n int }{
	{340, 9, 41},
	{719, 832, 33},
	{1, 346, 31},
	{346, 9, 26},
	{339, 37, 25},
	{3, 432, 23},
	{345, 40, 21},
	{354, 368, 18},
	{689, 774, 13},
	{10, 20, 13},
	{5, 6, 2},
}

var wantTop = []string{
	"a340;25\t339\ta9;40\t8\t41",
	"a719;8\t718\ta832;15\t831\t33",
	"a1;43\t0\ta346;23\t345\t31",
	"a346;23\t345\ta9;40\t8\t26",
	"a339;142\t338\ta37;14\t36\t25",
	"a3;61\t2\ta432;9\t431\t23",
	"a345;34\t344\ta40;12\t39\t21",
	"a354;96\t353\ta368;13\t367\t18",
	"a689;4\t688\ta774;6\t773\t13",
}

func fixtureContigs(t *testing.T) string {
	var b strings.Builder
	for n := 1; n <= numContigs; n++ {
		fmt.Fprintf(&b, ">%s K: 25 length: 200\n%s\n", id(n), strings.Repeat("ACGT", 50))
	}
	return alignmenttest.WriteFile(t, "inchworm.K25.L25.fa", b.String())
}

func fixtureRefs() []alignmenttest.Ref {
	refs := make([]alignmenttest.Ref, 0, numContigs)
	for n := 1; n <= numContigs; n++ {
		refs = append(refs, alignmenttest.Ref{Name: id(n), Len: 200})
	}
	return refs
}

func fixtureRecords() []alignmenttest.Rec {
	var recs []alignmenttest.Rec
	read := 0
	for _, l := range links {
		for i := 0; i < l.n; i++ {
			read++
			name := fmt.Sprintf("read%06d", read)
			recs = append(recs, alignmenttest.Pair(name, id(l.a), 150+i%40, false, id(l.b), 10+i%30, true)...)
		}
		// noise that must never count
		read++
		recs = append(recs, alignmenttest.Pair(fmt.Sprintf("read%06d", read), id(l.a), 5, false, id(l.a), 120, true)...)
		read++
		recs = append(recs, alignmenttest.Rec{Name: fmt.Sprintf("read%06d", read), Flags: sam.Paired | sam.Read1, Ref: id(l.b), Pos: 3, MapQ: 60, Len: 10})
	}
	return recs
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errBuf bytes.Buffer
	code := app.RunContext(context.Background(), args, &out, &errBuf)
	return out.String(), errBuf.String(), code
}

func lines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestRankedFixtureDefaultInvocation(t *testing.T) {
	bam := alignmenttest.WriteBAM(t, sam.QueryName, fixtureRefs(), fixtureRecords())
	fa := fixtureContigs(t)

	out, errOut, code := run(t, bam, fa)
	require.Equal(t, 0, code, errOut)

	got := lines(out)
	require.Len(t, got, len(links))
	assert.Equal(t, wantTop, got[:9])
	assert.Equal(t, "a10;1\t9\ta20;1\t19\t13", got[9])

	prev := int(^uint(0) >> 1)
	for _, line := range got {
		f := strings.Split(line, "\t")
		require.Len(t, f, 5)
		assert.NotEqual(t, f[0], f[2], "self link: %s", line)
		w, err := strconv.Atoi(f[4])
		require.NoError(t, err)
		assert.LessOrEqual(t, w, prev)
		prev = w
	}
}

func TestBoundaryCoordinates(t *testing.T) {
	sp := alignmenttest.WriteSAM(t, "queryname", fixtureRefs(), fixtureRecords())
	out, errOut, code := run(t, "--coord", "boundary", sp, fixtureContigs(t))
	require.Equal(t, 0, code, errOut)

	// a340 ends are forward at 150..189 (+10): last base 198;
	// a9 ends are reverse starting at 10..39: first base 10.
	assert.Equal(t, "a340;25\t198\ta9;40\t10\t41", lines(out)[0])
}

func TestIdempotent(t *testing.T) {
	bam := alignmenttest.WriteBAM(t, sam.QueryName, fixtureRefs(), fixtureRecords())
	fa := fixtureContigs(t)
	first, _, code := run(t, bam, fa)
	require.Equal(t, 0, code)
	second, _, code := run(t, bam, fa)
	require.Equal(t, 0, code)
	assert.Equal(t, first, second)
}

func TestSAMAndBAMAgree(t *testing.T) {
	fa := fixtureContigs(t)
	bam := alignmenttest.WriteBAM(t, sam.QueryName, fixtureRefs(), fixtureRecords())
	sp := alignmenttest.WriteSAM(t, "queryname", fixtureRefs(), fixtureRecords())
	a, _, _ := run(t, bam, fa)
	b, _, _ := run(t, sp, fa)
	require.NotEmpty(t, a)
	assert.Equal(t, a, b)
}

func TestNoQualifyingPairs(t *testing.T) {
	recs := alignmenttest.Pair("r1", id(1), 0, false, id(1), 100, true)
	sp := alignmenttest.WriteSAM(t, "queryname", fixtureRefs(), recs)
	out, errOut, code := run(t, sp, fixtureContigs(t))
	assert.Equal(t, 0, code, errOut)
	assert.Empty(t, out)
}

func TestOneCorruptRecord(t *testing.T) {
	fa := fixtureContigs(t)
	clean := alignmenttest.SAMText("queryname", fixtureRefs(), fixtureRecords())
	ls := strings.SplitAfter(clean, "\n")
	at := numContigs + 1 + 7 // somewhere inside the first link's reads
	corrupt := strings.Join(ls[:at], "") + "read999999\tNaN\t*\n" + strings.Join(ls[at:], "")

	want, _, code := run(t, alignmenttest.WriteFile(t, "clean.sam", clean), fa)
	require.Equal(t, 0, code)
	got, errOut, code := run(t, alignmenttest.WriteFile(t, "corrupt.sam", corrupt), fa)
	require.Equal(t, 0, code)

	assert.Equal(t, want, got)
	assert.Contains(t, errOut, "skipped malformed alignment records")
	assert.Contains(t, errOut, `"skipped": "1"`)
}

func TestInputFailures(t *testing.T) {
	fa := fixtureContigs(t)
	sp := alignmenttest.WriteSAM(t, "queryname", fixtureRefs(), nil)
	notAln := alignmenttest.WriteFile(t, "notes.txt", "hello world\n")
	badFa := alignmenttest.WriteFile(t, "bad.fa", ">no_score\nACGT\n")

	cases := []struct {
		name string
		args []string
	}{
		{"missing alignment", []string{"/nonexistent/aln.bam", fa}},
		{"missing contigs", []string{sp, "/nonexistent/iworm.fa"}},
		{"alignment not a container", []string{notAln, fa}},
		{"contig header without score", []string{sp, badFa}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, _, code := run(t, tc.args...)
			assert.Equal(t, 3, code)
			assert.Empty(t, out)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	_, _, code := run(t, "only-one.bam")
	assert.Equal(t, 2, code)
	_, errOut, code := run(t, "--coord", "middle", "a.bam", "c.fa")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "coord=middle")

	out, _, code := run(t)
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "Coordinate column: index | boundary [index]")
}

func TestConfigFile(t *testing.T) {
	cfg := alignmenttest.WriteFile(t, "scaffold.yaml", "min_support: 20\nheader: true\n")
	bam := alignmenttest.WriteBAM(t, sam.QueryName, fixtureRefs(), fixtureRecords())
	out, errOut, code := run(t, "--config", cfg, bam, fixtureContigs(t))
	require.Equal(t, 0, code, errOut)
	got := lines(out)
	require.Len(t, got, 1+7)
	assert.Equal(t, "contig_a\tcoord_a\tcontig_b\tcoord_b\tsupport", got[0])
	assert.Equal(t, wantTop[:7], got[1:])
}

func TestCancelled(t *testing.T) {
	bam := alignmenttest.WriteBAM(t, sam.QueryName, fixtureRefs(), fixtureRecords())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out, errBuf bytes.Buffer
	code := app.RunContext(ctx, []string{bam, fixtureContigs(t)}, &out, &errBuf)
	assert.Equal(t, 130, code)
	assert.Empty(t, out.String())
}
