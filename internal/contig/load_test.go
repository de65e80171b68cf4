package contig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inchworm = `>a1;43 K: 25 length: 12
ACGTACGT
ACGT
>a2;7
ACG

>a10;140 K: 25 length: 5
acgtn
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func writeGz(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	fh, err := os.Create(p)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte(data))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())
	return p
}

func TestLoadPlain(t *testing.T) {
	tab, err := Load(context.Background(), writeFile(t, "iworm.fa", inchworm))
	require.NoError(t, err)
	require.Equal(t, 3, tab.Len())

	c, ok := tab.Lookup("a1;43")
	require.True(t, ok)
	assert.Equal(t, Contig{Name: "a1", Score: 43, Length: 12, Index: 0}, c)

	c, ok = tab.Lookup("a10")
	require.True(t, ok)
	assert.Equal(t, 140, c.Score)
	assert.Equal(t, 5, c.Length)
	assert.Equal(t, 2, c.Index)
	assert.Equal(t, "a10;140", c.ID())

	_, ok = tab.Lookup("a3;1")
	assert.False(t, ok)
}

func TestLoadGzipDetectedByMagic(t *testing.T) {
	// no .gz suffix on purpose
	tab, err := Load(context.Background(), writeGz(t, "iworm.fa", inchworm))
	require.NoError(t, err)
	assert.Equal(t, 3, tab.Len())
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no score", ">a1\nACGT\n"},
		{"bad score", ">a1;x\nACGT\n"},
		{"duplicate", ">a1;3\nA\n>a1;3\nC\n"},
		{"sequence first", "ACGT\n>a1;3\nA\n"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(context.Background(), writeFile(t, "bad.fa", tc.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrFormat), "want ErrFormat, got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.fa"))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLookupAmbiguousBareName(t *testing.T) {
	tab, err := Load(context.Background(), writeFile(t, "amb.fa", ">x;1\nA\n>x;2\nC\n"))
	require.NoError(t, err)
	_, ok := tab.Lookup("x")
	assert.False(t, ok)
	c, ok := tab.Lookup("x;2")
	require.True(t, ok)
	assert.Equal(t, 1, c.Index)
}

func TestParseID(t *testing.T) {
	name, score, err := ParseID("a340;25")
	require.NoError(t, err)
	assert.Equal(t, "a340", name)
	assert.Equal(t, 25, score)

	for _, bad := range []string{"a340", ";25", "a340;", "a;b"} {
		_, _, err := ParseID(bad)
		assert.Error(t, err, bad)
	}
}
