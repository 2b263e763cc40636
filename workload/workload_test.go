package workload

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNested(t *testing.T) {
	tests := []struct {
		outer, inner int64
		want         Counters
	}{
		{500, 10000, Counters{I: 500, J: 10000, K: 5_000_000}},
		{10000, 10000, Counters{I: 10000, J: 10000, K: 100_000_000}},
		{3, 0, Counters{I: 3, J: 0, K: 0}},
		{0, 7, Counters{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Nested(tt.outer, tt.inner), "%dx%d", tt.outer, tt.inner)
	}
}

func TestNestedDiv(t *testing.T) {
	const seed = 12345678915678
	c := NestedDiv(250, 150, seed)
	assert.Equal(t, Counters{I: 250, J: 150, K: seed + 37500}, c)
	assert.Equal(t, int64((seed+37500)/divisor), Sink)
}

func TestScratch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")

	s, err := CreateScratch(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Path())

	for i := 0; i < 9; i++ {
		require.NoError(t, s.Put('a'))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Len(t, data, i+1, "each byte is flushed as it is written")
	}
	require.NoError(t, s.Close())

	var out bytes.Buffer
	require.NoError(t, s.Echo(&out))
	assert.Equal(t, "aaaaaaaaa", out.String())

	require.NoError(t, s.Remove())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestScratchAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	s, err := CreateScratch(path)
	require.NoError(t, err)
	require.NoError(t, s.Put('a'))
	require.NoError(t, s.Close())

	var out bytes.Buffer
	require.NoError(t, s.Echo(&out))
	assert.Equal(t, "xa", out.String())
}

func TestCreateScratchError(t *testing.T) {
	_, err := CreateScratch(filepath.Join(t.TempDir(), "missing", "output.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestEchoMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.txt")
	s, err := CreateScratch(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Remove())

	var out bytes.Buffer
	err = s.Echo(&out)
	var reopen *ReopenError
	require.ErrorAs(t, err, &reopen)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "Error reopening file for reading: ")
	assert.Zero(t, out.Len())
}
