package colorclass

import (
	"bytes"
	"encoding/gob"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	r := NewRaster(noisyImage(37, 21))
	require.NoError(t, Cluster(r, 9))

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, r))

	got, err := ReadSnapshot(&buf)
	require.NoError(t, err)
	assert.True(t, got.IsClassified())
	assert.Equal(t, r.Image().Pix, got.Image().Pix)
	assert.Equal(t, r.Labels().Pix, got.Labels().Pix)
	assert.Equal(t, r.Palette(), got.Palette())
	assert.Equal(t, r.Counts(), got.Counts())
	assert.Equal(t, r.Ranks(), got.Ranks())

	// A restored raster can be clustered again.
	require.NoError(t, Cluster(got, 3))
	assert.Equal(t, 3, got.NumClusters())
}

func TestSnapshotFile(t *testing.T) {
	r := newTestRaster(5, 5, func(x, y int) RGB {
		if (x+y)%2 == 0 {
			return green
		}
		return white
	})
	require.NoError(t, Cluster(r, 2))

	path := filepath.Join(t.TempDir(), "raster.snap")
	require.NoError(t, SaveSnapshot(r, path))
	got, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, r.Labels().Pix, got.Labels().Pix)

	_, err = LoadSnapshot(filepath.Join(t.TempDir(), "missing.snap"))
	assert.Error(t, err)
}

func TestSnapshotErrors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteSnapshot(&buf, newTestRaster(2, 2, func(int, int) RGB { return red })), ErrNotClassified)

	_, err := ReadSnapshot(bytes.NewBufferString("definitely not zstd"))
	assert.Error(t, err)
}

func TestSnapshotValidate(t *testing.T) {
	valid := func() snapshot {
		return snapshot{
			Width:   2,
			Height:  1,
			Pix:     make([]byte, 8),
			Labels:  []byte{0, 1},
			Palette: []RGB{red, blue},
			Counts:  []int{1, 1},
			Ranks:   []int{0, 1},
		}
	}
	s := valid()
	require.NoError(t, s.validate())

	tests := []struct {
		name   string
		mutate func(*snapshot)
	}{
		{"no pixels", func(s *snapshot) { s.Width = 0 }},
		{"short pix", func(s *snapshot) { s.Pix = s.Pix[:4] }},
		{"label out of range", func(s *snapshot) { s.Labels[1] = 2 }},
		{"ranks not a permutation", func(s *snapshot) { s.Ranks = []int{0, 0} }},
		{"counts mismatch", func(s *snapshot) { s.Counts = []int{2} }},
		{"empty palette", func(s *snapshot) { s.Palette = nil }},
		{"counts disagree with labels", func(s *snapshot) { s.Counts = []int{2, 0} }},
		{"negative count", func(s *snapshot) { s.Counts = []int{-1, 3} }},
		{"every cluster empty", func(s *snapshot) { s.Counts = []int{0, 0} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			assert.ErrorIs(t, s.validate(), ErrInvalidInput)
		})
	}

	// Corrupt metadata is rejected on read.
	s = valid()
	s.Ranks = []int{1, 1}
	_, err := ReadSnapshot(encodeSnapshot(t, &s))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReadSnapshotRejectsEmptyClusters(t *testing.T) {
	// One pixel labelled 0 while cluster 0 claims no pixels.
	s := snapshot{
		Width:   1,
		Height:  1,
		Pix:     []byte{1, 0, 0, 255},
		Labels:  []byte{0},
		Palette: []RGB{{R: 1}},
		Counts:  []int{0},
		Ranks:   []int{0},
	}
	r, err := ReadSnapshot(encodeSnapshot(t, &s))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, r)

	s.Counts = []int{1}
	r, err = ReadSnapshot(encodeSnapshot(t, &s))
	require.NoError(t, err)
	light, err := AtmosphericLight(r)
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 1}, light)
}

func encodeSnapshot(t *testing.T, s *snapshot) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	zw, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	require.NoError(t, gob.NewEncoder(zw).Encode(s))
	require.NoError(t, zw.Close())
	return &buf
}
