package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/poiesic/trialdex/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestSnapshot(t *testing.T) *Snapshot {
	t.Helper()

	idx := NewFlatIndex(4)
	ids := NewIdentityMap()
	entries := []struct {
		key    core.TrialKey
		vector []float32
	}{
		{core.TrialKey{DatasetID: "cardio", TrialID: "NCT00000001"}, []float32{1, 0, 0, 0}},
		{core.TrialKey{DatasetID: "oncology", TrialID: "NCT00000002"}, []float32{0, 1, 0, 0}},
		{core.TrialKey{DatasetID: "oncology", TrialID: "NCT00000003"}, []float32{0, 0, 0.6, 0.8}},
	}
	for _, entry := range entries {
		slot, err := ids.Assign(entry.key)
		require.NoError(t, err)
		require.NoError(t, idx.Add(slot, entry.vector))
	}

	return newSnapshot(idx, ids, Metadata{
		Dimension:      4,
		ItemCount:      3,
		BuiltAt:        time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC),
		EmbeddingModel: "all-minilm",
	})
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots", "index.snapshot")
	snapshot := buildTestSnapshot(t)

	require.NoError(t, Save(path, snapshot))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	assert.Equal(t, snapshot.IDs().Keys(), loaded.IDs().Keys())
	assert.Equal(t, 3, loaded.Index().Len())
	assert.Equal(t, 4, loaded.Index().Dim())
	assert.Equal(t, "all-minilm", loaded.Metadata().EmbeddingModel)
	assert.Equal(t, path, loaded.Metadata().Location)
	assert.True(t, loaded.Metadata().BuiltAt.Equal(snapshot.meta.BuiltAt))

	// Vectors survive the round trip; search behaves identically
	before, err := snapshot.Index().Search([]float32{0, 0, 0.6, 0.8}, 1)
	require.NoError(t, err)
	after, err := loaded.Index().Search([]float32{0, 0, 0.6, 0.8}, 1)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadMissingFile(t *testing.T) {
	loaded, err := Load(filepath.Join(t.TempDir(), "absent.snapshot"))
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.snapshot")
	require.NoError(t, Save(path, buildTestSnapshot(t)))

	t.Run("flipped byte fails the checksum", func(t *testing.T) {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		data[len(data)/2] ^= 0xff
		corrupt := filepath.Join(t.TempDir(), "corrupt.snapshot")
		require.NoError(t, os.WriteFile(corrupt, data, 0644))

		_, err = Load(corrupt)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("truncated file is rejected", func(t *testing.T) {
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		truncated := filepath.Join(t.TempDir(), "truncated.snapshot")
		require.NoError(t, os.WriteFile(truncated, data[:len(data)/3], 0644))

		_, err = Load(truncated)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})

	t.Run("wrong magic is rejected", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.snapshot")
		require.NoError(t, os.WriteFile(bad, make([]byte, 64), 0644))

		_, err := Load(bad)
		assert.ErrorIs(t, err, ErrCorruptSnapshot)
	})
}

func TestSaveOverwritesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.snapshot")
	require.NoError(t, Save(path, buildTestSnapshot(t)))

	// A second save replaces the file without leaving temp files behind
	require.NoError(t, Save(path, buildTestSnapshot(t)))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "index.snapshot", entries[0].Name())
}
