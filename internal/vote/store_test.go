package vote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutRecord(t *testing.T) {
	store := NewStore(t.TempDir())

	record, err := store.Load(DefaultPollID)
	require.NoError(t, err)
	assert.Empty(t, record)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	record := VoteRecord{
		"Monday (2025-09-01)":  {"U1", "U2"},
		"Tuesday (2025-09-02)": {},
		"Friday (2025-09-05)":  {"U3"},
	}
	require.NoError(t, store.Save(DefaultPollID, record))

	loaded, err := store.Load(DefaultPollID)
	require.NoError(t, err)
	assert.Equal(t, record, loaded)
}

func TestSaveOverwritesWholeRecord(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save(DefaultPollID, VoteRecord{"Mon": {"U1"}, "Tue": {"U2"}}))
	require.NoError(t, store.Save(DefaultPollID, VoteRecord{"Wed": {"U3"}}))

	loaded, err := store.Load(DefaultPollID)
	require.NoError(t, err)
	assert.Equal(t, VoteRecord{"Wed": {"U3"}}, loaded)
}

func TestSaveLeavesNoTemporaryFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	require.NoError(t, store.Save(DefaultPollID, VoteRecord{"Mon": {"U1"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DefaultPollID+".json", entries[0].Name())
}

func TestPollIdsAreIndependent(t *testing.T) {
	store := NewStore(t.TempDir())

	require.NoError(t, store.Save("first", VoteRecord{"Mon": {"U1"}}))
	require.NoError(t, store.Save("second", VoteRecord{"Tue": {"U2"}}))

	first, err := store.Load("first")
	require.NoError(t, err)
	assert.Equal(t, VoteRecord{"Mon": {"U1"}}, first)

	second, err := store.Load("second")
	require.NoError(t, err)
	assert.Equal(t, VoteRecord{"Tue": {"U2"}}, second)
}

func TestLoadCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultPollID+".json"), []byte("not json"), 0o644))

	_, err := store.Load(DefaultPollID)
	assert.Error(t, err)
}
