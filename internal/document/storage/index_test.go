package storage

import (
	"os"
	"sync"
	"testing"
	"time"

	"shareboard/internal/document/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPaths(t *testing.T) Paths {
	t.Helper()
	paths := NewPaths(t.TempDir())
	require.NoError(t, paths.Ensure())
	return paths
}

func record(id, title string) model.DocumentRecord {
	now := time.Now()
	return model.DocumentRecord{
		ID:        id,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestLoadAllMissingFileIsEmpty(t *testing.T) {
	ix := NewIndex(testPaths(t))
	assert.Empty(t, ix.LoadAll())
}

func TestSaveAllRoundTrip(t *testing.T) {
	ix := NewIndex(testPaths(t))

	records := []model.DocumentRecord{record("1", "Alpha"), record("2", "Beta")}
	require.NoError(t, ix.SaveAll(records))

	loaded := ix.LoadAll()
	require.Len(t, loaded, 2)
	assert.Equal(t, "1", loaded[0].ID)
	assert.Equal(t, "Alpha", loaded[0].Title)
	assert.Equal(t, "2", loaded[1].ID)
}

func TestCorruptIndexIsEmptyAndFiresHook(t *testing.T) {
	paths := testPaths(t)
	require.NoError(t, os.WriteFile(paths.IndexFile(), []byte("{not json"), 0o644))

	ix := NewIndex(paths)
	var hookErr error
	ix.OnCorrupt(func(err error) { hookErr = err })

	assert.Empty(t, ix.LoadAll())
	assert.Error(t, hookErr, "corruption hook should have fired")
}

func TestMutateErrorLeavesIndexUntouched(t *testing.T) {
	ix := NewIndex(testPaths(t))
	require.NoError(t, ix.SaveAll([]model.DocumentRecord{record("1", "Alpha")}))

	wantErr := assert.AnError
	err := ix.Mutate(func(records []model.DocumentRecord) ([]model.DocumentRecord, error) {
		return nil, wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	loaded := ix.LoadAll()
	require.Len(t, loaded, 1)
	assert.Equal(t, "Alpha", loaded[0].Title)
}

func TestNextIDIsMonotonic(t *testing.T) {
	ix := NewIndex(testPaths(t))

	for i, want := range []string{"1", "2", "3"} {
		id, err := ix.NextID()
		require.NoError(t, err, "call %d", i)
		assert.Equal(t, want, id)
	}
}

func TestNextIDRebuildsFromIndexWhenSequenceMissing(t *testing.T) {
	paths := testPaths(t)
	ix := NewIndex(paths)
	require.NoError(t, ix.SaveAll([]model.DocumentRecord{record("7", "Seven")}))

	id, err := ix.NextID()
	require.NoError(t, err)
	assert.Equal(t, "8", id, "sequence should resume past the highest persisted id")
}

// A reader running concurrently with saves must only ever see a complete
// index file, old or new. A truncated or mixed file would fail to parse
// and fire the corruption hook.
func TestConcurrentReadersNeverSeeTornIndex(t *testing.T) {
	ix := NewIndex(testPaths(t))

	ix.OnCorrupt(func(err error) {
		t.Errorf("reader observed a torn index file: %v", err)
	})

	a := []model.DocumentRecord{record("1", "Alpha")}
	b := []model.DocumentRecord{record("1", "Alpha"), record("2", "Beta"), record("3", "Gamma")}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			if i%2 == 0 {
				assert.NoError(t, ix.SaveAll(a))
			} else {
				assert.NoError(t, ix.SaveAll(b))
			}
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			n := len(ix.LoadAll())
			assert.Contains(t, []int{0, 1, 3}, n, "index must be one of the complete states")
		}
	}()

	wg.Wait()
}

// Two concurrent Mutate calls touching different records must both
// survive: the critical section prevents the lost-update race.
func TestConcurrentMutationsAreNotLost(t *testing.T) {
	ix := NewIndex(testPaths(t))
	require.NoError(t, ix.SaveAll([]model.DocumentRecord{record("1", "Alpha"), record("2", "Beta")}))

	rename := func(id, title string) func() {
		return func() {
			err := ix.Mutate(func(records []model.DocumentRecord) ([]model.DocumentRecord, error) {
				for i := range records {
					if records[i].ID == id {
						records[i].Title = title
					}
				}
				return records, nil
			})
			assert.NoError(t, err)
		}
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); rename("1", "Alpha!")() }()
		go func() { defer wg.Done(); rename("2", "Beta!")() }()
	}
	wg.Wait()

	loaded := ix.LoadAll()
	require.Len(t, loaded, 2)
	assert.Equal(t, "Alpha!", loaded[0].Title)
	assert.Equal(t, "Beta!", loaded[1].Title)
}
