package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"shareboard/internal/document/model"
	"shareboard/pkg/logger"

	"github.com/natefinch/atomic"
)

// Index persists the full sequence of document records as a single JSON
// file. Saves go through a temp-file-then-rename swap, so a concurrent
// reader sees either the old complete file or the new complete file,
// never a mix.
//
// The mutex serializes every index read, save and sequence bump. Mutate
// runs a caller's read-modify-write as one critical section, which is what
// keeps two concurrent mutations from discarding each other's changes.
type Index struct {
	paths Paths
	mu    sync.Mutex

	// onCorrupt fires when the index file exists but cannot be parsed.
	// The index still degrades to empty; the hook exists so the data
	// loss is at least observable.
	onCorrupt func(err error)
}

func NewIndex(paths Paths) *Index {
	return &Index{
		paths: paths,
		onCorrupt: func(err error) {
			logger.Sugar.Warnf("Index file unreadable, treating as empty: %v", err)
		},
	}
}

// OnCorrupt replaces the corruption recovery hook.
func (ix *Index) OnCorrupt(hook func(err error)) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if hook != nil {
		ix.onCorrupt = hook
	}
}

// LoadAll returns every persisted record in index order. A missing index
// file yields an empty slice; an unparsable one fires the corruption hook
// and yields an empty slice.
func (ix *Index) LoadAll() []model.DocumentRecord {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.loadLocked()
}

// SaveAll atomically replaces the index file with the given records.
func (ix *Index) SaveAll(records []model.DocumentRecord) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.saveLocked(records)
}

// Mutate loads the records, hands them to fn, and persists whatever fn
// returns, all under the index lock. If fn returns an error nothing is
// written and the error is returned unchanged.
func (ix *Index) Mutate(fn func(records []model.DocumentRecord) ([]model.DocumentRecord, error)) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	updated, err := fn(ix.loadLocked())
	if err != nil {
		return err
	}
	return ix.saveLocked(updated)
}

// NextID issues the next document id from the persisted sequence file.
// Ids increase monotonically and are never reissued after a deletion. If
// the sequence file is missing or unreadable the counter is rebuilt from
// the highest numeric id in the index, so existing ids stay unique.
func (ix *Index) NextID() (string, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	last, err := ix.lastSequenceLocked()
	if err != nil {
		return "", err
	}

	next := last + 1
	data := []byte(strconv.FormatUint(next, 10))
	if err := atomic.WriteFile(ix.paths.SequenceFile(), bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("persisting sequence: %w", err)
	}
	return strconv.FormatUint(next, 10), nil
}

func (ix *Index) loadLocked() []model.DocumentRecord {
	data, err := os.ReadFile(ix.paths.IndexFile())
	if err != nil {
		if !os.IsNotExist(err) {
			ix.onCorrupt(err)
		}
		return nil
	}

	var records []model.DocumentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		ix.onCorrupt(err)
		return nil
	}
	return records
}

func (ix *Index) saveLocked(records []model.DocumentRecord) error {
	if records == nil {
		records = []model.DocumentRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := atomic.WriteFile(ix.paths.IndexFile(), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("replacing index file: %w", err)
	}
	return nil
}

func (ix *Index) lastSequenceLocked() (uint64, error) {
	data, err := os.ReadFile(ix.paths.SequenceFile())
	if err != nil {
		if os.IsNotExist(err) {
			return ix.rebuildSequenceLocked(), nil
		}
		return 0, fmt.Errorf("reading sequence file: %w", err)
	}

	last, err := strconv.ParseUint(string(bytes.TrimSpace(data)), 10, 64)
	if err != nil {
		logger.Sugar.Warnf("Sequence file unparsable, rebuilding from index: %v", err)
		return ix.rebuildSequenceLocked(), nil
	}
	return last, nil
}

func (ix *Index) rebuildSequenceLocked() uint64 {
	var max uint64
	for _, rec := range ix.loadLocked() {
		if n, err := strconv.ParseUint(rec.ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max
}
