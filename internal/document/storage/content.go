package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"
)

// backupStamp has microsecond precision so rapid successive edits of the
// same document cannot collide on a backup name.
const backupStamp = "20060102T150405.000000"

// ContentStore reads and writes the raw text of one document to a
// dedicated file per id, and snapshots the old bytes into the backup
// directory before they are overwritten or removed.
type ContentStore struct {
	paths Paths
}

func NewContentStore(paths Paths) *ContentStore {
	return &ContentStore{paths: paths}
}

// PathFor maps a document id to its content file.
func (cs *ContentStore) PathFor(id string) string {
	return filepath.Join(cs.paths.ContentDir(), id+".txt")
}

// Read returns the document's content. A missing or unreadable file reads
// as the empty string.
func (cs *ContentStore) Read(id string) string {
	data, err := os.ReadFile(cs.PathFor(id))
	if err != nil {
		return ""
	}
	return string(data)
}

// Write fully replaces the document's content file, creating the content
// directory if needed.
func (cs *ContentStore) Write(id, content string) error {
	if err := os.MkdirAll(cs.paths.ContentDir(), dirPerms); err != nil {
		return fmt.Errorf("creating content dir: %w", err)
	}
	if err := atomic.WriteFile(cs.PathFor(id), bytes.NewReader([]byte(content))); err != nil {
		return fmt.Errorf("writing content for %s: %w", id, err)
	}
	return nil
}

// Backup copies the document's current content file byte-for-byte into
// the backup directory under a timestamped name and returns the backup
// path. It is a no-op when the content file does not exist. Backups are
// append-only and never pruned.
func (cs *ContentStore) Backup(id string) (string, error) {
	data, err := os.ReadFile(cs.PathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading content for backup of %s: %w", id, err)
	}

	if err := os.MkdirAll(cs.paths.BackupDir(), dirPerms); err != nil {
		return "", fmt.Errorf("creating backup dir: %w", err)
	}

	name := fmt.Sprintf("%s_%s.txt", id, time.Now().UTC().Format(backupStamp))
	dst := filepath.Join(cs.paths.BackupDir(), name)
	if err := atomic.WriteFile(dst, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("writing backup for %s: %w", id, err)
	}
	return dst, nil
}

// Remove deletes the document's content file. Removing a file that does
// not exist is not an error.
func (cs *ContentStore) Remove(id string) error {
	if err := os.Remove(cs.PathFor(id)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
