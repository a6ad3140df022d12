// Package storage implements the file-backed persistence layer for
// documents: a JSON metadata index replaced atomically on every mutation,
// one content file per document, and timestamped backups taken before any
// content file is overwritten or removed.
package storage

import (
	"os"
	"path/filepath"
)

const dirPerms = 0o755

// Paths is the storage context: every file location is derived from a
// single data directory, so tests can point the whole layer at a
// temporary directory instead of sharing ambient process-wide paths.
type Paths struct {
	DataDir string
}

func NewPaths(dataDir string) Paths {
	return Paths{DataDir: dataDir}
}

// IndexFile is the canonical path of the metadata index.
func (p Paths) IndexFile() string {
	return filepath.Join(p.DataDir, "documents.json")
}

// SequenceFile holds the last issued document id.
func (p Paths) SequenceFile() string {
	return filepath.Join(p.DataDir, "sequence")
}

// ContentDir holds one content file per live document.
func (p Paths) ContentDir() string {
	return filepath.Join(p.DataDir, "content")
}

// BackupDir holds timestamped snapshot copies of content files.
func (p Paths) BackupDir() string {
	return filepath.Join(p.DataDir, "backups")
}

// Ensure creates the data, content and backup directories.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.DataDir, p.ContentDir(), p.BackupDir()} {
		if err := os.MkdirAll(dir, dirPerms); err != nil {
			return err
		}
	}
	return nil
}
