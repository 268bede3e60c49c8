package storage

import (
	"os"
	"path/filepath"
)

// AtomicWriter updates a file through a same-directory temp file that
// replaces the target on Commit, so downstream consumers polling the
// artifacts never observe a partial write.
type AtomicWriter struct {
	op   string
	path string
	tmp  *os.File
}

// NewAtomicWriter starts an atomic update of path, creating its directory if
// needed. op labels the operation in any StorageError the writer returns.
func NewAtomicWriter(op, path string) (*AtomicWriter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: op, Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".news-*.tmp")
	if err != nil {
		return nil, &StorageError{Op: op, Path: path, Err: err}
	}

	return &AtomicWriter{op: op, path: path, tmp: tmp}, nil
}

// Write appends to the pending temp file.
func (w *AtomicWriter) Write(p []byte) (int, error) {
	return w.tmp.Write(p)
}

// Commit syncs the temp file to disk and renames it over the target. On any
// failure the temp file is removed and the target is left untouched.
func (w *AtomicWriter) Commit() error {
	if err := w.tmp.Sync(); err != nil {
		w.discard()
		return &StorageError{Op: w.op, Path: w.path, Err: err}
	}
	if err := w.tmp.Close(); err != nil {
		os.Remove(w.tmp.Name())
		return &StorageError{Op: w.op, Path: w.path, Err: err}
	}
	if err := os.Rename(w.tmp.Name(), w.path); err != nil {
		os.Remove(w.tmp.Name())
		return &StorageError{Op: w.op, Path: w.path, Err: err}
	}
	return nil
}

// Abort drops the pending temp file without touching the target.
func (w *AtomicWriter) Abort() {
	w.discard()
}

func (w *AtomicWriter) discard() {
	w.tmp.Close()
	os.Remove(w.tmp.Name())
}

// WriteFileAtomic atomically replaces path with data.
func WriteFileAtomic(op, path string, data []byte) error {
	w, err := NewAtomicWriter(op, path)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Abort()
		return &StorageError{Op: op, Path: path, Err: err}
	}
	return w.Commit()
}
