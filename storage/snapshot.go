package storage

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Snapshot artifact file names within the output directory.
const (
	SnapshotFile = "latest_news.json"
	PreviousFile = "previous_news.json"
	HTMLFile     = "latest_news.html"
	RunFile      = "last_run.json"
)

// SnapshotStore reads and writes snapshot artifacts in one output directory.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore creates a store rooted at dir, creating it if needed.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if dir == "" {
		return nil, &StorageError{Op: "open", Path: dir, Err: ErrInvalidInput}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &StorageError{Op: "open", Path: dir, Err: err}
	}
	return &SnapshotStore{dir: dir}, nil
}

// Path returns the absolute path of a snapshot artifact.
func (s *SnapshotStore) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Save writes the snapshot as JSON and a companion HTML rendering. The prior
// snapshot, when present, is preserved as the previous-snapshot backup first
// so the change reporter can diff against it.
func (s *SnapshotStore) Save(videos []Video) error {
	if err := s.backup(); err != nil {
		return err
	}

	path := s.Path(SnapshotFile)
	data, err := json.MarshalIndent(videos, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}

	if err := WriteFileAtomic("write", path, data); err != nil {
		return err
	}

	return s.writeHTML(videos)
}

// Load reads the current snapshot. Returns ErrNotFound when no snapshot has
// been written yet.
func (s *SnapshotStore) Load() ([]Video, error) {
	return s.loadFile(s.Path(SnapshotFile))
}

// LoadPrevious reads the backed-up prior snapshot.
func (s *SnapshotStore) LoadPrevious() ([]Video, error) {
	return s.loadFile(s.Path(PreviousFile))
}

// LoadFile reads a snapshot from an arbitrary path, for the --json-file flag.
func LoadFile(path string) ([]Video, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &StorageError{Op: "read", Path: path, Err: ErrNotFound}
		}
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}

	var videos []Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: ErrCorrupt}
	}
	return videos, nil
}

func (s *SnapshotStore) loadFile(path string) ([]Video, error) {
	return LoadFile(path)
}

// SaveRunRecord writes the run record for the side log.
func (s *SnapshotStore) SaveRunRecord(rec *RunRecord) error {
	path := s.Path(RunFile)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	return WriteFileAtomic("write", path, data)
}

// backup copies the current snapshot to the previous-snapshot file.
func (s *SnapshotStore) backup() error {
	src := s.Path(SnapshotFile)
	in, err := os.Open(src)
	if err != nil {
		if os.IsNotExist(err) {
			// First run, nothing to back up
			return nil
		}
		return &StorageError{Op: "backup", Path: src, Err: err}
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return &StorageError{Op: "backup", Path: src, Err: err}
	}
	return WriteFileAtomic("backup", s.Path(PreviousFile), data)
}

// ReadPlaylistID reads the playlist ID file: a single line of text.
func ReadPlaylistID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &StorageError{Op: "read", Path: path, Err: ErrNotFound}
		}
		return "", &StorageError{Op: "read", Path: path, Err: err}
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", &StorageError{Op: "read", Path: path, Err: ErrInvalidInput}
	}
	return id, nil
}

// WritePlaylistID persists the playlist ID, creating the directory if needed.
func WritePlaylistID(path, id string) error {
	if id == "" {
		return &StorageError{Op: "write", Path: path, Err: ErrInvalidInput}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0644); err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	return nil
}
