package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"vigil/internal/track"
)

// FileStore implements track.Gateway with a single JSON snapshot document.
// Both collections live in one document so a write-temp-then-rename covers
// them atomically; a crash can only ever leave the previous snapshot (plus a
// stray .tmp file, which Load ignores). A flock guards against a second
// writer process on the same workspace.
type FileStore struct {
	path  string
	lock  *flock.Flock
	state *track.State
}

// OpenFile creates a FileStore at path, creating the parent dir if needed.
func OpenFile(path string) (*FileStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create dir: %w", err)
	}
	return &FileStore{
		path: path,
		lock: flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

// Load reads the snapshot document. A missing file starts empty; a corrupted
// one starts empty with a warning so truncated history is noticed.
func (s *FileStore) Load() (*track.State, []string, error) {
	state := &track.State{Defects: make(map[string]*track.Defect)}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.state = state
		return state, []string{fmt.Sprintf("no state file at %s; starting with empty history", s.path)}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	if err := json.Unmarshal(data, state); err != nil {
		s.state = &track.State{Defects: make(map[string]*track.Defect)}
		return s.state, []string{fmt.Sprintf("corrupted state file %s ignored: %v", s.path, err)}, nil
	}
	if state.Defects == nil {
		state.Defects = make(map[string]*track.Defect)
	}
	s.state = state
	return state, nil, nil
}

// SaveRun appends the run, upserts the changed defects, and rewrites the
// snapshot atomically under the workspace lock.
func (s *FileStore) SaveRun(run *track.Run, changed []*track.Defect) error {
	if s.state == nil {
		if _, _, err := s.Load(); err != nil {
			return err
		}
	}
	next := &track.State{
		Runs:    append(append([]*track.Run(nil), s.state.Runs...), run),
		Defects: make(map[string]*track.Defect, len(s.state.Defects)+len(changed)),
	}
	for id, d := range s.state.Defects {
		next.Defects[id] = d
	}
	for _, d := range changed {
		cp := *d
		next.Defects[cp.ID] = &cp
	}
	if err := s.write(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Clear rewrites the snapshot as empty; atomic like any other write.
func (s *FileStore) Clear() error {
	next := &track.State{Defects: make(map[string]*track.Defect)}
	if err := s.write(next); err != nil {
		return err
	}
	s.state = next
	return nil
}

// Close releases the workspace lock if held.
func (s *FileStore) Close() error {
	if s.lock != nil {
		return s.lock.Unlock()
	}
	return nil
}

// write marshals the snapshot to a temp file and renames it into place.
func (s *FileStore) write(state *track.State) error {
	locked, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("store: lock %s: %w", s.lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("store: %s is locked by another process", s.lock.Path())
	}
	defer s.lock.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshal state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("store: rename %s: %w", tmp, err)
	}
	return nil
}
