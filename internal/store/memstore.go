package store

import (
	"vigil/internal/track"
)

// MemStore is an in-memory gateway for tests. Create with NewMemStore.
type MemStore struct {
	runs    []*track.Run
	defects map[string]*track.Defect
}

// NewMemStore returns a new in-memory gateway (ready for use).
func NewMemStore() *MemStore {
	return &MemStore{defects: make(map[string]*track.Defect)}
}

// Load returns the current in-memory state.
func (s *MemStore) Load() (*track.State, []string, error) {
	st := &track.State{Defects: make(map[string]*track.Defect, len(s.defects))}
	for _, r := range s.runs {
		cp := *r
		st.Runs = append(st.Runs, &cp)
	}
	for id, d := range s.defects {
		cp := *d
		st.Defects[id] = &cp
	}
	return st, nil, nil
}

// SaveRun appends the run and upserts the changed defects.
func (s *MemStore) SaveRun(run *track.Run, changed []*track.Defect) error {
	cp := *run
	s.runs = append(s.runs, &cp)
	for _, d := range changed {
		dc := *d
		s.defects[dc.ID] = &dc
	}
	return nil
}

// Clear wipes both collections.
func (s *MemStore) Clear() error {
	s.runs = nil
	s.defects = make(map[string]*track.Defect)
	return nil
}

// Close is a no-op for the in-memory gateway.
func (s *MemStore) Close() error { return nil }
