package track

// State is the full persisted engine state: the ordered run log plus the
// keyed defect map.
type State struct {
	Runs    []*Run             `json:"runs"`
	Defects map[string]*Defect `json:"defects"`
}

// Gateway is the persistence boundary. SaveRun must be atomic: a crash
// mid-write may not leave a run visible without its defect updates or vice
// versa. Concurrent readers of the underlying storage must only ever observe
// a fully written snapshot.
//
// Load degrades a missing or corrupted store to empty state and reports what
// was skipped through warnings, so truncated history is surfaced rather than
// silently swallowed; err is reserved for hard failures (e.g. permissions).
type Gateway interface {
	Load() (state *State, warnings []string, err error)
	// SaveRun appends one sealed run and upserts the defects it changed,
	// atomically.
	SaveRun(run *Run, changed []*Defect) error
	// Clear wipes both collections atomically.
	Clear() error
	Close() error
}
