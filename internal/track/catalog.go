package track

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog is the canonical defect set: one record per test identity that has
// ever failed. Transition rules are applied once per sealed run via Stage,
// and committed only after the run has been persisted, so a failed write
// rolls back cleanly (the staged copies are simply dropped).
//
// Reads take an RWMutex so a dashboard goroutine always observes a fully
// committed catalog; the single writer never blocks on readers beyond that.
type Catalog struct {
	mu      sync.RWMutex
	defects map[string]*Defect // by defect ID
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{defects: make(map[string]*Defect)}
}

// Load replaces the catalog contents with a persisted snapshot.
func (c *Catalog) Load(defects map[string]*Defect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defects = make(map[string]*Defect, len(defects))
	for id, d := range defects {
		cp := *d
		c.defects[id] = &cp
	}
}

// Delta is the defect accounting for one staged run: counts per bucket and
// the staged record copies to persist and commit.
type Delta struct {
	New      int
	Fixed    int
	Reopened int
	Changed  []*Defect
}

// Stage applies the lifecycle rules for one sealed run's outcomes against the
// committed catalog and returns the resulting delta without mutating the
// catalog. Rules:
//
//   - failed, no existing record  → new defect: open, firstFound=lastSeen=run
//   - failed, record open         → lastSeen advances (no count)
//   - failed, record fixed        → reopened: open, lastSeen=run, fixedInRun cleared
//   - passed, record open         → fixed: fixedInRun=run
//   - passed, no record or fixed  → no-op
//   - skipped                     → no-op
func (c *Catalog) Stage(runNumber int, outcomes []Outcome) (*Delta, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	delta := &Delta{}
	staged := make(map[string]*Defect)

	lookup := func(id TestID) (*Defect, bool) {
		key := DefectID(id)
		if d, ok := staged[key]; ok {
			return d, true
		}
		if d, ok := c.defects[key]; ok {
			cp := *d
			staged[key] = &cp
			delta.Changed = append(delta.Changed, &cp)
			return &cp, true
		}
		return nil, false
	}

	for _, o := range outcomes {
		if o.TestID == "" {
			return nil, fmt.Errorf("%w (outcome %q)", ErrEmptyTestID, o.TestName)
		}
		switch o.Result {
		case ResultFailed:
			d, ok := lookup(o.TestID)
			if !ok {
				nd := &Defect{
					ID:            DefectID(o.TestID),
					TestID:        o.TestID,
					TestName:      o.TestName,
					Category:      o.Category,
					Severity:      NormalizeSeverity(string(o.Severity)),
					Status:        StatusOpen,
					FirstFoundRun: runNumber,
					LastSeenRun:   runNumber,
					ErrorMessage:  o.ErrorMessage,
				}
				staged[nd.ID] = nd
				delta.Changed = append(delta.Changed, nd)
				delta.New++
				continue
			}
			if d.Status == StatusFixed {
				d.Status = StatusOpen
				d.FixedInRun = 0
				delta.Reopened++
			}
			d.LastSeenRun = runNumber
			if o.ErrorMessage != "" {
				d.ErrorMessage = o.ErrorMessage
			}
			if o.Severity != "" {
				d.Severity = NormalizeSeverity(string(o.Severity))
			}
		case ResultPassed:
			d, ok := lookup(o.TestID)
			if !ok || d.Status != StatusOpen {
				continue
			}
			d.Status = StatusFixed
			d.FixedInRun = runNumber
			delta.Fixed++
		case ResultSkipped:
			// Skips carry no lifecycle signal.
		}
	}

	// Drop untouched copies pulled in by passed-but-already-fixed lookups.
	changed := delta.Changed[:0]
	for _, d := range delta.Changed {
		orig, ok := c.defects[d.ID]
		if ok && *orig == *d {
			delete(staged, d.ID)
			continue
		}
		changed = append(changed, d)
	}
	delta.Changed = changed
	return delta, nil
}

// Commit writes staged defect copies into the catalog. Called only after the
// corresponding run was durably persisted.
func (c *Catalog) Commit(delta *Delta) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range delta.Changed {
		cp := *d
		c.defects[cp.ID] = &cp
	}
}

// Len returns the number of defect records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.defects)
}

// OpenCount returns the number of defects currently open.
func (c *Catalog) OpenCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, d := range c.defects {
		if d.Status == StatusOpen {
			n++
		}
	}
	return n
}

// All returns every defect, ordered by firstFoundRun ascending (test id as
// tie-break) so assertions and reports are reproducible.
func (c *Catalog) All() []*Defect {
	return c.filtered(func(*Defect) bool { return true })
}

// Open returns the open defects in the same deterministic order as All.
func (c *Catalog) Open() []*Defect {
	return c.filtered(func(d *Defect) bool { return d.Status == StatusOpen })
}

// Fixed returns the fixed defects in the same deterministic order as All.
func (c *Catalog) Fixed() []*Defect {
	return c.filtered(func(d *Defect) bool { return d.Status == StatusFixed })
}

func (c *Catalog) filtered(keep func(*Defect) bool) []*Defect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []*Defect
	for _, d := range c.defects {
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstFoundRun != out[j].FirstFoundRun {
			return out[i].FirstFoundRun < out[j].FirstFoundRun
		}
		return out[i].TestID < out[j].TestID
	})
	return out
}

// Snapshot returns a copy of the catalog keyed by defect ID, for persistence.
func (c *Catalog) Snapshot() map[string]*Defect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*Defect, len(c.defects))
	for id, d := range c.defects {
		cp := *d
		out[id] = &cp
	}
	return out
}

// Clear empties the catalog.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defects = make(map[string]*Defect)
}
