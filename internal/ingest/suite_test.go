package ingest

import (
	"testing"

	"vigil/internal/store"
	"vigil/internal/track"
)

func openTestTracker(t *testing.T) *track.Tracker {
	t.Helper()
	tr, err := track.Open(store.NewMemStore())
	if err != nil {
		t.Fatalf("open tracker: %v", err)
	}
	t.Cleanup(func() { _ = tr.Close() })
	return tr
}
