// Package store provides the persistence gateways for the tracking engine:
// an embedded SQLite store (the default), a single-document JSON file store,
// and an in-memory store for tests. All three implement track.Gateway and
// honor the same contract: appending a sealed run and upserting its defect
// changes is atomic, and readers only ever observe a fully written snapshot.
package store

// DefaultDBPath is the default relative path for the SQLite DB
// (per-workspace). Resolve against cwd; Open() creates the parent dir.
const DefaultDBPath = ".vigil/vigil.db"

// DefaultFilePath is the default relative path for the JSON file store.
const DefaultFilePath = ".vigil/state.json"
