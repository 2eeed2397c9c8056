package store

// schemaV1 creates the two persisted collections: the append-only run log
// and the keyed defect map. run numbers are the primary ordering key.
const schemaV1 = `
CREATE TABLE schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE runs (
	number           INTEGER PRIMARY KEY,
	uuid             TEXT,
	timestamp        TEXT NOT NULL,
	duration_ms      INTEGER NOT NULL DEFAULT 0,
	total_tests      INTEGER NOT NULL DEFAULT 0,
	passed           INTEGER NOT NULL DEFAULT 0,
	failed           INTEGER NOT NULL DEFAULT 0,
	skipped          INTEGER NOT NULL DEFAULT 0,
	pass_rate        REAL NOT NULL DEFAULT 0,
	new_defects      INTEGER NOT NULL DEFAULT 0,
	fixed_defects    INTEGER NOT NULL DEFAULT 0,
	reopened_defects INTEGER NOT NULL DEFAULT 0,
	open_defects     INTEGER NOT NULL DEFAULT 0,
	categories       TEXT,
	failed_tests     TEXT
);

CREATE TABLE defects (
	id              TEXT PRIMARY KEY,
	test_id         TEXT NOT NULL UNIQUE,
	test_name       TEXT,
	category        TEXT,
	severity        TEXT NOT NULL,
	status          TEXT NOT NULL,
	first_found_run INTEGER NOT NULL,
	last_seen_run   INTEGER NOT NULL,
	fixed_in_run    INTEGER,
	error_message   TEXT
);

CREATE INDEX idx_defects_status ON defects(status);
`
