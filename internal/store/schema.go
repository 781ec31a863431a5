package store

// SchemaVersion is bumped whenever Schema changes shape.
const SchemaVersion = 1

const Schema = `
CREATE TABLE IF NOT EXISTS recitations (
	key TEXT PRIMARY KEY,
	reciter_id TEXT NOT NULL,
	reciter_label TEXT NOT NULL DEFAULT '',
	chapter_id INTEGER NOT NULL,
	chapter_label TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	audio BLOB NOT NULL,
	byte_size INTEGER NOT NULL,
	stored_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Enumeration queries (count per reciter, list per chapter) go through
-- these instead of scanning audio blobs.
CREATE INDEX IF NOT EXISTS idx_recitations_reciter_id ON recitations(reciter_id);
CREATE INDEX IF NOT EXISTS idx_recitations_chapter_id ON recitations(chapter_id);

CREATE TABLE IF NOT EXISTS reciters (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	style TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
