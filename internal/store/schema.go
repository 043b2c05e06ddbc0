// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store provides SQLite-backed persistence for indexed files.
package store

const (
	// SchemaVersion tracks the database schema version for migrations
	SchemaVersion = 1
)

// SQLite schema for the file index with FTS5 full-text search.
//
// The files_fts virtual table is an external-content projection of
// (name, content, ocr_content). The triggers below keep it in lockstep
// with the files table inside the same transaction as the row mutation,
// so a reader can never observe a row without its searchable text or
// searchable text for a deleted row.
const Schema = `
-- Indexed files, one row per distinct path
CREATE TABLE IF NOT EXISTS files (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT UNIQUE NOT NULL,
    name TEXT NOT NULL,
    extension TEXT,
    size INTEGER,
    modified_date INTEGER,      -- Unix timestamp (seconds)
    content_hash TEXT,
    content TEXT,               -- extracted plain text
    ocr_content TEXT,           -- OCR plain text (images only)
    embedding BLOB,             -- reserved for semantic search, never written
    index_date INTEGER          -- Unix timestamp of last successful index
);

CREATE INDEX IF NOT EXISTS idx_files_path ON files(path);
CREATE INDEX IF NOT EXISTS idx_files_extension ON files(extension);
CREATE INDEX IF NOT EXISTS idx_files_modified_date ON files(modified_date);
CREATE INDEX IF NOT EXISTS idx_files_size ON files(size);

-- Full-text index over the searchable projection
CREATE VIRTUAL TABLE IF NOT EXISTS files_fts USING fts5(
    name,
    content,
    ocr_content,
    content='files',
    content_rowid='id'
);

-- Triggers keep files_fts in sync with files
CREATE TRIGGER IF NOT EXISTS files_ai AFTER INSERT ON files BEGIN
    INSERT INTO files_fts(rowid, name, content, ocr_content)
    VALUES (new.id, new.name, new.content, new.ocr_content);
END;

CREATE TRIGGER IF NOT EXISTS files_ad AFTER DELETE ON files BEGIN
    INSERT INTO files_fts(files_fts, rowid, name, content, ocr_content)
    VALUES ('delete', old.id, old.name, old.content, old.ocr_content);
END;

CREATE TRIGGER IF NOT EXISTS files_au AFTER UPDATE ON files BEGIN
    INSERT INTO files_fts(files_fts, rowid, name, content, ocr_content)
    VALUES ('delete', old.id, old.name, old.content, old.ocr_content);
    INSERT INTO files_fts(rowid, name, content, ocr_content)
    VALUES (new.id, new.name, new.content, new.ocr_content);
END;

-- Key-value configuration, last write wins
CREATE TABLE IF NOT EXISTS config (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER DEFAULT (strftime('%s','now'))
) WITHOUT ROWID;

-- Append-only diagnostic log
CREATE TABLE IF NOT EXISTS logs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    level TEXT NOT NULL,
    message TEXT NOT NULL,
    details TEXT,
    timestamp INTEGER DEFAULT (strftime('%s','now'))
);

CREATE INDEX IF NOT EXISTS idx_logs_timestamp ON logs(timestamp);
CREATE INDEX IF NOT EXISTS idx_logs_level ON logs(level);
`

// InitMetadata seeds the config table with schema bookkeeping values.
const InitMetadata = `
INSERT OR IGNORE INTO config (key, value) VALUES ('schema_version', '1');
INSERT OR IGNORE INTO config (key, value) VALUES ('created_at', strftime('%s','now'));
`
