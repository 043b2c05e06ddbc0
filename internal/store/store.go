// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDatabaseError = errors.New("database error")
	ErrEmptyMatch    = errors.New("empty match expression")
)

// DefaultResultLimit caps search results when Query.Limit is unset.
const DefaultResultLimit = 50

// =============================================================================
// STORE
// =============================================================================

// Store is the process-wide content store. It owns a single SQLite
// database holding the files table, its full-text projection, the
// key-value config table and the diagnostic log.
//
// SQLite serializes writers; the connection pool is pinned to one
// connection so the row table and FTS projection never diverge under
// concurrent scan/watcher/delete activity.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the database at dbPath and initializes the schema.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite supports one writer at a time; pin the pool to one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA mmap_size=268435456",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize metadata: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// =============================================================================
// FILES
// =============================================================================

// UpsertFile inserts or replaces the row keyed by f.Path and returns its
// row ID. The FTS projection is updated by the schema triggers in the
// same statement transaction.
func (s *Store) UpsertFile(f IndexedFile) (int64, error) {
	res, err := s.db.Exec(`
		INSERT OR REPLACE INTO files
		(path, name, extension, size, modified_date, content_hash, content, ocr_content, embedding, index_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, f.Path, f.Name, f.Extension, f.Size, f.ModifiedDate, f.ContentHash,
		nullIfEmpty(f.Content), nullIfEmpty(f.OCRContent), nullIfNilBytes(f.Embedding), f.IndexDate)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return id, nil
}

// GetFile returns the row for path, or nil if the path is not indexed.
func (s *Store) GetFile(path string) (*IndexedFile, error) {
	row := s.db.QueryRow(`
		SELECT id, path, name, extension, size, modified_date, content_hash,
		       content, ocr_content, embedding, index_date
		FROM files WHERE path = ?
	`, path)

	f, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return f, nil
}

// GetFileHash returns the stored content hash for path, or "" if not indexed.
func (s *Store) GetFileHash(path string) (string, error) {
	var hash sql.NullString
	err := s.db.QueryRow("SELECT content_hash FROM files WHERE path = ?", path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return hash.String, nil
}

// GetAllFiles returns every indexed file, most recently modified first.
func (s *Store) GetAllFiles() ([]IndexedFile, error) {
	rows, err := s.db.Query(`
		SELECT id, path, name, extension, size, modified_date, content_hash,
		       content, ocr_content, embedding, index_date
		FROM files ORDER BY modified_date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var files []IndexedFile
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		files = append(files, *f)
	}
	return files, rows.Err()
}

// GetFileCount returns the number of indexed files.
func (s *Store) GetFileCount() (int64, error) {
	var n int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM files").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// GetTotalSize returns the summed size in bytes of all indexed files.
func (s *Store) GetTotalSize() (int64, error) {
	var n sql.NullInt64
	if err := s.db.QueryRow("SELECT SUM(size) FROM files").Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n.Int64, nil
}

// DeleteFile removes the row for path. Deleting an unindexed path is a no-op.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.db.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// DeleteFilesByPrefix removes every row whose path starts with prefix and
// returns the number of rows removed. The FTS entries are retracted by the
// delete trigger inside the same transaction.
//
// A trailing path separator is appended to the prefix when missing so that
// removing "/a/b" never touches rows under "/a/bc".
func (s *Store) DeleteFilesByPrefix(prefix string) (int64, error) {
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(prefix, sep) && !strings.HasSuffix(prefix, "/") {
		prefix += sep
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM files WHERE substr(path, 1, ?) = ?", len(prefix), prefix)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return n, nil
}

// =============================================================================
// SEARCH
// =============================================================================

// Search runs a ranked full-text query against the FTS projection and
// returns matching rows joined with a highlighted snippet. Rows are
// ordered by bm25 score ascending (best match first).
func (s *Store) Search(q Query) ([]Row, error) {
	match := strings.TrimSpace(q.Match)
	if match == "" {
		return nil, ErrEmptyMatch
	}

	hlStart, hlEnd := q.HighlightStart, q.HighlightEnd
	if hlStart == "" && hlEnd == "" {
		hlStart, hlEnd = "<mark>", "</mark>"
	}
	limit := q.Limit
	if limit <= 0 || limit > DefaultResultLimit {
		limit = DefaultResultLimit
	}

	// snippet column -1 lets FTS5 pick the best-matching column, so a hit
	// in the file name or OCR text still yields a highlighted snippet.
	sqlQuery := `
		SELECT f.id, f.path, f.name, f.extension, f.size, f.modified_date,
		       f.content_hash, f.content, f.ocr_content, f.embedding, f.index_date,
		       bm25(files_fts) AS score,
		       snippet(files_fts, -1, ?, ?, '...', 10) AS snip
		FROM files f
		JOIN files_fts ON f.id = files_fts.rowid
		WHERE files_fts MATCH ?
	`
	args := []any{hlStart, hlEnd, match}

	if len(q.Extensions) > 0 {
		placeholders := make([]string, len(q.Extensions))
		for i, ext := range q.Extensions {
			placeholders[i] = "?"
			args = append(args, ext)
		}
		sqlQuery += " AND f.extension IN (" + strings.Join(placeholders, ",") + ")"
	}

	if q.DateStart != nil && q.DateEnd != nil {
		sqlQuery += " AND f.modified_date BETWEEN ? AND ?"
		args = append(args, *q.DateStart, *q.DateEnd)
	}

	if q.SizeMin != nil && q.SizeMax != nil {
		sqlQuery += " AND f.size BETWEEN ? AND ?"
		args = append(args, *q.SizeMin, *q.SizeMax)
	}

	if len(q.Folders) > 0 {
		clauses := make([]string, len(q.Folders))
		for i, folder := range q.Folders {
			clauses[i] = "substr(f.path, 1, ?) = ?"
			args = append(args, len(folder), folder)
		}
		sqlQuery += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	// bm25: lower score is a better match.
	sqlQuery += " ORDER BY score LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []Row
	for rows.Next() {
		var (
			f       IndexedFile
			ext     sql.NullString
			content sql.NullString
			ocr     sql.NullString
			snip    sql.NullString
			r       Row
		)
		err := rows.Scan(
			&f.ID, &f.Path, &f.Name, &ext, &f.Size, &f.ModifiedDate,
			&f.ContentHash, &content, &ocr, &f.Embedding, &f.IndexDate,
			&r.Score, &snip,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		f.Extension = ext.String
		f.Content = content.String
		f.OCRContent = ocr.String
		r.File = f
		r.Snippet = snip.String
		results = append(results, r)
	}
	return results, rows.Err()
}

// GetSuggestions returns up to limit distinct file names containing the
// partial string, case-insensitive. This is a plain substring match on
// the files table, independent of the FTS engine.
func (s *Store) GetSuggestions(partial string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.Query(`
		SELECT DISTINCT name FROM files
		WHERE instr(lower(name), lower(?)) > 0
		ORDER BY name LIMIT ?
	`, partial, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// =============================================================================
// CONFIG KEY-VALUE TABLE
// =============================================================================

// GetConfig returns the value stored for key, or "" if unset.
func (s *Store) GetConfig(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return value, nil
}

// SetConfig stores value under key, last write wins.
func (s *Store) SetConfig(key, value string) error {
	_, err := s.db.Exec(`
		INSERT OR REPLACE INTO config (key, value, updated_at)
		VALUES (?, ?, strftime('%s','now'))
	`, key, value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// =============================================================================
// DIAGNOSTIC LOG
// =============================================================================

// AddLog appends a diagnostic log entry. details may be any
// JSON-marshalable value or nil.
func (s *Store) AddLog(level, message string, details any) error {
	var detailsJSON any
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			detailsJSON = fmt.Sprintf("%v", details)
		} else {
			detailsJSON = string(b)
		}
	}
	_, err := s.db.Exec("INSERT INTO logs (level, message, details) VALUES (?, ?, ?)",
		level, message, detailsJSON)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetLogs returns the most recent log entries, newest first.
func (s *Store) GetLogs(limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT id, level, message, details, timestamp
		FROM logs ORDER BY timestamp DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var entries []LogEntry
	for rows.Next() {
		var (
			e       LogEntry
			details sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Level, &e.Message, &details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		e.Details = details.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Vacuum compacts the database file.
func (s *Store) Vacuum() error {
	_, err := s.db.Exec("VACUUM")
	return err
}

// Analyze refreshes the query planner statistics.
func (s *Store) Analyze() error {
	_, err := s.db.Exec("ANALYZE")
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(r rowScanner) (*IndexedFile, error) {
	var (
		f       IndexedFile
		ext     sql.NullString
		content sql.NullString
		ocr     sql.NullString
	)
	err := r.Scan(&f.ID, &f.Path, &f.Name, &ext, &f.Size, &f.ModifiedDate,
		&f.ContentHash, &content, &ocr, &f.Embedding, &f.IndexDate)
	if err != nil {
		return nil, err
	}
	f.Extension = ext.String
	f.Content = content.String
	f.OCRContent = ocr.String
	return &f, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfNilBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
