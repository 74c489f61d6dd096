package index

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// FileRow represents a row in the files table: one vault entity, existing on
// disk or referenced-only. Count columns are nil for nonexistent entities.
type FileRow struct {
	Name           string
	Kind           string
	RelPath        string
	FileExists     bool
	NBacklinks     *int
	NWikilinks     *int
	NTags          *int
	NEmbeddedFiles *int
	Tags           []string
	SourceText     string
	ModifiedTime   *time.Time
}

// LinkRow is one directed link occurrence. Ord preserves per-source
// occurrence order so backlink listings replay source order.
type LinkRow struct {
	Source string
	Target string
	Ord    int
}

// SearchResult represents one search hit.
type SearchResult struct {
	Name    string
	RelPath string
	Snippet string
}

// GraphNode is one node of the persisted link graph.
type GraphNode struct {
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Exists bool   `json:"exists"`
}

// GraphLink is one edge occurrence of the persisted link graph.
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// ReplaceSnapshot swaps the whole stored snapshot for a new one in a single
// transaction. Readers never observe a half-written rebuild.
func (db *DB) ReplaceSnapshot(files []FileRow, links []LinkRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM files`); err != nil {
		return fmt.Errorf("index: clear files: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM links`); err != nil {
		return fmt.Errorf("index: clear links: %w", err)
	}
	ftsClear(tx)

	fileStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO files (name, kind, rel_path, file_exists, n_backlinks,
		                   n_wikilinks, n_tags, n_embedded, tags, source_text,
		                   modified_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("index: prepare file insert: %w", err)
	}
	defer fileStmt.Close()

	for _, f := range files {
		tagsJSON, _ := json.Marshal(f.Tags)
		_, err := fileStmt.Exec(f.Name, f.Kind, f.RelPath, f.FileExists,
			f.NBacklinks, f.NWikilinks, f.NTags, f.NEmbeddedFiles,
			string(tagsJSON), f.SourceText, f.ModifiedTime)
		if err != nil {
			return fmt.Errorf("index: insert file %s: %w", f.Name, err)
		}
		if err := ftsInsert(tx, f.Name, f.RelPath, f.SourceText, f.Tags); err != nil {
			return err
		}
	}

	linkStmt, err := tx.Prepare(`INSERT INTO links (source, target, ord) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare link insert: %w", err)
	}
	defer linkStmt.Close()

	for _, l := range links {
		if _, err := linkStmt.Exec(l.Source, l.Target, l.Ord); err != nil {
			return fmt.Errorf("index: insert link: %w", err)
		}
	}

	return tx.Commit()
}

// File returns one stored row, or nil when the name is not in the snapshot.
func (db *DB) File(name string) (*FileRow, error) {
	row := db.conn.QueryRow(`
		SELECT name, kind, rel_path, file_exists, n_backlinks, n_wikilinks,
		       n_tags, n_embedded, tags, source_text, modified_time
		FROM files WHERE name = ?
	`, name)
	f, err := scanFileRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: get file: %w", err)
	}
	return f, nil
}

// Files lists snapshot rows, optionally filtered by kind, sorted by name.
// The second return value is the total row count for the filter.
func (db *DB) Files(kind string, limit, offset int) ([]FileRow, int, error) {
	if limit <= 0 {
		limit = 100
	}
	where := ""
	args := []any{}
	if kind != "" {
		where = "WHERE kind = ?"
		args = append(args, kind)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM files `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count files: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.conn.Query(`
		SELECT name, kind, rel_path, file_exists, n_backlinks, n_wikilinks,
		       n_tags, n_embedded, tags, source_text, modified_time
		FROM files `+where+` ORDER BY name LIMIT ? OFFSET ?
	`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list files: %w", err)
	}
	defer rows.Close()

	var out []FileRow
	for rows.Next() {
		f, err := scanFileRow(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *f)
	}
	return out, total, rows.Err()
}

// Backlinks returns one source entry per inbound link occurrence, sources in
// sorted order with each source's occurrences kept together.
func (db *DB) Backlinks(name string) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT source FROM links WHERE target = ? ORDER BY source, ord
	`, name)
	if err != nil {
		return nil, fmt.Errorf("index: backlinks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Graph returns the persisted node and edge sets.
func (db *DB) Graph() ([]GraphNode, []GraphLink, error) {
	nodeRows, err := db.conn.Query(`SELECT name, kind, file_exists FROM files ORDER BY name`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph nodes: %w", err)
	}
	defer nodeRows.Close()

	var nodes []GraphNode
	for nodeRows.Next() {
		var n GraphNode
		if err := nodeRows.Scan(&n.Name, &n.Kind, &n.Exists); err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, nil, err
	}

	linkRows, err := db.conn.Query(`SELECT source, target FROM links ORDER BY source, ord`)
	if err != nil {
		return nil, nil, fmt.Errorf("index: graph links: %w", err)
	}
	defer linkRows.Close()

	var links []GraphLink
	for linkRows.Next() {
		var l GraphLink
		if err := linkRows.Scan(&l.Source, &l.Target); err != nil {
			return nil, nil, err
		}
		links = append(links, l)
	}
	return nodes, links, linkRows.Err()
}

// Meta returns a stored metadata value, or empty string if unset.
func (db *DB) Meta(key string) (string, error) {
	var v string
	err := db.conn.QueryRow(`SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get meta: %w", err)
	}
	return v, nil
}

// SetMeta stores a metadata value.
func (db *DB) SetMeta(key, value string) error {
	_, err := db.conn.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("index: set meta: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFileRow(r rowScanner) (*FileRow, error) {
	var (
		f        FileRow
		tagsJSON string
		nBack    sql.NullInt64
		nWiki    sql.NullInt64
		nTags    sql.NullInt64
		nEmbed   sql.NullInt64
		modified sql.NullTime
	)
	err := r.Scan(&f.Name, &f.Kind, &f.RelPath, &f.FileExists, &nBack, &nWiki,
		&nTags, &nEmbed, &tagsJSON, &f.SourceText, &modified)
	if err != nil {
		return nil, err
	}
	f.NBacklinks = nullableInt(nBack)
	f.NWikilinks = nullableInt(nWiki)
	f.NTags = nullableInt(nTags)
	f.NEmbeddedFiles = nullableInt(nEmbed)
	if modified.Valid {
		t := modified.Time
		f.ModifiedTime = &t
	}
	_ = json.Unmarshal([]byte(tagsJSON), &f.Tags)
	return &f, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
