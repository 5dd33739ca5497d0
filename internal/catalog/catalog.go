// Package catalog indexes loaded records in an in-memory SQLite database so
// the CLI can list and filter them. The record files stay the source of
// truth; a catalog is rebuilt on every run.
package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/corrosim/pkg/types"
)

// Entry is one catalogued record.
type Entry struct {
	Record      types.Record `json:"record"`
	ProcessType string       `json:"process_type,omitempty"`
	LoadID      string       `json:"load_id"`
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Kind        types.Kind
	ProcessType string
	Tag         string
	// Text matches a substring of the identifier, title or description.
	Text  string
	Limit int
}

// TagCount is a tag with the number of records carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Catalog is an in-memory record index.
type Catalog struct {
	db *sql.DB
}

// Open creates an empty catalog.
func Open() (*Catalog, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	stmts := append([]string{"PRAGMA foreign_keys = ON;"}, schemaDDL...)
	for _, stmt := range append(stmts, indexDDL...) {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating catalog schema: %w", err)
		}
	}
	return &Catalog{db: db}, nil
}

// Close releases the database.
func (c *Catalog) Close() error { return c.db.Close() }

// Insert adds rec under a fresh load ID. A record whose identifier is
// already catalogued returns an error wrapping types.ErrDuplicate.
func (c *Catalog) Insert(rec types.Record) error {
	_, errs := c.InsertAll([]types.Record{rec})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// InsertAll adds recs as one load batch and returns the batch ID. Records
// that cannot be inserted are reported and skipped.
func (c *Catalog) InsertAll(recs []types.Record) (string, []error) {
	loadID := newLoadID()
	var errs []error
	for _, rec := range recs {
		if err := c.insert(rec, loadID); err != nil {
			errs = append(errs, err)
		}
	}
	return loadID, errs
}

func (c *Catalog) insert(rec types.Record, loadID string) error {
	if rec.Identifier == "" {
		return fmt.Errorf("inserting record from %s: %w: empty identifier", rec.Path, types.ErrParse)
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.Identifier, err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow("SELECT 1 FROM records WHERE identifier = ?", rec.Identifier).Scan(&exists)
	if err == nil {
		return fmt.Errorf("inserting record %s: %w", rec.Identifier, types.ErrDuplicate)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking record %s: %w", rec.Identifier, err)
	}

	if _, err := tx.Exec(
		`INSERT INTO records (identifier, kind, title, description, reference_id, path, load_id, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Identifier, string(rec.Kind), rec.Title, rec.Description, rec.ReferenceID(), rec.Path, loadID, string(body),
	); err != nil {
		return fmt.Errorf("inserting record %s: %w", rec.Identifier, err)
	}
	for _, tag := range rec.Tags {
		if _, err := tx.Exec("INSERT OR IGNORE INTO tags (identifier, tag) VALUES (?, ?)", rec.Identifier, tag); err != nil {
			return fmt.Errorf("inserting tag of %s: %w", rec.Identifier, err)
		}
	}
	for i, p := range rec.Parameters {
		if _, err := tx.Exec(
			"INSERT INTO parameters (identifier, ordinal, key, value_type, description) VALUES (?, ?, ?, ?, ?)",
			rec.Identifier, i, p.Key, p.Type, p.Description,
		); err != nil {
			return fmt.Errorf("inserting parameter of %s: %w", rec.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing record %s: %w", rec.Identifier, err)
	}
	return nil
}

// SetProcessType records the classification of a catalogued record.
func (c *Catalog) SetProcessType(identifier, processType string) error {
	res, err := c.db.Exec("UPDATE records SET process_type = ? WHERE identifier = ?", processType, identifier)
	if err != nil {
		return fmt.Errorf("setting process type of %s: %w", identifier, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("setting process type of %s: %w", identifier, err)
	}
	if n == 0 {
		return fmt.Errorf("record %s: %w", identifier, types.ErrNotFound)
	}
	return nil
}

// Get returns the entry for identifier or an error wrapping
// types.ErrNotFound.
func (c *Catalog) Get(identifier string) (Entry, error) {
	row := c.db.QueryRow("SELECT body, process_type, load_id FROM records WHERE identifier = ?", identifier)
	e, err := hydrate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("record %s: %w", identifier, types.ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("getting record %s: %w", identifier, err)
	}
	return e, nil
}

// List returns the entries matching f ordered by identifier.
func (c *Catalog) List(f Filter) ([]Entry, error) {
	query := "SELECT records.body, records.process_type, records.load_id FROM records"
	var conditions []string
	var args []any

	if f.Kind != "" {
		conditions = append(conditions, "records.kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.ProcessType != "" {
		conditions = append(conditions, "records.process_type = ?")
		args = append(args, f.ProcessType)
	}
	if f.Tag != "" {
		query += " INNER JOIN tags ON tags.identifier = records.identifier"
		conditions = append(conditions, "tags.tag = ?")
		args = append(args, f.Tag)
	}
	if f.Text != "" {
		conditions = append(conditions, "(records.identifier LIKE ? OR records.title LIKE ? OR records.description LIKE ?)")
		like := "%" + f.Text + "%"
		args = append(args, like, like, like)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY records.identifier"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := hydrate(rows)
		if err != nil {
			return nil, fmt.Errorf("listing records: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ProcessTypes returns the distinct process types of records of kind.
func (c *Catalog) ProcessTypes(kind types.Kind) ([]string, error) {
	rows, err := c.db.Query(
		"SELECT DISTINCT process_type FROM records WHERE kind = ? AND process_type != '' ORDER BY process_type",
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("listing process types: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var pt string
		if err := rows.Scan(&pt); err != nil {
			return nil, fmt.Errorf("listing process types: %w", err)
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}

// Tags returns every tag with its record count, ordered by tag.
func (c *Catalog) Tags() ([]TagCount, error) {
	rows, err := c.db.Query("SELECT tag, COUNT(*) FROM tags GROUP BY tag ORDER BY tag")
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var out []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("listing tags: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// ParameterKeys returns the identifiers of records declaring key in their
// parameter schema.
func (c *Catalog) ParameterKeys(key string) ([]string, error) {
	rows, err := c.db.Query("SELECT DISTINCT identifier FROM parameters WHERE key = ? ORDER BY identifier", key)
	if err != nil {
		return nil, fmt.Errorf("listing parameter %s: %w", key, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("listing parameter %s: %w", key, err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func hydrate(s scanner) (Entry, error) {
	var body string
	var e Entry
	if err := s.Scan(&body, &e.ProcessType, &e.LoadID); err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal([]byte(body), &e.Record); err != nil {
		return Entry{}, fmt.Errorf("decoding record body: %w", err)
	}
	return e, nil
}

// newLoadID returns a UUID v7, falling back to v4.
func newLoadID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
