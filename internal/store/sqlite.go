package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/crypto/blake2b"

	"editcore/internal/text"
)

// Store represents the SQLite field state store.
type Store struct {
	db  *sql.DB
	key []byte
	now func() time.Time
}

// Open opens or creates the SQLite database at the given path and runs migrations.
func Open(path string) (*Store, error) {
	return OpenKeyed(path, nil)
}

// OpenKeyed is Open with keyed checksums. The key is at most 64 bytes; a
// nil key gives plain BLAKE2b-256.
func OpenKeyed(path string, key []byte) (*Store, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("checksum key must be at most %d bytes", blake2b.Size)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := MigrateDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	// Saved text may be private; keep the file to its owner.
	if err := os.Chmod(path, 0600); err != nil {
		db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	return &Store{db: db, key: key, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save stores v under id, replacing any earlier value.
func (s *Store) Save(id string, v text.TextFieldValue) error {
	sum, err := s.checksum(id, v)
	if err != nil {
		return err
	}

	var compStart, compEnd *int
	if v.Composition != nil {
		compStart, compEnd = &v.Composition.Start, &v.Composition.End
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO field_state (id, text, sel_start, sel_end, comp_start, comp_end, checksum, updated_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, v.Text, v.Selection.Start, v.Selection.End, compStart, compEnd, sum[:], s.now().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("save field state: %w", err)
	}

	return nil
}

// Load returns the value saved under id. It fails with ErrNotFound when
// there is none and with ErrCorrupt when the row does not verify.
func (s *Store) Load(id string) (text.TextFieldValue, error) {
	r, err := s.Get(id)
	if err != nil {
		return text.TextFieldValue{}, err
	}
	return r.Value, nil
}

// Get is Load with the row metadata.
func (s *Store) Get(id string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, text, sel_start, sel_end, comp_start, comp_end, checksum, updated_ns
		FROM field_state WHERE id = ?`, id,
	)
	r, stored, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		return nil, err
	}

	if err := s.verify(r.ID, r.Value, stored); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes the value saved under id.
func (s *Store) Delete(id string) error {
	result, err := s.db.Exec(`DELETE FROM field_state WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete field state: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	return nil
}

// List returns the saved ids in ascending order.
func (s *Store) List() ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM field_state ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list field state: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}

	return ids, nil
}

// GetStats returns row counts for the store.
func (s *Store) GetStats() (*Stats, error) {
	var stats Stats
	var last sql.NullInt64

	err := s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(text)), 0), MAX(updated_ns)
		FROM field_state`,
	).Scan(&stats.Fields, &stats.TotalChars, &last)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	if last.Valid {
		t := time.Unix(0, last.Int64)
		stats.LastUpdated = &t
	}
	return &stats, nil
}

// MigrationStatus reports the schema versions applied to the database.
func (s *Store) MigrationStatus() (*MigrationStatus, error) {
	return GetMigrationStatus(s.db)
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans one field_state row and returns the stored checksum
// alongside.
func scanRecord(row rowScanner) (*Record, []byte, error) {
	var (
		r                  Record
		t                  string
		selStart, selEnd   int
		compStart, compEnd sql.NullInt64
		stored             []byte
		updated            int64
	)

	if err := row.Scan(&r.ID, &t, &selStart, &selEnd, &compStart, &compEnd, &stored, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("scan field state: %w", err)
	}

	var comp *text.TextRange
	if compStart.Valid && compEnd.Valid {
		c := text.NewRange(int(compStart.Int64), int(compEnd.Int64))
		comp = &c
	}
	r.Value = text.TextFieldValue{Text: t, Selection: text.NewRange(selStart, selEnd), Composition: comp}
	r.UpdatedAt = time.Unix(0, updated)
	return &r, stored, nil
}
