// Package store persists a contacts.Directory in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/contacts"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
    name     TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    birthday TEXT
);

CREATE TABLE IF NOT EXISTS contact_phones (
    contact_name TEXT NOT NULL REFERENCES contacts(name) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    number       TEXT NOT NULL,
    PRIMARY KEY (contact_name, position)
);
`

// Store wraps the SQLite connection holding the address book.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and applies the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}

	ctx := context.Background()
	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
		}
	}

	// A single connection keeps the pragmas in effect for every statement.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// Save replaces the stored address book with dir, keeping its order.
func (s *Store) Save(ctx context.Context, dir *contacts.Directory) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", config.ErrStoreSave, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM contacts"); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreSave, err)
	}

	for i, r := range dir.Records() {
		var bday sql.NullString
		if b, ok := r.Birthday(); ok {
			bday = sql.NullString{String: b.Date().Format(config.DateFormatFullDash), Valid: true}
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO contacts (name, position, birthday) VALUES (?, ?, ?)",
			r.Name(), i, bday,
		); err != nil {
			return fmt.Errorf("%s: insert %q: %w", config.ErrStoreSave, r.Name(), err)
		}
		for j, number := range r.Phones() {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO contact_phones (contact_name, position, number) VALUES (?, ?, ?)",
				r.Name(), j, number,
			); err != nil {
				return fmt.Errorf("%s: insert phone for %q: %w", config.ErrStoreSave, r.Name(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", config.ErrStoreSave, err)
	}

	slog.Debug(config.MsgStoreSaved,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyRecords, dir.Len(),
	)
	return nil
}

// Load rebuilds the address book. Every stored value goes through the same
// validation as user input.
func (s *Store) Load(ctx context.Context) (*contacts.Directory, error) {
	dir := contacts.NewDirectory()
	byName := make(map[string]*contacts.Record)

	rows, err := s.db.QueryContext(ctx, "SELECT name, birthday FROM contacts ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreLoad, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		var bday sql.NullString
		if err := rows.Scan(&name, &bday); err != nil {
			return nil, fmt.Errorf("%s: scan contact: %w", config.ErrStoreLoad, err)
		}
		r, err := contacts.NewRecord(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrStoreCorrupt, err)
		}
		if bday.Valid {
			t, err := time.Parse(config.DateFormatFullDash, bday.String)
			if err != nil {
				return nil, fmt.Errorf("%s: %q: %w", config.ErrStoreCorrupt, name, err)
			}
			if err := r.AddBirthday(t.Format(config.DateFormatContact)); err != nil {
				return nil, fmt.Errorf("%s: %w", config.ErrStoreCorrupt, err)
			}
		}
		dir.AddRecord(r)
		byName[r.Name()] = r
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreLoad, err)
	}

	phoneRows, err := s.db.QueryContext(ctx,
		"SELECT contact_name, number FROM contact_phones ORDER BY contact_name, position")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreLoad, err)
	}
	defer phoneRows.Close()

	for phoneRows.Next() {
		var name, number string
		if err := phoneRows.Scan(&name, &number); err != nil {
			return nil, fmt.Errorf("%s: scan phone: %w", config.ErrStoreLoad, err)
		}
		r, ok := byName[name]
		if !ok {
			continue
		}
		if err := r.AddPhone(number); err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrStoreCorrupt, err)
		}
	}
	if err := phoneRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreLoad, err)
	}

	slog.Debug(config.MsgStoreLoaded,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyRecords, dir.Len(),
	)
	return dir, nil
}
