package sqlp

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/greghart/dbentry/entryp"
)

// DB extends the stdlib sql.DB type to add additional behavior.
type DB struct {
	*sql.DB
}

// NewDB builds a new sqlp.DB for when you already have an existing sql.DB.
func NewDB(db *sql.DB) *DB {
	return &DB{db}
}

// Open opens a database without idle connection reuse: every command gets a fresh connection,
// which is closed once the command is done.
func Open(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	db.SetMaxIdleConns(0)

	return NewDB(db), nil
}

////////////////////////////////////////////////////////////////////////////////
// Standardized APIs

// Queryer is what statements run on, either the DB itself or a dedicated *sql.Conn.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ Queryer = (*sql.DB)(nil)
	_ Queryer = (*sql.Conn)(nil)
)

// Exec runs ExecContext.
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.DB.ExecContext(ctx, query, args...)
}

// Query runs QueryContext.
func (db *DB) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.DB.QueryContext(ctx, query, args...)
}

// QueryRow runs QueryRowContext.
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.DB.QueryRowContext(ctx, query, args...)
}

////////////////////////////////////////////////////////////////////////////////
// Entry APIs

// Get runs a query and scans the first row into a blank copy of template.
// Returns entryp.ErrRowNotFound when there are no rows.
func (db *DB) Get(ctx context.Context, template *entryp.Entry, query string, args ...any) (*entryp.Entry, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	es := NewEntryScanner(rows, template)
	if !es.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w for %s", entryp.ErrRowNotFound, template)
	}
	e, err := es.Scan()
	if err != nil {
		return nil, err
	}
	return e, rows.Close()
}

// Select runs a query and scans every row into blank copies of template.
func (db *DB) Select(ctx context.Context, template *entryp.Entry, query string, args ...any) ([]*entryp.Entry, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*entryp.Entry
	es := NewEntryScanner(rows, template)
	for es.Next() {
		e, err := es.Scan()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
