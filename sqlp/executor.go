package sqlp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/greghart/dbentry/entryp"
	"github.com/greghart/dbentry/queryp"
)

// Executor runs entry queries on a database.
//
// Every command runs on its own connection, taken from the DB for the duration of the command:
// its statements run in order on that connection, and it is released before the command returns.
type Executor struct {
	db      *DB
	dialect queryp.Dialect
	builder *queryp.Builder
	logger  *slog.Logger
}

var _ entryp.Executor = (*Executor)(nil)

type Option func(*Executor)

// WithLogger logs every command at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(ex *Executor) {
		if l != nil {
			ex.logger = l
		}
	}
}

func NewExecutor(db *DB, dialect queryp.Dialect, opts ...Option) *Executor {
	ex := &Executor{
		db:      db,
		dialect: dialect,
		builder: queryp.NewBuilder(dialect),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(ex)
	}
	return ex
}

func (ex *Executor) DB() *DB {
	return ex.db
}

func (ex *Executor) Dialect() queryp.Dialect {
	return ex.dialect
}

// Builder returns the builder of the executor's dialect.
func (ex *Executor) Builder() *queryp.Builder {
	return ex.builder
}

////////////////////////////////////////////////////////////////////////////////
// Commands

// ExecuteReader runs the query, calling fn with every row of its last statement.
// Returning an error from fn stops reading and is returned as is.
func (ex *Executor) ExecuteReader(ctx context.Context, q *queryp.Query, fn func(Row) error) error {
	return ex.run(ctx, q, func(conn *sql.Conn, query string, args []any, last bool) error {
		if !last {
			_, err := exec(ctx, conn, query, args)
			return err
		}
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query %q: %w", query, err)
		}
		defer rows.Close()

		rs := NewRowScanner(rows)
		for rows.Next() {
			row, err := rs.Scan()
			if err != nil {
				return err
			}
			if err := fn(row); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// ExecuteNonQuery runs the query, returning the number of rows affected by all its statements.
func (ex *Executor) ExecuteNonQuery(ctx context.Context, q *queryp.Query) (int64, error) {
	var affected int64
	err := ex.run(ctx, q, func(conn *sql.Conn, query string, args []any, last bool) error {
		res, err := exec(ctx, conn, query, args)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		affected += n
		return nil
	})
	return affected, err
}

// ExecuteScalar runs the query, returning the first column of the first row of its last statement.
// Returns entryp.ErrRowNotFound when there is no row.
func (ex *Executor) ExecuteScalar(ctx context.Context, q *queryp.Query) (any, error) {
	var v any
	err := ex.run(ctx, q, func(conn *sql.Conn, query string, args []any, last bool) error {
		if !last {
			_, err := exec(ctx, conn, query, args)
			return err
		}
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("failed to query %q: %w", query, err)
		}
		defer rows.Close()

		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return err
			}
			return fmt.Errorf("%w for scalar %q", entryp.ErrRowNotFound, query)
		}
		row, err := NewRowScanner(rows).Scan()
		if err != nil {
			return err
		}
		if len(row.Values()) == 0 {
			return fmt.Errorf("scalar %q returned no columns", query)
		}
		v = row.Values()[0]
		return rows.Close()
	})
	return v, err
}

// Scalar is ExecuteScalar converting the value to T the way database/sql scans it.
// A null scalar is the zero T.
func Scalar[T any](ctx context.Context, ex *Executor, q *queryp.Query) (T, error) {
	var n sql.Null[T]
	v, err := ex.ExecuteScalar(ctx, q)
	if err != nil {
		return n.V, err
	}
	if err := n.Scan(v); err != nil {
		return n.V, fmt.Errorf("failed to convert scalar: %w", err)
	}
	return n.V, nil
}

////////////////////////////////////////////////////////////////////////////////
// Entry commands

func (ex *Executor) InsertEntries(ctx context.Context, entries ...*entryp.Entry) (int64, error) {
	q, err := ex.builder.Insert(entries...)
	if err != nil {
		return 0, err
	}
	return ex.ExecuteNonQuery(ctx, q)
}

func (ex *Executor) InsertIdentity(ctx context.Context, entry *entryp.Entry) (any, error) {
	q, err := ex.builder.InsertIdentity(entry)
	if err != nil {
		return nil, err
	}
	return ex.ExecuteScalar(ctx, q)
}

func (ex *Executor) InsertScoped(ctx context.Context, entry *entryp.Entry, identity *entryp.Property, extra ...*entryp.Property) (*entryp.Entry, error) {
	q, returned, err := ex.builder.InsertScoped(entry, identity, extra...)
	if err != nil {
		return nil, err
	}
	var scoped *entryp.Entry
	err = ex.ExecuteReader(ctx, q, func(row Row) error {
		if scoped != nil {
			return nil
		}
		e, err := FromRow(returned, row)
		scoped = e
		return err
	})
	if err != nil {
		return nil, err
	}
	if scoped == nil {
		return nil, fmt.Errorf("%w: inserted row of %s not selected back", entryp.ErrRowNotFound, entry.Table())
	}
	return scoped, nil
}

func (ex *Executor) GetEntries(ctx context.Context, template *entryp.Entry, top int, search ...*entryp.Property) ([]*entryp.Entry, error) {
	q, err := ex.builder.Select(template, top, search...)
	if err != nil {
		return nil, err
	}
	var entries []*entryp.Entry
	err = ex.ExecuteReader(ctx, q, func(row Row) error {
		e, err := FromRow(template, row)
		if err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

func (ex *Executor) UpdateEntry(ctx context.Context, entry *entryp.Entry, search ...*entryp.Property) (int64, error) {
	q, err := ex.builder.Update(entry, search...)
	if err != nil {
		return 0, err
	}
	return ex.ExecuteNonQuery(ctx, q)
}

func (ex *Executor) DeleteEntry(ctx context.Context, entry *entryp.Entry, search ...*entryp.Property) (int64, error) {
	q, err := ex.builder.Delete(entry, search...)
	if err != nil {
		return 0, err
	}
	return ex.ExecuteNonQuery(ctx, q)
}

////////////////////////////////////////////////////////////////////////////////

// stepFunc runs one statement of a command; last is set for the final one.
type stepFunc func(conn *sql.Conn, query string, args []any, last bool) error

// run runs every statement of q on a dedicated connection.
func (ex *Executor) run(ctx context.Context, q *queryp.Query, step stepFunc) error {
	logger := ex.logger.With("command_id", uuid.NewString())
	start := time.Now()
	named := q.Named(ex.dialect)

	err := func() error {
		conn, err := ex.db.Conn(ctx)
		if err != nil {
			return fmt.Errorf("failed to get connection: %w", err)
		}
		defer conn.Close()

		for i, n := range named {
			query, args := n.Execute()
			logger.DebugContext(ctx, "running statement", "statement", query, "args", len(args))
			if err := step(conn, query, args, i == len(named)-1); err != nil {
				return err
			}
		}
		return nil
	}()

	attrs := []any{
		"dialect", ex.dialect.Name,
		"statements", len(named),
		"duration", time.Since(start),
	}
	if err != nil {
		logger.DebugContext(ctx, "command failed", append(attrs, "error", err)...)
		return err
	}
	logger.DebugContext(ctx, "command done", attrs...)
	return nil
}

func exec(ctx context.Context, q Queryer, query string, args []any) (sql.Result, error) {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute %q: %w", query, err)
	}
	return res, nil
}
