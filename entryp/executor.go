package entryp

import (
	"context"
	"fmt"
)

// Executor runs entry commands against a database.
// sqlp.Executor is the database/sql implementation.
type Executor interface {
	// InsertEntries inserts entries of the same type in one command, returning rows affected.
	InsertEntries(ctx context.Context, entries ...*Entry) (int64, error)
	// InsertIdentity inserts the entry and returns the identity the database generated for it.
	InsertIdentity(ctx context.Context, entry *Entry) (any, error)
	// InsertScoped inserts the entry and selects it back, along with its identity and any extra
	// columns, in the same command.
	InsertScoped(ctx context.Context, entry *Entry, identity *Property, extra ...*Property) (*Entry, error)
	// GetEntries returns up to top rows (all when top <= 0) shaped like template, matching every
	// search property.
	GetEntries(ctx context.Context, template *Entry, top int, search ...*Property) ([]*Entry, error)
	UpdateEntry(ctx context.Context, entry *Entry, search ...*Property) (int64, error)
	DeleteEntry(ctx context.Context, entry *Entry, search ...*Property) (int64, error)
}

// Insert inserts the entry.
func (e *Entry) Insert(ctx context.Context, ex Executor) error {
	_, err := ex.InsertEntries(ctx, e)
	return err
}

// Get returns up to top rows shaped like e that match the search properties.
func (e *Entry) Get(ctx context.Context, ex Executor, top int, search ...*Property) ([]*Entry, error) {
	return ex.GetEntries(ctx, e, top, search...)
}

// GetAll returns every row shaped like e that matches the search properties.
func (e *Entry) GetAll(ctx context.Context, ex Executor, search ...*Property) ([]*Entry, error) {
	return e.Get(ctx, ex, -1, search...)
}

// GetTop returns the first row matching the search properties, or ErrRowNotFound.
func (e *Entry) GetTop(ctx context.Context, ex Executor, search ...*Property) (*Entry, error) {
	rows, err := e.Get(ctx, ex, 1, search...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrRowNotFound, e.table)
	}
	return rows[0], nil
}

// Update sets every column of the rows matching the search properties to the values of e.
func (e *Entry) Update(ctx context.Context, ex Executor, search ...*Property) (int64, error) {
	return ex.UpdateEntry(ctx, e, search...)
}

// Delete deletes the rows of e's table matching the search properties.
func (e *Entry) Delete(ctx context.Context, ex Executor, search ...*Property) (int64, error) {
	return ex.DeleteEntry(ctx, e, search...)
}
