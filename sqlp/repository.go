package sqlp

import (
	"context"
	"fmt"

	"github.com/greghart/dbentry/entryp"
)

// Repository provides a data access layer for the rows of one table, identified by an
// auto incremented primary key.
type Repository[ID entryp.Identity] struct {
	*Executor
	schema     entryp.Schema
	primaryKey string
}

// NewRepository returns a repository for rows of schema. The primary key must not be one of the
// schema's columns.
func NewRepository[ID entryp.Identity](ex *Executor, schema entryp.Schema, primaryKey string) *Repository[ID] {
	return &Repository[ID]{Executor: ex, schema: schema, primaryKey: primaryKey}
}

// Validate checks the repository's schema is usable.
func (r *Repository[ID]) Validate() error {
	if r.schema.Table == "" {
		return entryp.ErrMissingTableName
	}
	if r.primaryKey == "" {
		return fmt.Errorf("%s has no primary key", r.schema.Table)
	}
	seen := make(map[string]bool, len(r.schema.Columns))
	for _, c := range r.schema.Columns {
		if seen[c.Name] {
			return fmt.Errorf("duplicate column name %s", c.Name)
		}
		if c.Name == r.primaryKey {
			return fmt.Errorf("primary key %s must not be a column of %s", c.Name, r.schema.Table)
		}
		seen[c.Name] = true
	}
	return nil
}

func (r *Repository[ID]) Schema() entryp.Schema {
	return r.schema
}

// New returns an unlinked entry, holding values in column order if any are given.
func (r *Repository[ID]) New(values ...any) (*entryp.UniqueEntry[ID], error) {
	e := r.schema.New()
	if len(values) > 0 {
		var err error
		if e, err = e.CopyValues(values...); err != nil {
			return nil, err
		}
	}
	return entryp.AsUnique[ID](r.primaryKey, e), nil
}

// Find returns the entry linked to the row with the given identity.
func (r *Repository[ID]) Find(ctx context.Context, id ID) (*entryp.UniqueEntry[ID], error) {
	u, err := r.New()
	if err != nil {
		return nil, err
	}
	if _, err := u.MatchFromIdentity(ctx, id, r.Executor); err != nil {
		return nil, err
	}
	return u, nil
}

// Select returns linked entries for every row matching the search properties.
func (r *Repository[ID]) Select(ctx context.Context, search ...*entryp.Property) ([]*entryp.UniqueEntry[ID], error) {
	template := r.schema.New()
	if err := template.Add(entryp.Col(r.primaryKey, entryp.TypeBigInt)); err != nil {
		return nil, err
	}
	rows, err := r.GetEntries(ctx, template, -1, search...)
	if err != nil {
		return nil, err
	}
	entries := make([]*entryp.UniqueEntry[ID], len(rows))
	for i, row := range rows {
		id, err := entryp.ToIdentity[ID](row.Value(r.primaryKey))
		if err != nil {
			return nil, fmt.Errorf("failed to read identity of %s: %w", r.schema.Table, err)
		}
		row.Remove(r.primaryKey)
		u := entryp.AsUnique[ID](r.primaryKey, row)
		_ = u.Link(id) // fresh entries are unlinked
		entries[i] = u
	}
	return entries, nil
}

// Insert inserts the entry and links it to its new row.
func (r *Repository[ID]) Insert(ctx context.Context, u *entryp.UniqueEntry[ID]) error {
	if err := u.CheckSameType(r.schema.New()); err != nil {
		return err
	}
	return u.Insert(ctx, r.Executor)
}
