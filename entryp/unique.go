package entryp

import (
	"context"
	"fmt"
)

// UniqueEntry is an entry whose row is identified by an auto incremented primary key.
//
// A UniqueEntry starts unlinked. It becomes linked to a row once inserted, matched or explicitly
// linked, and only a linked entry can update or delete its row.
// The primary key is not one of the entry's properties.
type UniqueEntry[ID Identity] struct {
	*Entry
	primaryKey string
	id         ID
	linked     bool
}

// NewUnique returns an unlinked unique entry.
func NewUnique[ID Identity](primaryKey, table string, props ...*Property) (*UniqueEntry[ID], error) {
	e, err := New(table, props...)
	if err != nil {
		return nil, err
	}
	return AsUnique[ID](primaryKey, e), nil
}

// AsUnique wraps an entry as an unlinked unique entry. The entry is not copied.
func AsUnique[ID Identity](primaryKey string, e *Entry) *UniqueEntry[ID] {
	return &UniqueEntry[ID]{Entry: e, primaryKey: primaryKey}
}

func (u *UniqueEntry[ID]) PrimaryKey() string {
	return u.primaryKey
}

// ID returns the identity of the linked row, and whether there is one.
func (u *UniqueEntry[ID]) ID() (ID, bool) {
	return u.id, u.linked
}

func (u *UniqueEntry[ID]) Linked() bool {
	return u.linked
}

// Link links the entry to an existing row.
func (u *UniqueEntry[ID]) Link(id ID) error {
	if u.linked {
		return fmt.Errorf("cannot link %s to %v: %w", u.Entry, id, ErrAlreadyLinked)
	}
	u.id, u.linked = id, true
	return nil
}

// Unlink forgets the linked row, if any.
func (u *UniqueEntry[ID]) Unlink() {
	var zero ID
	u.id, u.linked = zero, false
}

func (u *UniqueEntry[ID]) identity(id ID) *Property {
	return NewProperty(u.primaryKey, id, TypeBigInt)
}

// Insert inserts the entry as a new row and links to it.
func (u *UniqueEntry[ID]) Insert(ctx context.Context, ex Executor) error {
	if u.linked {
		return fmt.Errorf("cannot insert %s: %w", u.Entry, ErrAlreadyLinked)
	}
	raw, err := ex.InsertIdentity(ctx, u.Entry)
	if err != nil {
		return err
	}
	id, err := ToIdentity[ID](raw)
	if err != nil {
		return fmt.Errorf("failed to read identity of %s: %w", u.Entry, err)
	}
	u.id, u.linked = id, true
	return nil
}

// InsertAndGetScoped inserts the entry, links to the new row and returns it, selected back in the
// same command with its primary key and any extra columns (eg. ones with database defaults).
func (u *UniqueEntry[ID]) InsertAndGetScoped(ctx context.Context, ex Executor, extra ...*Property) (*Entry, error) {
	if u.linked {
		return nil, fmt.Errorf("cannot insert %s: %w", u.Entry, ErrAlreadyLinked)
	}
	row, err := ex.InsertScoped(ctx, u.Entry, Col(u.primaryKey, TypeIdentity), extra...)
	if err != nil {
		return nil, err
	}
	id, err := ToIdentity[ID](row.Value(u.primaryKey))
	if err != nil {
		return nil, fmt.Errorf("failed to read identity of %s: %w", u.Entry, err)
	}
	u.id, u.linked = id, true
	return row, nil
}

// Update writes the entry's values to its linked row.
func (u *UniqueEntry[ID]) Update(ctx context.Context, ex Executor) (int64, error) {
	if !u.linked {
		return 0, fmt.Errorf("cannot update %s: %w", u.Entry, ErrUnlinked)
	}
	return u.Entry.Update(ctx, ex, u.identity(u.id))
}

// Delete deletes the linked row. The entry stays linked.
func (u *UniqueEntry[ID]) Delete(ctx context.Context, ex Executor) (int64, error) {
	if !u.linked {
		return 0, fmt.Errorf("cannot delete %s: %w", u.Entry, ErrUnlinked)
	}
	return u.Entry.Delete(ctx, ex, u.identity(u.id))
}

// MatchFromIdentity loads the row with the given identity into the entry and links to it, whatever
// the entry was linked to before. It returns the full row, which also holds the primary key and
// the extra columns.
func (u *UniqueEntry[ID]) MatchFromIdentity(ctx context.Context, id ID, ex Executor, extra ...*Property) (*Entry, error) {
	all := u.Entry.Copy()
	if !all.Has(u.primaryKey) {
		if err := all.Add(Col(u.primaryKey, TypeBigInt)); err != nil {
			return nil, err
		}
	}
	for _, p := range extra {
		if err := all.Add(p); err != nil {
			return nil, err
		}
	}
	row, err := all.GetTop(ctx, ex, u.identity(id))
	if err != nil {
		return nil, err
	}
	for _, p := range u.Entry.Properties() {
		p.Value = row.Value(p.name)
	}
	matched, err := ToIdentity[ID](row.Value(u.primaryKey))
	if err != nil {
		return nil, fmt.Errorf("failed to read identity of %s: %w", u.Entry, err)
	}
	u.id, u.linked = matched, true
	return row, nil
}
