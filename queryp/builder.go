package queryp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/greghart/dbentry/entryp"
)

var (
	ErrNoEntries          = errors.New("no entries to insert")
	ErrNoSearchProperties = errors.New("no search properties, refusing to target every row")
)

// Builder builds entry queries for a dialect.
//
// Every query uses the entry's table and property names verbatim, and binds values as '@name'
// parameters named after their property.
type Builder struct {
	Dialect Dialect
}

func NewBuilder(d Dialect) *Builder {
	return &Builder{Dialect: d}
}

var defaultBuilder = NewBuilder(SQLServer)

// Select builds a query selecting up to top rows (all when top <= 0) of template's columns, where
// every search property matches.
//
//	SELECT TOP(1) A,B FROM T WHERE C=@C
func Select(template *entryp.Entry, top int, search ...*entryp.Property) (*Query, error) {
	return defaultBuilder.Select(template, top, search...)
}

// Insert builds a query inserting entries of the same type in one statement. Parameters of the
// entry at index i > 0 are suffixed with i.
//
//	INSERT INTO T (A,B) VALUES (@A,@B),(@A1,@B1);
func Insert(entries ...*entryp.Entry) (*Query, error) {
	return defaultBuilder.Insert(entries...)
}

// InsertIdentity builds a query inserting the entry, then selecting the identity it was given.
//
//	INSERT INTO T (A,B) VALUES (@A,@B); SELECT SCOPE_IDENTITY();
func InsertIdentity(entry *entryp.Entry) (*Query, error) {
	return defaultBuilder.InsertIdentity(entry)
}

// InsertScoped builds a query inserting the entry, then selecting the inserted row back with the
// identity column and extra columns. It also returns the blank entry the row is read into.
//
//	INSERT INTO T (A,B) VALUES (@A,@B); SELECT TOP(1) A,B,ID FROM T WHERE ID=SCOPE_IDENTITY();
func InsertScoped(entry *entryp.Entry, identity *entryp.Property, extra ...*entryp.Property) (*Query, *entryp.Entry, error) {
	return defaultBuilder.InsertScoped(entry, identity, extra...)
}

// Update builds a query setting every column of the matching rows to the entry's values.
// Search parameters are prefixed with Where.
//
//	UPDATE T SET A=@A,B=@B WHERE ID=@WhereID
func Update(entry *entryp.Entry, search ...*entryp.Property) (*Query, error) {
	return defaultBuilder.Update(entry, search...)
}

// Delete builds a query deleting the matching rows of the entry's table.
//
//	DELETE FROM T WHERE ID=@ID
func Delete(entry *entryp.Entry, search ...*entryp.Property) (*Query, error) {
	return defaultBuilder.Delete(entry, search...)
}

////////////////////////////////////////////////////////////////////////////////

func (b *Builder) Select(template *entryp.Entry, top int, search ...*entryp.Property) (*Query, error) {
	if err := template.CheckTable(); err != nil {
		return nil, err
	}
	q := &Query{}
	q.add(b.selectText(template, top, q.where(search, "")))
	return q, nil
}

func (b *Builder) Insert(entries ...*entryp.Entry) (*Query, error) {
	q := &Query{}
	stmt, err := q.insert(entries)
	if err != nil {
		return nil, err
	}
	q.add(stmt)
	return q, nil
}

func (b *Builder) InsertIdentity(entry *entryp.Entry) (*Query, error) {
	q := &Query{}
	stmt, err := q.insert([]*entryp.Entry{entry})
	if err != nil {
		return nil, err
	}
	q.add(stmt)
	q.add("SELECT " + b.Dialect.LastIdentity + ";")
	return q, nil
}

func (b *Builder) InsertScoped(entry *entryp.Entry, identity *entryp.Property, extra ...*entryp.Property) (*Query, *entryp.Entry, error) {
	q := &Query{}
	stmt, err := q.insert([]*entryp.Entry{entry})
	if err != nil {
		return nil, nil, err
	}
	returned := entry.BlankCopy()
	for _, p := range append([]*entryp.Property{identity}, extra...) {
		if err := returned.Add(entryp.Col(p.Name(), p.Type)); err != nil {
			return nil, nil, fmt.Errorf("failed to add returned column: %w", err)
		}
	}
	q.add(stmt)
	q.add(b.selectText(returned, 1, identity.Name()+"="+b.Dialect.LastIdentity) + ";")
	return q, returned, nil
}

func (b *Builder) Update(entry *entryp.Entry, search ...*entryp.Property) (*Query, error) {
	if err := entry.CheckTable(); err != nil {
		return nil, err
	}
	if len(search) == 0 {
		return nil, fmt.Errorf("cannot update %s: %w", entry.Table(), ErrNoSearchProperties)
	}
	q := &Query{}
	props := entry.Properties()
	sets := make([]string, len(props))
	for i, p := range props {
		sets[i] = p.Name() + "=" + q.param(p, "", "")
	}
	q.add(fmt.Sprintf("UPDATE %s SET %s WHERE %s", entry.Table(), strings.Join(sets, ","), q.where(search, "Where")))
	return q, nil
}

func (b *Builder) Delete(entry *entryp.Entry, search ...*entryp.Property) (*Query, error) {
	if err := entry.CheckTable(); err != nil {
		return nil, err
	}
	if len(search) == 0 {
		return nil, fmt.Errorf("cannot delete from %s: %w", entry.Table(), ErrNoSearchProperties)
	}
	q := &Query{}
	q.add(fmt.Sprintf("DELETE FROM %s WHERE %s", entry.Table(), q.where(search, "")))
	return q, nil
}

////////////////////////////////////////////////////////////////////////////////

func (b *Builder) selectText(template *entryp.Entry, top int, where string) string {
	sb := strings.Builder{}
	sb.WriteString("SELECT ")
	if top > 0 && b.Dialect.Limit == LimitTop {
		fmt.Fprintf(&sb, "TOP(%d) ", top)
	}
	sb.WriteString(strings.Join(template.Names(), ","))
	sb.WriteString(" FROM ")
	sb.WriteString(template.Table())
	if where != "" {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if top > 0 && b.Dialect.Limit == LimitSuffix {
		fmt.Fprintf(&sb, " LIMIT %d", top)
	}
	return sb.String()
}

// insert renders the insert statement of entries, using the first entry's property order for
// every row.
func (q *Query) insert(entries []*entryp.Entry) (string, error) {
	if len(entries) == 0 {
		return "", ErrNoEntries
	}
	first := entries[0]
	if err := first.CheckTable(); err != nil {
		return "", err
	}
	if err := first.CheckSameTypeAll(entries[1:]...); err != nil {
		return "", err
	}
	names := first.Names()
	rows := make([]string, len(entries))
	for i, e := range entries {
		suffix := ""
		if i > 0 {
			suffix = strconv.Itoa(i)
		}
		values := make([]string, len(names))
		for j, name := range names {
			p, _ := e.Property(name)
			values[j] = q.param(p, "", suffix)
		}
		rows[i] = "(" + strings.Join(values, ",") + ")"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s;", first.Table(), strings.Join(names, ","), strings.Join(rows, ",")), nil
}
