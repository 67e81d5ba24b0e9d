package sqlp

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/greghart/dbentry/entryp"
)

// Row is a result row: its column names and the values the driver returned for them.
type Row struct {
	cols []string
	vals []any
}

func NewRow(cols []string, vals []any) Row {
	return Row{cols: cols, vals: vals}
}

func (r Row) Columns() []string {
	return r.cols
}

func (r Row) Values() []any {
	return r.vals
}

// Get returns the value of a column. Column names are matched exactly first, then case
// insensitively, since eg. postgres folds unquoted names to lower case.
func (r Row) Get(col string) (any, bool) {
	for i, c := range r.cols {
		if c == col {
			return r.vals[i], true
		}
	}
	for i, c := range r.cols {
		if strings.EqualFold(c, col) {
			return r.vals[i], true
		}
	}
	return nil, false
}

////////////////////////////////////////////////////////////////////////////////

// RowScanner scans rows without knowing their shape upfront.
type RowScanner struct {
	*sql.Rows
	cols []string
}

func NewRowScanner(rows *sql.Rows) *RowScanner {
	return &RowScanner{Rows: rows}
}

func (rs *RowScanner) Scan() (Row, error) {
	if rs.cols == nil {
		cols, err := rs.Columns()
		if err != nil {
			return Row{}, fmt.Errorf("failed to get columns: %w", err)
		}
		rs.cols = cols
	}

	vals := make([]any, len(rs.cols))
	targets := make([]any, len(rs.cols))
	for i := range vals {
		targets[i] = &vals[i]
	}
	if err := rs.Rows.Scan(targets...); err != nil {
		return Row{}, fmt.Errorf("failed to scan row: %w", err)
	}
	return NewRow(rs.cols, vals), nil
}

////////////////////////////////////////////////////////////////////////////////

// EntryScanner scans rows into blank copies of a template entry.
type EntryScanner struct {
	*RowScanner
	template *entryp.Entry
}

func NewEntryScanner(rows *sql.Rows, template *entryp.Entry) *EntryScanner {
	return &EntryScanner{RowScanner: NewRowScanner(rows), template: template}
}

func (es *EntryScanner) Scan() (*entryp.Entry, error) {
	row, err := es.RowScanner.Scan()
	if err != nil {
		return nil, err
	}
	return FromRow(es.template, row)
}

// FromRow returns a blank copy of template filled with the row's values, normalized to each
// property's column type. Every property of template must be a column of the row.
func FromRow(template *entryp.Entry, row Row) (*entryp.Entry, error) {
	e := template.BlankCopy()
	for _, p := range e.Properties() {
		v, ok := row.Get(p.Name())
		if !ok {
			return nil, fmt.Errorf("column %s of %s missing from result", p.Name(), template.Table())
		}
		normalized, err := p.Type.Normalize(v)
		if err != nil {
			return nil, fmt.Errorf("failed to read column %s: %w", p.Name(), err)
		}
		p.Value = normalized
	}
	return e, nil
}
