package entryp

import (
	"fmt"
	"strings"
)

// Column describes one column of a Schema.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the type of an entry: its table and ordered columns.
type Schema struct {
	Table   string
	Columns []Column
}

// New returns a blank entry of this schema.
// Duplicate columns are skipped, the first one wins.
func (s Schema) New() *Entry {
	e := &Entry{table: s.Table}
	for _, c := range s.Columns {
		_ = e.Add(Col(c.Name, c.Type))
	}
	return e
}

// Equal reports whether both schemas describe the same table with the same columns, regardless of
// column order.
func (s Schema) Equal(o Schema) bool {
	return s.New().SameType(o.New())
}

// String renders the schema like Entry(table, [(Name: A, Type: text), ...]).
func (s Schema) String() string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = fmt.Sprintf("(Name: %s, Type: %s)", c.Name, c.Type)
	}
	return fmt.Sprintf("Entry(%s, [%s])", s.Table, strings.Join(cols, ", "))
}
