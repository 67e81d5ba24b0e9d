package entryp

import (
	"fmt"
)

// Entry is a row of a database table: a table name and an ordered set of uniquely named properties.
// Property order is significant, it is the column order of every query built from the entry.
//
// The zero value is an empty entry without a table.
type Entry struct {
	table string
	names []string
	props map[string]*Property
}

// New returns an entry for the table with the given properties.
func New(table string, props ...*Property) (*Entry, error) {
	e := &Entry{table: table}
	for _, p := range props {
		if err := e.Add(p); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// MustNew is like New but panics on a duplicate property.
// Useful for package level templates.
func MustNew(table string, props ...*Property) *Entry {
	e, err := New(table, props...)
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Entry) Table() string {
	return e.table
}

func (e *Entry) SetTable(table string) {
	e.table = table
}

// Add adds a copy of the property to the end of the entry.
func (e *Entry) Add(p *Property) error {
	if _, ok := e.props[p.name]; ok {
		return &DuplicatePropertyError{Name: p.name}
	}
	if e.props == nil {
		e.props = make(map[string]*Property)
	}
	e.props[p.name] = p.Copy()
	e.names = append(e.names, p.name)
	return nil
}

func (e *Entry) AddValue(name string, value any, typ ColumnType) error {
	return e.Add(NewProperty(name, value, typ))
}

// Remove removes the named property, if present.
func (e *Entry) Remove(name string) {
	if _, ok := e.props[name]; !ok {
		return
	}
	delete(e.props, name)
	for i, n := range e.names {
		if n == name {
			e.names = append(e.names[:i:i], e.names[i+1:]...)
			break
		}
	}
}

// Property returns the named property. The returned property belongs to the entry, so changing its
// value changes the entry.
func (e *Entry) Property(name string) (*Property, bool) {
	p, ok := e.props[name]
	return p, ok
}

func (e *Entry) Has(name string) bool {
	_, ok := e.props[name]
	return ok
}

// Value returns the value of the named property, nil if it is null or missing.
func (e *Entry) Value(name string) any {
	if p, ok := e.props[name]; ok {
		return p.Value
	}
	return nil
}

// Set sets the value of an existing property.
func (e *Entry) Set(name string, value any) error {
	p, ok := e.props[name]
	if !ok {
		return fmt.Errorf("%w %s in %s", ErrUnknownProperty, name, e.table)
	}
	p.Value = value
	return nil
}

// Properties returns the entry's properties in order.
func (e *Entry) Properties() []*Property {
	props := make([]*Property, len(e.names))
	for i, n := range e.names {
		props[i] = e.props[n]
	}
	return props
}

// Names returns the property names in order.
func (e *Entry) Names() []string {
	return append([]string(nil), e.names...)
}

func (e *Entry) Len() int {
	return len(e.names)
}

func (e *Entry) HasTable() bool {
	return e != nil && e.table != ""
}

// CheckTable returns ErrMissingTableName if the entry has no table.
func (e *Entry) CheckTable() error {
	if !e.HasTable() {
		return ErrMissingTableName
	}
	return nil
}

// Schema returns the schema of the entry. A nil entry has the zero schema.
func (e *Entry) Schema() Schema {
	if e == nil {
		return Schema{}
	}
	s := Schema{Table: e.table, Columns: make([]Column, len(e.names))}
	for i, n := range e.names {
		s.Columns[i] = Column{Name: n, Type: e.props[n].Type}
	}
	return s
}

func (e *Entry) String() string {
	return e.Schema().String()
}

////////////////////////////////////////////////////////////////////////////////
// Comparison

// SameType reports whether both entries share a table and the same set of property names and types.
// Property order is not considered.
func (e *Entry) SameType(o *Entry) bool {
	return e.CheckSameType(o) == nil
}

// CheckSameType is SameType returning an *IncomparableTypesError on mismatch.
func (e *Entry) CheckSameType(o *Entry) error {
	if !e.sameType(o) {
		return &IncomparableTypesError{Expected: e.Schema(), Actual: o.Schema()}
	}
	return nil
}

func (e *Entry) sameType(o *Entry) bool {
	if o == nil || e.table != o.table || len(e.names) != len(o.names) {
		return false
	}
	for name, p := range e.props {
		op, ok := o.props[name]
		if !ok || op.Type != p.Type {
			return false
		}
	}
	return true
}

// SameTypeAll reports whether every other entry has the same type as e.
func (e *Entry) SameTypeAll(others ...*Entry) bool {
	return e.CheckSameTypeAll(others...) == nil
}

// CheckSameTypeAll returns the error of the first entry not matching the type of e.
func (e *Entry) CheckSameTypeAll(others ...*Entry) error {
	for _, o := range others {
		if err := e.CheckSameType(o); err != nil {
			return err
		}
	}
	return nil
}

// Equal reports whether both entries are the same type and every property value matches.
func (e *Entry) Equal(o *Entry) bool {
	eq, _ := e.CheckEqual(o)
	return eq
}

// CheckEqual is Equal, but entries of different types are an error rather than unequal.
func (e *Entry) CheckEqual(o *Entry) (bool, error) {
	if err := e.CheckSameType(o); err != nil {
		return false, err
	}
	for name, p := range e.props {
		if !valuesEqual(p.Value, o.props[name].Value) {
			return false, nil
		}
	}
	return true, nil
}

func (e *Entry) EqualAll(others ...*Entry) bool {
	eq, _ := e.CheckEqualAll(others...)
	return eq
}

// CheckEqualAll compares e to every other entry, stopping at the first one that differs.
func (e *Entry) CheckEqualAll(others ...*Entry) (bool, error) {
	for _, o := range others {
		if eq, err := e.CheckEqual(o); !eq {
			return false, err
		}
	}
	return true, nil
}

// AreSameType reports whether all entries share a type. No entries are trivially the same.
func AreSameType(entries ...*Entry) bool {
	if len(entries) == 0 {
		return true
	}
	return entries[0].SameTypeAll(entries[1:]...)
}

// AreEqual reports whether all entries are equal.
func AreEqual(entries ...*Entry) bool {
	if len(entries) == 0 {
		return true
	}
	return entries[0].EqualAll(entries[1:]...)
}

////////////////////////////////////////////////////////////////////////////////
// Copies

// BlankCopy returns an entry of the same type with every value null.
func (e *Entry) BlankCopy() *Entry {
	return e.Schema().New()
}

// Copy returns an independent entry with the same table, properties and values.
// Values themselves are shared.
func (e *Entry) Copy() *Entry {
	c := &Entry{table: e.table}
	for _, n := range e.names {
		_ = c.Add(e.props[n])
	}
	return c
}

// CopyValues returns an entry of the same type holding the given values, in property order.
func (e *Entry) CopyValues(values ...any) (*Entry, error) {
	if len(values) != len(e.names) {
		return nil, &IncomparableTypesError{
			Expected: e.Schema(),
			Reason:   fmt.Sprintf("%d values given for the %d properties of %s", len(values), len(e.names), e),
		}
	}
	c := e.BlankCopy()
	for i, n := range c.names {
		c.props[n].Value = values[i]
	}
	return c, nil
}
