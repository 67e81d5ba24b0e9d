package entryp

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Property is a single column of an Entry: a name, a column type and a value.
// A nil Value is the null marker.
type Property struct {
	name  string
	Type  ColumnType
	Value any
}

// NewProperty returns a property with the given name, value and column type.
func NewProperty(name string, value any, typ ColumnType) *Property {
	return &Property{name: name, Type: typ, Value: value}
}

// Prop returns a text property with the given value.
func Prop(name string, value any) *Property {
	return NewProperty(name, value, TypeText)
}

// Col returns a property without a value, used to describe a column to select.
func Col(name string, typ ColumnType) *Property {
	return NewProperty(name, nil, typ)
}

func (p *Property) Name() string {
	return p.name
}

func (p *Property) Copy() *Property {
	c := *p
	return &c
}

func (p *Property) HasValue() bool {
	return p.Value != nil
}

// HasValueOf reports whether the property has a non null value equal to v.
func (p *Property) HasValueOf(v any) bool {
	return p.Value != nil && valuesEqual(p.Value, v)
}

// Equal reports whether both properties share name, type and value.
func (p *Property) Equal(o *Property) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.name == o.name && p.Type == o.Type && valuesEqual(p.Value, o.Value)
}

func (p *Property) String() string {
	return fmt.Sprintf("(Name: %s, Type: %s)", p.name, p.Type)
}

func valuesEqual(a, b any) bool {
	switch a := a.(type) {
	case time.Time:
		bt, ok := b.(time.Time)
		return ok && a.Equal(bt)
	case decimal.Decimal:
		bd, ok := b.(decimal.Decimal)
		return ok && a.Equal(bd)
	case []byte:
		bb, ok := b.([]byte)
		return ok && bytes.Equal(a, bb)
	}
	return reflect.DeepEqual(a, b)
}
