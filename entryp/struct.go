package entryp

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/greghart/dbentry/internal/reflectp"
	"github.com/shopspring/decimal"
)

// TagKey is the struct tag read by SchemaOf, FromStruct and Scan.
// The tag holds the column name and optionally its type, eg. `entry:"created_at,datetime"`.
// Without a type, the type is inferred from the field's Go type.
const TagKey = "entry"

var (
	timeType    = reflect.TypeOf(time.Time{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	bytesType   = reflect.TypeOf([]byte(nil))
)

// SchemaOf returns the schema of a struct (or pointer to struct) for the given table.
func SchemaOf(v any, table string) (Schema, error) {
	fields, err := structFields(reflect.TypeOf(v))
	if err != nil {
		return Schema{}, err
	}
	s := Schema{Table: table, Columns: make([]Column, 0, len(fields.Ordered))}
	for _, f := range fields.Ordered {
		typ, err := fieldType(f)
		if err != nil {
			return Schema{}, err
		}
		s.Columns = append(s.Columns, Column{Name: f.Column, Type: typ})
	}
	return s, nil
}

// FromStruct returns an entry for the table holding the struct's field values.
// Nil pointers are null.
func FromStruct(v any, table string) (*Entry, error) {
	s, err := SchemaOf(v, table)
	if err != nil {
		return nil, err
	}
	fields, _ := structFields(reflect.TypeOf(v))
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, fmt.Errorf("cannot read entry from nil %T", v)
	}
	e := s.New()
	for i, f := range fields.Ordered {
		fv, ok := f.Get(rv)
		if !ok {
			continue
		}
		e.props[s.Columns[i].Name].Value = fv.Interface()
	}
	return e, nil
}

// Scan copies the entry's values into the matching fields of dest, a pointer to a struct.
// Fields without a property are left untouched, null values zero their field.
func (e *Entry) Scan(dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("cannot scan entry into %T, expected a non nil pointer", dest)
	}
	fields, err := structFields(rv.Type())
	if err != nil {
		return err
	}
	for _, f := range fields.Ordered {
		p, ok := e.props[f.Column]
		if !ok {
			continue
		}
		if err := assign(f.Target(rv), p.Value); err != nil {
			return fmt.Errorf("failed to scan %s into field %s: %w", f.Column, fields.Type.FieldByIndex(f.Index).Name, err)
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

func structFields(t reflect.Type) (*reflectp.Fields, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot map nil to an entry")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return reflectp.FieldsFactory(t, TagKey)
}

func fieldType(f *reflectp.Field) (ColumnType, error) {
	if name := f.Options.First(); name != "" {
		return ParseColumnType(name)
	}
	t := f.DirectType
	switch t {
	case timeType:
		return TypeDateTime, nil
	case uuidType:
		return TypeUUID, nil
	case decimalType:
		return TypeDecimal, nil
	case bytesType:
		return TypeBinary, nil
	}
	switch t.Kind() {
	case reflect.String:
		return TypeText, nil
	case reflect.Bool:
		return TypeBool, nil
	case reflect.Int64, reflect.Uint64, reflect.Uint32:
		return TypeBigInt, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Uint, reflect.Uint8, reflect.Uint16:
		return TypeInt, nil
	case reflect.Float32, reflect.Float64:
		return TypeFloat, nil
	}
	return TypeText, fmt.Errorf("cannot infer column type of %s (%s), tag it with a type", f.Column, f.Type)
}

// assign sets field to v, converting between compatible types.
func assign(field reflect.Value, v any) error {
	if v == nil {
		field.Set(reflect.Zero(field.Type()))
		return nil
	}
	rv := reflect.ValueOf(v)
	if field.Kind() == reflect.Pointer && !rv.Type().AssignableTo(field.Type()) {
		ptr := reflect.New(field.Type().Elem())
		if err := assign(ptr.Elem(), v); err != nil {
			return err
		}
		field.Set(ptr)
		return nil
	}
	switch {
	case rv.Type().AssignableTo(field.Type()):
		field.Set(rv)
	case convertible(rv, field.Type()):
		if overflows(rv, field) {
			return fmt.Errorf("cannot assign %v to %s, out of range", v, field.Type())
		}
		field.Set(rv.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %T to %s", v, field.Type())
	}
	return nil
}

// convertible only allows conversions that keep the value's meaning, so eg. an int never becomes
// a rune string.
func convertible(v reflect.Value, t reflect.Type) bool {
	if !v.CanConvert(t) {
		return false
	}
	from, to := v.Kind(), t.Kind()
	switch {
	case isNumber(from) && isNumber(to):
		return true
	case from == to:
		return true
	case from == reflect.String && to == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		return true
	case from == reflect.Slice && to == reflect.String:
		return v.Type().Elem().Kind() == reflect.Uint8
	}
	return false
}

// overflows reports whether the number v is out of the range of field's kind.
func overflows(v, field reflect.Value) bool {
	switch {
	case field.CanInt():
		switch {
		case v.CanInt():
			return field.OverflowInt(v.Int())
		case v.CanUint():
			return v.Uint() > math.MaxInt64 || field.OverflowInt(int64(v.Uint()))
		case v.CanFloat():
			f := v.Float()
			return f < math.MinInt64 || f >= math.MaxInt64 || field.OverflowInt(int64(f))
		}
	case field.CanUint():
		switch {
		case v.CanInt():
			return v.Int() < 0 || field.OverflowUint(uint64(v.Int()))
		case v.CanUint():
			return field.OverflowUint(v.Uint())
		case v.CanFloat():
			f := v.Float()
			return f < 0 || f >= math.MaxUint64 || field.OverflowUint(uint64(f))
		}
	case field.CanFloat():
		if v.CanFloat() {
			return field.OverflowFloat(v.Float())
		}
	}
	return false
}

func isNumber(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}
