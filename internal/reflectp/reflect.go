package reflectp

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
)

// Field represents a column field in a struct.
// Adapted from json package reflection, flattened: embedded structs promote their fields, any other
// field (including struct values like time.Time) is a single column.
type Field struct {
	Column  string
	Options TagOptions

	Tag        bool
	Index      []int
	DirectType reflect.Type // Direct type of field, equal to Type unless pointer
	Type       reflect.Type
}

// Get returns the field's value in strct, and false when a nil embedded pointer is in the way.
// Pointer fields are followed, a nil pointer field is reported as invalid.
func (f *Field) Get(strct reflect.Value) (reflect.Value, bool) {
	v, err := reflect.Indirect(strct).FieldByIndexErr(f.Index)
	if err != nil {
		return reflect.Value{}, false
	}
	if v.Kind() == reflect.Pointer && f.Type != f.DirectType {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, true
}

// Target returns the settable field in strct, allocating nil embedded pointers on the way.
// The field itself is returned as is, so a pointer field stays a pointer.
func (f *Field) Target(strct reflect.Value) reflect.Value {
	v := reflect.Indirect(strct)
	for j, i := range f.Index {
		v = v.Field(i)
		// Don't touch our leaf
		if j == len(f.Index)-1 {
			break
		}
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
	}
	return v
}

////////////////////////////////////////////////////////////////////////////////

// Fields represents the column fields of a struct, in declaration order.
type Fields struct {
	Ordered      []*Field
	ByColumnName map[string]*Field
	Type         reflect.Type
}

// FieldsFactory returns the fields of a struct type for the given tag key.
// Internally, all types are stored in a cache to avoid repeated work.
func FieldsFactory(t reflect.Type, tagKey string) (*Fields, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("given %v, expected struct", t.Kind())
	}
	key := cacheKey{t, tagKey}
	if f, ok := fieldsCache.Load(key); ok {
		return f.(*Fields), nil
	}
	f, err := newFields(t, tagKey, map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}
	fCache, _ := fieldsCache.LoadOrStore(key, f)
	return fCache.(*Fields), nil
}

func newFields(t reflect.Type, tagKey string, visited map[reflect.Type]bool) (*Fields, error) {
	if visited[t] {
		return nil, fmt.Errorf("recursive embedded struct %s", t)
	}
	visited[t] = true
	defer delete(visited, t)

	fields := &Fields{Type: t, ByColumnName: make(map[string]*Field, t.NumField())}
	add := func(f *Field) error {
		if _, ok := fields.ByColumnName[f.Column]; ok {
			return fmt.Errorf("duplicate column name %s", f.Column)
		}
		fields.ByColumnName[f.Column] = f
		fields.Ordered = append(fields.Ordered, f)
		return nil
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		// Ignore cases
		if sf.Anonymous {
			t := sf.Type
			if t.Kind() == reflect.Pointer {
				t = t.Elem()
			}
			if !sf.IsExported() && t.Kind() != reflect.Struct {
				// Ignore embedded fields of unexported non-struct types.
				continue
			}
			// Do not ignore embedded fields of unexported struct types
			// since they may have exported fields.
		} else if !sf.IsExported() {
			// Ignore unexported non-embedded fields.
			continue
		}

		// Process
		tag := sf.Tag.Get(tagKey)
		if tag == "-" {
			continue
		}
		column, opts := parseTag(tag)
		if !isValidTag(column) {
			column = ""
		}

		ft := sf.Type
		if ft.Name() == "" && ft.Kind() == reflect.Pointer {
			// Follow pointer.
			ft = ft.Elem()
		}
		tagged := column != ""

		// Untagged embedded structs are part of the table
		if sf.Anonymous && !tagged && ft.Kind() == reflect.Struct {
			embedded, err := newFields(ft, tagKey, visited)
			if err != nil {
				return nil, fmt.Errorf("failed to process embedded struct %s: %w", sf.Name, err)
			}
			for _, f := range embedded.Ordered {
				promoted := *f
				promoted.Index = append([]int{i}, f.Index...)
				if err := add(&promoted); err != nil {
					return nil, fmt.Errorf("%w in embedded struct %s", err, sf.Name)
				}
			}
			continue
		}

		if column == "" {
			column = sf.Name
		}
		err := add(&Field{
			Column:     column,
			Options:    opts,
			Tag:        tagged,
			Index:      []int{i},
			DirectType: ft,
			Type:       sf.Type,
		})
		if err != nil {
			return nil, err
		}
	}

	return fields, nil
}

////////////////////////////////////////////////////////////////////////////////

// TagOptions is the string following a comma in a struct field's tag, or the empty string.
// It does not include the leading comma.
type TagOptions string

func parseTag(tag string) (string, TagOptions) {
	tag, opt, _ := strings.Cut(tag, ",")
	return tag, TagOptions(opt)
}

// First returns the first option, or the empty string.
func (o TagOptions) First() string {
	first, _, _ := strings.Cut(string(o), ",")
	return strings.TrimSpace(first)
}

// Contains reports whether a comma-separated list of options
// contains a particular substr flag. substr must be surrounded by a
// string boundary or commas.
func (o TagOptions) Contains(optionName string) bool {
	if len(o) == 0 {
		return false
	}
	s := string(o)
	for s != "" {
		var name string
		name, s, _ = strings.Cut(s, ",")
		if name == optionName {
			return true
		}
	}
	return false
}

func isValidTag(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case strings.ContainsRune("!#$%&()*+-./:;<=>?@[]^_{|}~ ", c):
			// Backslash and quote chars are reserved, but
			// otherwise any punctuation chars are allowed
			// in a tag name.
		case !unicode.IsLetter(c) && !unicode.IsDigit(c):
			return false
		}
	}
	return true
}

type cacheKey struct {
	t      reflect.Type
	tagKey string
}

var fieldsCache sync.Map // map[cacheKey]*Fields
