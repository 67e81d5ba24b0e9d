package entryp

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ColumnType is the storage type of a column in the database.
// The zero value is TypeText, the default type of a Property.
type ColumnType int

const (
	TypeText ColumnType = iota
	TypeVarChar
	TypeInt
	TypeBigInt
	TypeIdentity // auto incremented integer, generated by the database
	TypeBool
	TypeFloat
	TypeDecimal
	TypeDateTime
	TypeBinary
	TypeUUID
)

var columnTypeNames = [...]string{
	TypeText:     "text",
	TypeVarChar:  "varchar",
	TypeInt:      "int",
	TypeBigInt:   "bigint",
	TypeIdentity: "identity",
	TypeBool:     "bool",
	TypeFloat:    "float",
	TypeDecimal:  "decimal",
	TypeDateTime: "datetime",
	TypeBinary:   "binary",
	TypeUUID:     "uuid",
}

// aliases accepted by ParseColumnType on top of the canonical names.
var columnTypeAliases = map[string]ColumnType{
	"string":           TypeText,
	"nvarchar":         TypeText,
	"integer":          TypeInt,
	"int64":            TypeBigInt,
	"serial":           TypeIdentity,
	"boolean":          TypeBool,
	"bit":              TypeBool,
	"double":           TypeFloat,
	"real":             TypeFloat,
	"numeric":          TypeDecimal,
	"timestamp":        TypeDateTime,
	"date":             TypeDateTime,
	"blob":             TypeBinary,
	"bytes":            TypeBinary,
	"varbinary":        TypeBinary,
	"uniqueidentifier": TypeUUID,
}

func (t ColumnType) String() string {
	if t < 0 || int(t) >= len(columnTypeNames) {
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
	return columnTypeNames[t]
}

// IsInteger reports whether values of this type are stored as int64.
func (t ColumnType) IsInteger() bool {
	return t == TypeInt || t == TypeBigInt || t == TypeIdentity
}

// ParseColumnType parses a column type by name, case insensitively.
func ParseColumnType(s string) (ColumnType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range columnTypeNames {
		if n == name {
			return ColumnType(i), nil
		}
	}
	if t, ok := columnTypeAliases[name]; ok {
		return t, nil
	}
	return TypeText, fmt.Errorf("unknown column type %q", s)
}

// Normalize converts a value, usually one handed back by a database driver, into the canonical Go
// value for the column type:
//
//	text, varchar         string
//	int, bigint, identity int64
//	bool                  bool
//	float                 float64
//	decimal               decimal.Decimal
//	datetime              time.Time
//	binary                []byte
//	uuid                  uuid.UUID
//
// nil stays nil.
func (t ColumnType) Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeText, TypeVarChar:
		return toString(v), nil
	case TypeInt, TypeBigInt, TypeIdentity:
		return toInt64(v)
	case TypeBool:
		return toBool(v)
	case TypeFloat:
		return toFloat64(v)
	case TypeDecimal:
		return toDecimal(v)
	case TypeDateTime:
		return toTime(v)
	case TypeBinary:
		return toBytes(v), nil
	case TypeUUID:
		return toUUID(v)
	}
	return v, nil
}

// Identity constrains the Go types usable as primary key values.
type Identity interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ToIdentity converts a value read from the database into an identity.
// Drivers are inconsistent here (eg. SCOPE_IDENTITY() is a decimal), so anything integral works.
func ToIdentity[ID Identity](v any) (ID, error) {
	var id ID
	if v == nil {
		return id, fmt.Errorf("cannot convert null to identity %T", id)
	}
	n, err := toInt64(v)
	if err != nil {
		return id, fmt.Errorf("cannot convert to identity %T: %w", id, err)
	}
	id = ID(n)
	if int64(id) != n || (n < 0) != (id < 0) {
		return id, fmt.Errorf("identity %d overflows %T", n, id)
	}
	return id, nil
}

////////////////////////////////////////////////////////////////////////////////

func toString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

func toInt64(v any) (int64, error) {
	switch v := v.(type) {
	case int64:
		return v, nil
	case []byte:
		return parseInt(string(v))
	case string:
		return parseInt(v)
	case decimal.Decimal:
		if !v.IsInteger() {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return v.IntPart(), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("%v is not an integer", f)
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("cannot convert %T to int64", v)
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	// Decimal identities come back as "42" or "42.0" depending on the driver.
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("cannot parse %q as an integer", s)
	}
	return toInt64(d)
}

func toBool(v any) (bool, error) {
	switch v := v.(type) {
	case bool:
		return v, nil
	case []byte:
		return strconv.ParseBool(strings.TrimSpace(string(v)))
	case string:
		return strconv.ParseBool(strings.TrimSpace(v))
	}
	n, err := toInt64(v)
	if err != nil {
		return false, fmt.Errorf("cannot convert %T to bool", v)
	}
	return n != 0, nil
}

func toFloat64(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	case decimal.Decimal:
		f, _ := v.Float64()
		return f, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	}
	return 0, fmt.Errorf("cannot convert %T to float64", v)
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, nil
	case []byte:
		return decimal.NewFromString(strings.TrimSpace(string(v)))
	case string:
		return decimal.NewFromString(strings.TrimSpace(v))
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	}
	n, err := toInt64(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cannot convert %T to decimal", v)
	}
	return decimal.NewFromInt(n), nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

func toTime(v any) (time.Time, error) {
	var s string
	switch v := v.(type) {
	case time.Time:
		return v, nil
	case []byte:
		s = string(v)
	case string:
		s = v
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", s)
}

func toBytes(v any) []byte {
	switch v := v.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	}
	return []byte(toString(v))
}

func toUUID(v any) (uuid.UUID, error) {
	switch v := v.(type) {
	case uuid.UUID:
		return v, nil
	case [16]byte:
		return uuid.UUID(v), nil
	case string:
		return uuid.Parse(v)
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	}
	return uuid.Nil, fmt.Errorf("cannot convert %T to uuid", v)
}
