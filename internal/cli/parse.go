package cli

import (
	"fmt"
	"strings"

	"github.com/greghart/dbentry/entryp"
)

// Null is the value literal for an absent value.
const Null = "NULL"

// parseColumn parses NAME[:type] into a property without a value. The type defaults to text.
func parseColumn(s string) (*entryp.Property, error) {
	name, typ, err := splitType(s)
	if err != nil {
		return nil, err
	}
	return entryp.Col(name, typ), nil
}

// parseProperty parses NAME[:type]=VALUE into a property, with the value normalized to its type.
func parseProperty(s string) (*entryp.Property, error) {
	col, raw, ok := strings.Cut(s, "=")
	if !ok {
		return nil, fmt.Errorf("invalid property %q, expected NAME[:type]=VALUE", s)
	}
	name, typ, err := splitType(col)
	if err != nil {
		return nil, err
	}
	if raw == Null {
		return entryp.NewProperty(name, nil, typ), nil
	}
	v, err := typ.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", name, err)
	}
	return entryp.NewProperty(name, v, typ), nil
}

func parseProperties(args []string, parse func(string) (*entryp.Property, error)) ([]*entryp.Property, error) {
	props := make([]*entryp.Property, 0, len(args))
	for _, s := range args {
		p, err := parse(s)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, nil
}

func splitType(s string) (string, entryp.ColumnType, error) {
	name, typeName, hasType := strings.Cut(strings.TrimSpace(s), ":")
	if name == "" {
		return "", entryp.TypeText, fmt.Errorf("missing column name in %q", s)
	}
	if !hasType {
		return name, entryp.TypeText, nil
	}
	typ, err := entryp.ParseColumnType(typeName)
	if err != nil {
		return "", entryp.TypeText, err
	}
	return name, typ, nil
}
