package queryp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestArgs(t *testing.T) {
	tests := map[string]struct {
		placeholderer Placeholderer
		expected      []string
	}{
		"sqlite by default": {nil, []string{"?", "?", "?"}},
		"postgres":          {PostgresPlaceholderer, []string{"$1", "$2", "$3"}},
		"sqlserver":         {SQLServerPlaceholderer, []string{"@p1", "@p2", "@p3"}},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			args := NewArgs().WithPlaceholderer(test.placeholderer)
			placeholders := []string{
				args.Add("Alice"),
				args.Add(30),
				args.Add(nil),
			}
			if !cmp.Equal(test.expected, placeholders) {
				t.Errorf("unexpected placeholders:\n%v", cmp.Diff(test.expected, placeholders))
			}
			expected := []any{"Alice", 30, nil}
			if !cmp.Equal(expected, args.Args()) || args.Len() != 3 {
				t.Errorf("given args did not match expected\n%v", cmp.Diff(expected, args.Args()))
			}
		})
	}
}
