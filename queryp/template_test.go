package queryp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/greghart/dbentry/entryp"
	"github.com/greghart/dbentry/errcmp"
)

const peopleTemplate = `SELECT people.id{{if .Includes "pets"}}, pets.name AS pet_name{{end}} FROM people` +
	`{{if .Includes "pets"}} LEFT JOIN pets ON pets.person_id = people.id{{end}}` +
	`{{if .HasParam "age"}} WHERE age > {{.Param "age"}}{{end}}`

func TestTemplate(t *testing.T) {
	tests := map[string]struct {
		t            *TemplateBuilder
		dialect      Dialect
		expectedQ    string
		expectedArgs []any
	}{
		"does not bind unset parameters": {
			Must(NewTemplate("SELECT * FROM test WHERE id = @id")).Build(),
			SQLite,
			"SELECT * FROM test WHERE id = @id",
			nil,
		},
		"binds parameters": {
			Must(NewTemplate("SELECT * FROM test WHERE id = @id AND name = @name")).
				Param("name", "Alice").
				Param("id", 1),
			SQLite,
			"SELECT * FROM test WHERE id = ? AND name = ?",
			[]any{1, "Alice"},
		},
		"binds for the dialect": {
			Must(NewTemplate("SELECT * FROM test WHERE id = @id")).
				Param("id", 1),
			SQLServer,
			"SELECT * FROM test WHERE id = @p1",
			[]any{1},
		},
		"binds properties": {
			Must(NewTemplate("SELECT * FROM test WHERE id = @id")).
				Properties(entryp.NewProperty("id", int64(3), entryp.TypeBigInt)),
			Postgres,
			"SELECT * FROM test WHERE id = $1",
			[]any{int64(3)},
		},
		"optional parts left out": {
			Must(NewTemplate(peopleTemplate)).Build(),
			SQLite,
			"SELECT people.id FROM people",
			nil,
		},
		"optional parts included": {
			Must(NewTemplate(peopleTemplate)).
				Include("pets").
				Param("age", 30),
			Postgres,
			"SELECT people.id, pets.name AS pet_name FROM people LEFT JOIN pets ON pets.person_id = people.id WHERE age > $1",
			[]any{30},
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			q, err := test.t.Query()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			named := q.Named(test.dialect)
			if len(named) != 1 {
				t.Fatalf("expected a single statement, got %d", len(named))
			}
			query, args := named[0].Execute()
			if query != test.expectedQ {
				t.Errorf("expected query %q, got %q", test.expectedQ, query)
			}
			if !cmp.Equal(args, test.expectedArgs) {
				t.Errorf("unexpected args: %s", cmp.Diff(test.expectedArgs, args))
			}
		})
	}
}

func TestTemplate_Errors(t *testing.T) {
	_, err := NewTemplate("SELECT {{.Param")
	errcmp.MustMatch(t, err, "failed to parse query template")

	_, err = Must(NewTemplate(`SELECT {{.Unknown "a"}}`)).Query()
	errcmp.MustMatch(t, err, "failed to render query template")
}
