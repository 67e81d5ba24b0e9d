package queryp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/greghart/dbentry/entryp"
)

// Param is a named parameter of a Query. Name does not include the '@' prefix.
type Param struct {
	Name  string
	Type  entryp.ColumnType
	Value any
}

// Query is a command built from entries: SQL text with '@name' parameters, and their values.
type Query struct {
	// Text is every statement joined by a single space
	Text       string
	Statements []string
	Params     []Param
}

// Args returns the parameter values by name, as NamedQuery wants them.
// Builders never repeat a name. In a Raw query a name given twice keeps its last value.
func (q *Query) Args() map[string]any {
	args := make(map[string]any, len(q.Params))
	for _, p := range q.Params {
		args[p.Name] = p.Value
	}
	return args
}

// Named returns a NamedQuery for each statement to run for the dialect: the whole text when the
// dialect batches, each statement otherwise.
func (q *Query) Named(d Dialect) []*NamedQuery {
	stmts := q.Statements
	if d.Batches {
		stmts = []string{q.Text}
	}
	args := q.Args()
	named := make([]*NamedQuery, len(stmts))
	for i, s := range stmts {
		named[i] = Named(s).WithPrefix('@').WithPlaceholderer(d.Placeholderer).Params(args)
	}
	return named
}

func (q *Query) String() string {
	if len(q.Params) == 0 {
		return q.Text
	}
	params := make([]string, len(q.Params))
	for i, p := range q.Params {
		params[i] = fmt.Sprintf("@%s=%v", p.Name, p.Value)
	}
	return fmt.Sprintf("%s [%s]", q.Text, strings.Join(params, ", "))
}

func (q *Query) add(stmt string) {
	q.Statements = append(q.Statements, stmt)
	q.Text = strings.Join(q.Statements, " ")
}

// param adds a parameter for p, named with an optional prefix and suffix, returning its reference.
// A name already taken in the command, eg. Address with suffix 1 next to an Address1 column, gets
// a further _N suffix.
func (q *Query) param(p *entryp.Property, prefix, suffix string) string {
	base := prefix + p.Name() + suffix
	name := base
	for n := 1; q.hasParam(name); n++ {
		name = base + "_" + strconv.Itoa(n)
	}
	q.Params = append(q.Params, Param{Name: name, Type: p.Type, Value: p.Value})
	return "@" + name
}

func (q *Query) hasParam(name string) bool {
	for _, p := range q.Params {
		if p.Name == name {
			return true
		}
	}
	return false
}

// where renders the conditions matching every search property, or the empty string.
func (q *Query) where(search []*entryp.Property, prefix string) string {
	conds := make([]string, len(search))
	for i, p := range search {
		conds[i] = p.Name() + "=" + q.param(p, prefix, "")
	}
	return strings.Join(conds, " AND ")
}

// Raw returns a query of a single hand written statement using '@name' parameters, eg. a join
// no builder covers.
func Raw(text string, params ...Param) *Query {
	q := &Query{Params: params}
	q.add(text)
	return q
}
