package queryp

import "strconv"

// Args collects positional query arguments, handing out the driver placeholder of each one as it
// is added. NamedQuery uses it to bind named parameters in the order they appear.
type Args struct {
	placeholderer Placeholderer
	args          []any
}

// Placeholderer returns the driver placeholder for the argument at index i.
type Placeholderer func(i int) string

// NewArgs returns empty Args with '?' placeholders.
func NewArgs() *Args {
	return &Args{placeholderer: SqlitePlaceholderer}
}

// WithPlaceholderer switches the placeholder style. A nil Placeholderer keeps the current one.
func (a *Args) WithPlaceholderer(p Placeholderer) *Args {
	if p != nil {
		a.placeholderer = p
	}
	return a
}

// Add appends an argument and returns its placeholder.
func (a *Args) Add(arg any) string {
	i := len(a.args)
	a.args = append(a.args, arg)
	return a.placeholderer(i)
}

func (a *Args) Len() int {
	return len(a.args)
}

func (a *Args) Args() []any {
	return a.args
}

////////////////////////////////////////////////////////////////////////////////

// SqlitePlaceholderer binds every argument to '?', in order.
func SqlitePlaceholderer(int) string {
	return "?"
}

// PostgresPlaceholderer binds ordinal $N arguments, starting at $1.
func PostgresPlaceholderer(i int) string {
	return "$" + strconv.Itoa(i+1)
}

// SQLServerPlaceholderer binds the ordinal @pN arguments go-mssqldb gives positional arguments.
func SQLServerPlaceholderer(i int) string {
	return "@p" + strconv.Itoa(i+1)
}
