package queryp

import (
	"strings"
)

// NamedQuery is SQL text with named parameters, eg. ':id' or '@id', bound to the positional
// placeholders of a driver.
//
// Binding is deferred until the query is read with String, Args or Execute: placeholders are handed
// out in the order names appear in the text, which is what '?' style drivers need. A name used
// twice is bound twice. Names without a value are left in the text untouched.
type NamedQuery struct {
	query         string
	prefix        byte
	params        map[string]any
	placeholderer Placeholderer

	// set once built, cleared by any change
	builtQuery string
	builtArgs  *Args
}

// Named returns a named query using the ':name' prefix and '?' placeholders.
func Named(query string) *NamedQuery {
	return &NamedQuery{
		query:  query,
		prefix: ':',
		params: make(map[string]any),
	}
}

// WithPlaceholderer sets the Placeholderer for the NamedQuery.
func (n *NamedQuery) WithPlaceholderer(p Placeholderer) *NamedQuery {
	n.reset()
	n.placeholderer = p
	return n
}

// WithPrefix sets the character introducing a named parameter, ':' by default.
// Entry queries use '@'.
func (n *NamedQuery) WithPrefix(c byte) *NamedQuery {
	n.reset()
	n.prefix = c
	return n
}

// WithQuery swaps the query text, keeping parameters.
func (n *NamedQuery) WithQuery(q string) *NamedQuery {
	n.reset()
	n.query = q
	return n
}

// Params adds parameter values, replacing any of the same name.
func (n *NamedQuery) Params(m map[string]any) *NamedQuery {
	n.reset()
	for k, v := range m {
		n.params[k] = v
	}
	return n
}

func (n *NamedQuery) Param(key string, v any) *NamedQuery {
	n.reset()
	n.params[key] = v
	return n
}

// String returns the bound query text.
func (n *NamedQuery) String() string {
	query, _ := n.Execute()
	return query
}

// Args returns the positional arguments of the bound query.
func (n *NamedQuery) Args() []any {
	_, args := n.Execute()
	return args
}

// Execute returns the bound query text and its positional arguments.
func (n *NamedQuery) Execute() (string, []any) {
	if n.builtArgs == nil {
		n.build()
	}
	return n.builtQuery, n.builtArgs.Args()
}

////////////////////////////////////////////////////////////////////////////////

func (n *NamedQuery) reset() {
	n.builtArgs = nil
	n.builtQuery = ""
}

func (n *NamedQuery) build() {
	args := NewArgs().WithPlaceholderer(n.placeholderer)
	sb := strings.Builder{}
	rest := n.query
	for {
		i := strings.IndexByte(rest, n.prefix)
		if i < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:i])
		name, ok := n.match(rest[i+1:])
		if !ok {
			sb.WriteByte(n.prefix)
			rest = rest[i+1:]
			continue
		}
		sb.WriteString(args.Add(n.params[name]))
		rest = rest[i+1+len(name):]
	}
	n.builtQuery, n.builtArgs = sb.String(), args
}

// match returns the longest parameter name rest starts with, so :A1 is never read as :A.
// The name must end rest or be followed by a non identifier character.
func (n *NamedQuery) match(rest string) (string, bool) {
	best, found := "", false
	for k := range n.params {
		if len(k) < len(best) || !strings.HasPrefix(rest, k) {
			continue
		}
		if len(rest) > len(k) && isIdentByte(rest[len(k)]) {
			continue
		}
		best, found = k, true
	}
	return best, found
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || c == '#' || c >= 0x80 ||
		('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
