package sqlp

import "github.com/greghart/dbentry/queryp"

// Support top level imports without drilling into our separated packages.
// Just a convenience for users, while letting us keep code organized into sub packages.

// Named returns a named query using '@name' parameters, like the ones entry queries use, for raw
// queries run with DB.Get and DB.Select.
func Named(q string) *queryp.NamedQuery {
	return queryp.Named(q).WithPrefix('@')
}
