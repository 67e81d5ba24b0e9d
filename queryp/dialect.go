package queryp

import (
	"fmt"
	"strings"
)

// LimitStyle is how a dialect limits the number of rows a select returns.
type LimitStyle int

const (
	LimitTop    LimitStyle = iota // SELECT TOP(n) ...
	LimitSuffix                   // SELECT ... LIMIT n
)

// Dialect holds what differs between databases in the SQL entry queries generate.
type Dialect struct {
	Name string
	// Limit style of selects with a row count
	Limit LimitStyle
	// LastIdentity is the expression evaluating to the identity generated by the last insert
	LastIdentity string
	// Placeholderer renders named parameters for the driver
	Placeholderer Placeholderer
	// Batches is true when the driver runs a multi statement query in one round trip, binding
	// parameters across statements. Otherwise statements are run one by one on the same connection.
	Batches bool
}

var (
	SQLServer = Dialect{
		Name:          "sqlserver",
		Limit:         LimitTop,
		LastIdentity:  "SCOPE_IDENTITY()",
		Placeholderer: SQLServerPlaceholderer,
		Batches:       true,
	}
	SQLite = Dialect{
		Name:          "sqlite",
		Limit:         LimitSuffix,
		LastIdentity:  "last_insert_rowid()",
		Placeholderer: SqlitePlaceholderer,
	}
	Postgres = Dialect{
		Name:          "postgres",
		Limit:         LimitSuffix,
		LastIdentity:  "lastval()",
		Placeholderer: PostgresPlaceholderer,
	}
)

// DialectFor returns the dialect of a database/sql driver (or dialect) name.
func DialectFor(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case "sqlserver", "mssql", "azuresql":
		return SQLServer, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	}
	return Dialect{}, fmt.Errorf("no dialect for driver %q", name)
}

func (d Dialect) String() string {
	return d.Name
}
