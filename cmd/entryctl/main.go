// Command entryctl runs entry queries against a database.
package main

import (
	"fmt"
	"os"

	"github.com/greghart/dbentry/internal/cli"

	// database/sql drivers
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/microsoft/go-mssqldb"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
