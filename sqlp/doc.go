// sqlp is a dbentry package to run entries against database/sql.
//   - Consistent and minimal "single path" APIs.
//   - `Executor` runs the queries built by queryp, one dedicated connection per command.
//   - Entry scanning, with values normalized to each property's column type.
//   - `Repository` pattern support, to provide a wrapper around the rows of a table.
package sqlp
