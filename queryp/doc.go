// queryp is a dbentry package to build SQL text from entries.
//   - Select, insert, update and delete builders emitting text plus '@name' parameters.
//   - Dialects for SQL Server, SQLite and Postgres.
//   - Named parameters rewritten into driver placeholders, in order.
//   - Templates for hand written queries with optional parts.
package queryp
