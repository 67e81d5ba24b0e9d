// entryp is a dbentry package to model table rows as entries.
//   - `Entry` is an ordered set of typed properties bound to a table, compared by schema.
//   - `UniqueEntry` links an entry to its row through an auto incremented primary key.
//   - Struct mapping with `entry` tags, for when a Go type is handier than an entry.
//   - Entries run through an `Executor`, see sqlp for one on database/sql.
package entryp
