package sqlp

import (
	"context"

	"github.com/greghart/dbentry/entryp"
	"github.com/greghart/dbentry/mapperp"
	"github.com/greghart/dbentry/queryp"
)

// MapEntries reads every row of the query into a blank copy of template, and maps them onto a
// single result as they are read. Use it to aggregate joins into nested structs, see mapperp.
func MapEntries[Out any](
	ctx context.Context,
	ex *Executor,
	q *queryp.Query,
	template *entryp.Entry,
	m mapperp.Mapper[entryp.Entry, Out],
) (Out, error) {
	var out Out
	i := 0
	err := ex.ExecuteReader(ctx, q, func(row Row) error {
		e, err := FromRow(template, row)
		if err != nil {
			return err
		}
		m(&out, e, i)
		i++
		return nil
	})
	return out, err
}
