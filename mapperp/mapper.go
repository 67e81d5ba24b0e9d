// mapperp is a dbentry package to aggregate flat rows, like the entries of a joined select,
// into nested results with composable mappers.
//
// A select of people left joined with their pets yields one row per pet. Mapping it with
//
//	Slice(personID, personData, Last(InnerSlice(petsOf, petID, petData)))
//
// yields one person per id, each holding its pets.
package mapperp

// Mapper maps a row onto an output entity.
type Mapper[Row any, Out any] func(out *Out, row *Row, i int)

// Identifier identifies entities by their ID.
type Identifier[E any, ID comparable] func(e *E) ID

// DataGetter gets data from a row, false if the row has none (eg. the null side of a left join).
type DataGetter[In any, Out any] func(row *In) (*Out, bool)

// Run maps every row onto a zero Out.
func Run[Row any, Out any](rows []*Row, m Mapper[Row, Out]) Out {
	var out Out
	for i, row := range rows {
		m(&out, row, i)
	}
	return out
}

// One maps rows to a single output, set from the first row with data. The rest of the mappers run
// on every row.
func One[Row any, Out any](getData DataGetter[Row, Out], rest ...Mapper[Row, Out]) Mapper[Row, Out] {
	set := false
	inner := All(rest...)
	return func(out *Out, row *Row, i int) {
		if !set {
			if datum, ok := getData(row); ok {
				*out, set = *datum, true
			}
		}
		inner(out, row, i)
	}
}

// Slice maps rows to a slice, appending a new element unless the row's ID is the one of the last
// element. Rows of one element must be consecutive, as an ORDER BY on the ID guarantees. Any ID is
// valid, zero included.
func Slice[Row any, Out any, ID comparable](
	getID Identifier[Out, ID],
	getData DataGetter[Row, Out],
	rest ...Mapper[Row, []Out],
) Mapper[Row, []Out] {
	inner := All(rest...)
	return func(out *[]Out, row *Row, i int) {
		if datum, ok := getData(row); ok {
			if n := len(*out); n == 0 || getID(&(*out)[n-1]) != getID(datum) {
				*out = append(*out, *datum)
			}
		}
		inner(out, row, i)
	}
}

// Inner runs mappers on a part of the output, eg. a struct field.
func Inner[Row any, Out any, In any](
	getInner func(e *Out) *In,
	inner ...Mapper[Row, In],
) Mapper[Row, Out] {
	m := All(inner...)
	return func(out *Out, row *Row, i int) {
		if out == nil {
			return
		}
		if sub := getInner(out); sub != nil {
			m(sub, row, i)
		}
	}
}

// InnerSlice maps rows to a slice inside the output.
func InnerSlice[Row any, Out any, In any, ID comparable](
	getInner func(e *Out) *[]In,
	getID Identifier[In, ID],
	getData DataGetter[Row, In],
	inner ...Mapper[Row, []In],
) Mapper[Row, Out] {
	return Inner(getInner, Slice(getID, getData, inner...))
}

// Last runs mappers on the last element of a slice, skipping empty slices.
func Last[Row any, Out any](
	inner ...Mapper[Row, Out],
) Mapper[Row, []Out] {
	m := All(inner...)
	return func(out *[]Out, row *Row, i int) {
		if out == nil || len(*out) == 0 {
			return
		}
		m(&(*out)[len(*out)-1], row, i)
	}
}

// All runs mappers in sequence.
func All[Row any, Out any](
	mappers ...Mapper[Row, Out],
) Mapper[Row, Out] {
	return func(out *Out, row *Row, i int) {
		for _, m := range mappers {
			m(out, row, i)
		}
	}
}
