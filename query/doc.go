// Package query provides composable, asynchronously enumerable in-memory
// queries.
//
// A query is a chain of immutable Expression nodes rooted at a Source node
// holding the items. Operators such as Where and Select append a node and ask
// the query's Provider to create a new query over it. EnumerableQuery
// interprets a chain synchronously; AsyncProvider wraps it so that data
// access code written against asynchronous providers can run over plain
// slices:
//
//	records := query.FromSlice(items)
//	filtered, err := query.Where(records, func(r Record) bool { return r.Active })
//	if err != nil {
//		return err
//	}
//	list, err := query.ToList(ctx, filtered)
//
// Asynchronous entry points complete before they return. Each of them checks
// the context first and reports its error, if any.
package query
