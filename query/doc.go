// Package query builds deferred query pipelines over IR lambdas and moves
// them between shapes with a mapper.
//
// A Queryable records stages without running them. The stages are handed to
// a Provider as a Plan when the query is materialized, so a provider that
// translates IR (for example into SQL) sees the same lambdas the in-memory
// provider compiles.
//
//	q := query.From(orders)
//	q, err = q.Where(paid)
//	q, err = query.OrderByMember[Order, OrderDTO](m, q, "CustomerFullName")
//	dtos, err := query.ProjectTo[Order, OrderDTO](m, q)
//	out, err := dtos.ToSlice(ctx)
//
// Stages are checked against the provider capabilities when they are added,
// never when the query runs.
package query
