// Package mapper builds, compiles and runs object mappings between shapes.
//
// A Mapper owns a registry of configurations, one per (source, destination,
// name) key. Each configuration resolves destination members to expressions
// over the source, either by default matching or by explicit ForMember calls,
// and exposes the result as an inspectable ir.Lambda. The lambda is compiled
// once on first use.
//
//	m := mapper.New()
//	orders := mapper.CreateMap[Order, OrderDTO](m)
//	_ = orders.ForMember("Buyer", "Customer.Name")
//	_ = m.Initialize()
//	dto, err := mapper.Map[Order, OrderDTO](m, order)
package mapper
