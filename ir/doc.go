// Package ir provides the typed expression graph used to describe, rewrite and
// execute object mappings.
//
// Every node carries a concrete result type. Graphs are built with the
// validating constructors (Field, Path, Cond, Compare, ConvertTo, Construct...)
// and stay inspectable: a query provider can walk them and translate them to
// its own execution target, while Compile lowers them to a closure tree for
// in-process execution.
//
// Key pieces:
//   - Node kinds: Parameter, Member, Conditional, Constant, Construct, Convert,
//     Binary, Not, Invoke, MapElements, Call
//   - Visitor / VisitChildren: bottom-up rewriting
//   - NullSafe: guards member-access chains against nil links
//   - Compile / CompileInto: closure compiler backend
package ir
