package mapper

import (
	"strings"

	"shape-mapper/ir"
)

// Origin records where a binding came from.
type Origin int

const (
	OriginDefault   Origin = iota // same or normalized name
	OriginFlattened               // CustomerName from Customer.Name
	OriginExplicit                // ForMember or ForMemberExpr
	OriginReverse                 // derived by ReverseMap
	OriginProfile                 // applied from a profile file
)

func (o Origin) String() string {
	switch o {
	case OriginDefault:
		return "default"
	case OriginFlattened:
		return "flattened"
	case OriginExplicit:
		return "explicit"
	case OriginReverse:
		return "reverse"
	case OriginProfile:
		return "profile"
	default:
		return "unknown"
	}
}

// Binding constructs one destination member from an expression over the
// source parameter of its configuration. Value is unguarded and already
// converted to the member type; guards are added when the lambda is built.
type Binding struct {
	Dest      string
	Path      []string // source member path, empty for expression bindings
	Value     ir.Node
	CheckNull bool
	Via       string // name of the configuration used for sub-mappings
	Origin    Origin
}

// Simple reports whether the binding reads one source member unchanged.
func (b Binding) Simple() bool {
	m, ok := b.Value.(*ir.Member)
	if !ok || len(b.Path) != 1 {
		return false
	}

	_, root := m.Object.(*ir.Parameter)

	return root
}

// SourcePath renders Path in dotted form.
func (b Binding) SourcePath() string {
	return strings.Join(b.Path, ".")
}

// BindingOption customizes ForMember.
type BindingOption func(*Binding)

// CheckNull controls whether nil links of the source path are guarded.
func CheckNull(check bool) BindingOption {
	return func(b *Binding) { b.CheckNull = check }
}

// Via selects the named configuration used when the member needs a
// sub-mapping.
func Via(name string) BindingOption {
	return func(b *Binding) { b.Via = name }
}
