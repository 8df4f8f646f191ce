package match

import (
	"reflect"
	"strings"

	"shape-mapper/internal/shape"
	"shape-mapper/primitive"
)

// maxFlattenDepth bounds how many hops a flattened name may span.
const maxFlattenDepth = 4

// Options controls default matching.
type Options struct {
	NormalizedNames bool                   // CustomerID matches customer_id
	Flattening      bool                   // CustomerName matches Customer.Name
	Conversions     primitive.CategoryEnum // primitive conversions that count as compatible
}

// Strategy records how a pair was found.
type Strategy int

const (
	StrategyExact Strategy = iota
	StrategyNormalized
	StrategyFlattened
)

func (s Strategy) String() string {
	switch s {
	case StrategyExact:
		return "exact"
	case StrategyNormalized:
		return "normalized"
	case StrategyFlattened:
		return "flattened"
	default:
		return "unknown"
	}
}

// Pair is a proposed binding of a destination member to a source path.
type Pair struct {
	Dest     shape.Field
	Path     []string // source member path from the root
	Compat   Verdict
	Strategy Strategy
}

// SubMapResolver provides sub-mappings between reference shapes. Resolving
// may register a new configuration as a side effect; it must not build it.
type SubMapResolver interface {
	ResolveSubMap(source, dest reflect.Type) bool
}

// ConverterResolver is implemented by resolvers that also know custom
// conversions. A pair with a converter is compatible regardless of the
// allowed primitive categories.
type ConverterResolver interface {
	HasConverter(source, dest reflect.Type) bool
}

// Match proposes a source path for every writable destination member of dest
// that skip does not exclude. Members without a compatible source are left
// out of the result.
func Match(source, dest reflect.Type, opts Options, skip func(name string) bool, resolver SubMapResolver) []Pair {
	m := &matcher{opts: opts, resolver: resolver}
	src := shape.Of(shape.Base(source))

	var pairs []Pair

	for _, f := range shape.Of(shape.Base(dest)).Writable() {
		if f.Skip || (skip != nil && skip(f.Name)) {
			continue
		}

		if p, ok := m.match(src, f); ok {
			pairs = append(pairs, p)
		}
	}

	return pairs
}

type matcher struct {
	opts     Options
	resolver SubMapResolver
}

func (m *matcher) match(src *shape.Descriptor, dest shape.Field) (Pair, bool) {
	if sf, ok := readable(src, dest.Name); ok {
		if c, ok := m.compatible(sf.Type, dest.Type); ok {
			return Pair{Dest: dest, Path: []string{sf.Name}, Compat: c, Strategy: StrategyExact}, true
		}
	}

	if m.opts.NormalizedNames {
		if sf, ok := m.normalized(src, dest.Name); ok {
			if c, ok := m.compatible(sf.Type, dest.Type); ok {
				return Pair{Dest: dest, Path: []string{sf.Name}, Compat: c, Strategy: StrategyNormalized}, true
			}
		}
	}

	if m.opts.Flattening {
		if path, c, ok := m.flatten(src, SplitName(dest.Name), dest.Type, 1); ok {
			return Pair{Dest: dest, Path: path, Compat: c, Strategy: StrategyFlattened}, true
		}
	}

	return Pair{}, false
}

// flatten splits tokens into a member prefix naming a reference shape and a
// remainder resolved inside that shape.
func (m *matcher) flatten(src *shape.Descriptor, tokens []string, want reflect.Type, depth int) ([]string, Verdict, bool) {
	if depth > maxFlattenDepth || len(tokens) < 2 {
		return nil, Verdict{}, false
	}

	for i := 1; i < len(tokens); i++ {
		head, ok := m.lookup(src, strings.Join(tokens[:i], ""))
		if !ok || !shape.IsReferenceShape(head.Type) {
			continue
		}

		inner := shape.Of(shape.Base(head.Type))
		rest := tokens[i:]

		if sf, ok := m.lookup(inner, strings.Join(rest, "")); ok {
			if c, ok := m.compatible(sf.Type, want); ok {
				return []string{head.Name, sf.Name}, c, true
			}
		}

		if path, c, ok := m.flatten(inner, rest, want, depth+1); ok {
			return append([]string{head.Name}, path...), c, true
		}
	}

	return nil, Verdict{}, false
}

func (m *matcher) lookup(src *shape.Descriptor, name string) (shape.Field, bool) {
	if sf, ok := readable(src, name); ok {
		return sf, true
	}

	if m.opts.NormalizedNames {
		return m.normalized(src, name)
	}

	return shape.Field{}, false
}

func (m *matcher) normalized(src *shape.Descriptor, name string) (shape.Field, bool) {
	want := NormalizeName(name)

	for _, sf := range src.Fields {
		if sf.Readable && !sf.Skip && NormalizeName(sf.Name) == want {
			return sf, true
		}
	}

	return shape.Field{}, false
}

// compatible scores the pair and asks the resolver for any sub-mapping the
// pair needs.
func (m *matcher) compatible(source, target reflect.Type) (Verdict, bool) {
	if cr, ok := m.resolver.(ConverterResolver); ok && cr.HasConverter(source, target) {
		return Verdict{TypeConvertible, "custom converter"}, true
	}

	c := Compare(source, target, m.opts.Conversions)
	if !m.bridged(source, target, c.Level) {
		return c, false
	}

	return c, true
}

func (m *matcher) bridged(source, target reflect.Type, c TypeCompatibility) bool {
	switch c {
	case TypeNeedsMapper:
		return m.resolver != nil && m.resolver.ResolveSubMap(shape.Base(source), shape.Base(target))
	case TypeNeedsElementMapper:
		elem := Compare(source.Elem(), target.Elem(), m.opts.Conversions)
		return m.bridged(source.Elem(), target.Elem(), elem.Level)
	default:
		return c.Compatible()
	}
}

func readable(src *shape.Descriptor, name string) (shape.Field, bool) {
	sf, ok := src.Field(name)
	if !ok || !sf.Readable || sf.Skip {
		return shape.Field{}, false
	}

	return sf, true
}
