package mapper

import (
	"slices"

	"shape-mapper/diagnostic"
	"shape-mapper/internal/match"
	"shape-mapper/internal/shape"
	"shape-mapper/ir"
)

const maxSuggestions = 3

// Report lists the members a configuration leaves unmapped.
type Report struct {
	Key            Key                    `yaml:"-"`
	Pair           string                 `yaml:"pair"`
	UnmappedSource []string               `yaml:"unmapped_source,omitempty"`
	UnmappedDest   []string               `yaml:"unmapped_dest,omitempty"`
	Ignored        []string               `yaml:"ignored,omitempty"`
	Diagnostics    diagnostic.Diagnostics `yaml:"diagnostics"`
}

// Complete reports whether every destination member is bound.
func (r Report) Complete() bool {
	return len(r.UnmappedDest) == 0
}

// PropertiesNotMapped builds the configuration lambda of the S to D pair
// and reports the source members nothing reads and the destination members
// nothing writes. Ignored members count as unmapped.
func PropertiesNotMapped[S, D any](m *Mapper, name ...string) (Report, error) {
	t, err := GetMapper[S, D](m, name...)
	if err != nil {
		return Report{}, err
	}

	return t.cfg.Report()
}

// Report builds the lambda and reports the unmapped members.
func (c *Configuration) Report() (Report, error) {
	if _, err := c.Lambda(); err != nil {
		return Report{}, err
	}

	r := Report{Key: c.key, Pair: c.key.String(), Ignored: c.Ignored()}
	pair := c.key.String()

	read := make(map[string]struct{})
	bound := make(map[string]struct{})

	for _, b := range c.Bindings() {
		bound[b.Dest] = struct{}{}

		ir.Walk(b.Value, func(n ir.Node) bool {
			if m, ok := n.(*ir.Member); ok && m.Object == ir.Node(c.param) {
				read[m.Name] = struct{}{}
			}

			return true
		})
	}

	var sources []shape.Field

	for _, f := range shape.Of(c.key.Source).Fields {
		if !f.Readable {
			continue
		}

		sources = append(sources, f)

		if _, ok := read[f.Name]; !ok {
			r.UnmappedSource = append(r.UnmappedSource, f.Name)
		}
	}

	for _, f := range shape.Of(c.key.Dest).Writable() {
		if _, ok := bound[f.Name]; ok {
			continue
		}

		r.UnmappedDest = append(r.UnmappedDest, f.Name)

		if slices.Contains(r.Ignored, f.Name) {
			r.Diagnostics.AddInfo(diagnostic.CodeIgnoredMember, "member is ignored", pair, f.Name)
			continue
		}

		suggestions := match.Suggest(f, sources, c.m.opts.match.Conversions, maxSuggestions)
		r.Diagnostics.AddWarning(diagnostic.CodeUnmappedMember, "no source member", pair, f.Name, suggestions...)
	}

	for _, name := range r.UnmappedSource {
		r.Diagnostics.AddInfo(diagnostic.CodeUnusedSource, "source member is not read", pair, name)
	}

	return r, nil
}
