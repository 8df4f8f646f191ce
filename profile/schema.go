package profile

import (
	"maps"
	"slices"
)

// CurrentVersion is the only profile schema version understood.
const CurrentVersion = "1"

// File represents the root of a YAML mapping profile.
type File struct {
	// Version of the profile schema.
	Version string `yaml:"version,omitempty"`

	// Mappings is a list of type pair configurations.
	Mappings []Mapping `yaml:"mappings" validate:"dive"`
}

// Mapping configures one source to target type pair.
type Mapping struct {
	// Source type name as registered in the type set (e.g. "Order").
	Source string `yaml:"source" validate:"required"`

	// Target type name as registered in the type set (e.g. "OrderDTO").
	Target string `yaml:"target" validate:"required"`

	// Name selects a named configuration; empty is the default slot.
	Name string `yaml:"name,omitempty"`

	// OneToOne is a shorthand where keys are source paths and values are
	// target members. Applied before Fields.
	// Example: { "Customer.Name": "Buyer" }
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines explicit bindings with full control.
	Fields []Field `yaml:"fields,omitempty" validate:"dive"`

	// Ignore lists target members excluded from default matching.
	Ignore []string `yaml:"ignore,omitempty"`

	// Reverse derives the target to source configuration as well.
	Reverse bool `yaml:"reverse,omitempty"`

	// ReverseName names the derived reverse configuration.
	ReverseName string `yaml:"reverse_name,omitempty"`
}

// Field binds one target member.
type Field struct {
	Target    string `yaml:"target" validate:"required"`
	Source    string `yaml:"source" validate:"required"`
	CheckNull *bool  `yaml:"check_null,omitempty"`
	Via       string `yaml:"via,omitempty"`
}

// Bindings returns the 121 shorthand expanded into fields, in source path
// order, followed by Fields.
func (m *Mapping) Bindings() []Field {
	out := make([]Field, 0, len(m.OneToOne)+len(m.Fields))

	for _, source := range slices.Sorted(maps.Keys(m.OneToOne)) {
		out = append(out, Field{Target: m.OneToOne[source], Source: source})
	}

	return append(out, m.Fields...)
}

// Pair renders the mapping as "Source -> Target [name]".
func (m *Mapping) Pair() string {
	s := m.Source + " -> " + m.Target
	if m.Name != "" {
		s += " [" + m.Name + "]"
	}

	return s
}
