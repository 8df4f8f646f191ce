package match

import (
	"cmp"
	"slices"

	"shape-mapper/internal/shape"
	"shape-mapper/primitive"
)

// MinSuggestionScore is the lowest score Suggest reports.
const MinSuggestionScore = 0.5

const (
	nameWeight = 0.6
	typeWeight = 0.4
)

var typeScores = map[TypeCompatibility]float64{
	TypeIdentical:          1,
	TypeAssignable:         0.9,
	TypeConvertible:        0.7,
	TypeNeedsTransform:     0.5,
	TypeNeedsMapper:        0.4,
	TypeNeedsElementMapper: 0.4,
}

// Candidate is a source member scored against one target member.
type Candidate struct {
	Source shape.Field
	Name   float64 // NameScore of the two member names
	Compat TypeCompatibility
	Score  float64 // weighted blend of Name and Compat, in [0, 1]
}

// Rank scores every readable source member against target, best first.
// Ties keep source names in lexical order.
func Rank(target shape.Field, sources []shape.Field, allowed primitive.CategoryEnum) []Candidate {
	out := make([]Candidate, 0, len(sources))

	for _, src := range sources {
		if !src.Readable {
			continue
		}

		name := NameScore(src.Name, target.Name)
		compat := Compare(src.Type, target.Type, allowed).Level

		out = append(out, Candidate{
			Source: src,
			Name:   name,
			Compat: compat,
			Score:  name*nameWeight + typeScores[compat]*typeWeight,
		})
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Source.Name, b.Source.Name)
	})

	return out
}

// Suggest returns up to limit source member names that plausibly feed
// target, for "did you mean" hints.
func Suggest(target shape.Field, sources []shape.Field, allowed primitive.CategoryEnum, limit int) []string {
	var names []string

	for _, c := range Rank(target, sources, allowed) {
		if len(names) == limit || c.Score < MinSuggestionScore {
			break
		}

		names = append(names, c.Source.Name)
	}

	return names
}
