// Package match proposes default member correspondences between two shapes.
//
// Key functions:
//   - Match: pairs destination members with source paths (exact name,
//     normalized name, flattened path)
//   - Compare: grades type compatibility over reflect types
//   - SplitName, NormalizeName: word splitting and case folding of names
//   - NameScore: edit distance similarity used to rank suggestions
//   - Rank, Suggest: score source members for "did you mean" hints
package match
