package match

// editDistance is the Levenshtein distance between a and b, counted in
// runes.
func editDistance(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		diag := row[0]
		row[0] = i

		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}

			next := min(row[j]+1, row[j-1]+1, diag+cost)
			diag, row[j] = row[j], next
		}
	}

	return row[len(b)]
}

// Similarity scores two names between 0 (nothing in common) and 1 (equal)
// as one minus the edit distance over the longer length.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)

	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}

	return 1 - float64(editDistance(ra, rb))/float64(longest)
}

// NameScore is the best Similarity of the normalized and the stemmed forms
// of two member names.
func NameScore(source, target string) float64 {
	return max(
		Similarity(NormalizeName(source), NormalizeName(target)),
		Similarity(StemName(source), StemName(target)),
	)
}
