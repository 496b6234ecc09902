// Package textmetric scores how closely a typed text matches a reference
// text. It backs the typing-duel activity: one score per submission, so the
// quadratic matrix is fine for sentence-length inputs.
package textmetric

// Distance returns the Damerau-Levenshtein edit distance between a and b.
//
// Insertions, deletions and substitutions cost 1 each; an adjacent
// transposition ("ab" -> "ba") also counts as a single edit. Operates on
// runes, not bytes.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	la := len(ra)
	lb := len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	d := make([][]int, la+1)
	for i := range d {
		d[i] = make([]int, lb+1)
	}
	for i := 0; i <= la; i++ {
		d[i][0] = i
	}
	for j := 0; j <= lb; j++ {
		d[0][j] = j
	}

	for i := 1; i <= la; i++ {
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			best := min(
				d[i-1][j]+1,      // deletion
				d[i][j-1]+1,      // insertion
				d[i-1][j-1]+cost, // substitution
			)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				best = min(best, d[i-2][j-2]+cost) // transposition
			}
			d[i][j] = best
		}
	}
	return d[la][lb]
}

// Accuracy returns a normalized similarity score in [0, 1] between the
// reference sample and the typed text.
//
// The denominator floor of 1 makes empty-vs-empty a perfect match rather than
// a division by zero.
func Accuracy(sample, typed string) float64 {
	dist := Distance(sample, typed)
	longest := max(len([]rune(sample)), len([]rune(typed)), 1)
	score := 1 - float64(dist)/float64(longest)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
