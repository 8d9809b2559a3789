// Package suggest offers "did you mean" corrections for unknown tool
// and function names, in the spirit of the teacher's own
// internal/similartext and internal/text_distance helpers (present in
// the retrieval pack as test files only; the underlying edit-distance
// technique is standard and reimplemented here directly — no
// third-party string-distance library appears anywhere in the
// retrieval pack's dependency surface, so this stays on the standard
// library).
package suggest

// Closest returns the candidate with the smallest Levenshtein distance
// to name, or "" if none is within a reasonable edit budget (at most
// half the length of name, minimum 2).
func Closest(name string, candidates []string) string {
	best := ""
	bestDist := -1
	budget := len(name) / 2
	if budget < 2 {
		budget = 2
	}
	for _, c := range candidates {
		d := levenshtein(name, c)
		if d <= budget && (bestDist == -1 || d < bestDist) {
			best, bestDist = c, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}
