package match

import "sort"

// MinSuggestionScore is the similarity below which no suggestion is offered.
const MinSuggestionScore = 0.5

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name  string
	Score float64
}

// Rank scores every known name against name, best first. Ties keep the
// order of known.
func Rank(name string, known []string) []Candidate {
	out := make([]Candidate, 0, len(known))
	for _, k := range known {
		out = append(out, Candidate{Name: k, Score: Similarity(name, k)})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// Suggest returns the known name closest to name, or "" when nothing is
// similar enough to be a plausible typo.
func Suggest(name string, known []string) string {
	ranked := Rank(name, known)
	if len(ranked) == 0 || ranked[0].Score < MinSuggestionScore {
		return ""
	}

	return ranked[0].Name
}
