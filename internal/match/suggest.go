package match

import (
	"sort"
)

const (
	// suggestThreshold is the minimum similarity for a name to be worth
	// suggesting.
	suggestThreshold = 0.5

	// maxSuggestions caps the suggestions attached to one unmatched
	// member.
	maxSuggestions = 3
)

type scoredName struct {
	name  string
	score float64
}

// SuggestNames ranks pool entries by normalized similarity to name and
// returns up to limit names scoring at or above the suggestion
// threshold, best first. Ties break alphabetically for determinism.
func SuggestNames(name string, pool []string, limit int) []string {
	var scored []scoredName

	for _, candidate := range pool {
		if candidate == name {
			continue
		}

		score := Similarity(name, candidate)
		if score >= suggestThreshold {
			scored = append(scored, scoredName{name: candidate, score: score})
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}

		return scored[i].name < scored[j].name
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	out := make([]string, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.name)
	}

	return out
}
