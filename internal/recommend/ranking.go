package recommend

import "sort"

// RankRecommendations sorts recommendations by priority (high, medium, low).
// The sort is stable so equal priorities keep their rule order.
func RankRecommendations(recs []Recommendation) []Recommendation {
	sorted := make([]Recommendation, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
	})
	return sorted
}
