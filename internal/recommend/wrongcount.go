package recommend

import (
	"sort"

	"github.com/codemaplab/codemap/internal/models"
)

// CardCount is one card with its wrong-answer count.
type CardCount struct {
	CardID string
	Count  int
}

// RankByWrongCount counts incorrect attempts per card and returns the top
// limit cards, most-missed first. Ties are broken by card id.
func RankByWrongCount(attempts []models.Attempt, limit int) []CardCount {
	counts := make(map[string]int)
	for _, a := range attempts {
		if a.IsCorrect {
			continue
		}
		counts[a.CardID]++
	}

	ranked := make([]CardCount, 0, len(counts))
	for cardID, count := range counts {
		ranked = append(ranked, CardCount{CardID: cardID, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].CardID < ranked[j].CardID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
