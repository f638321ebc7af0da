// Package recommend ranks review candidates, either by wrong-answer counts
// or by cosine similarity over stored embedding vectors.
package recommend

import (
	"math"
	"sort"
)

// ZeroVectorScore is the sentinel similarity for degenerate vectors.
const ZeroVectorScore = -1.0

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths and zero-norm vectors score the sentinel minimum.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return ZeroVectorScore
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return ZeroVectorScore
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Ranked is one candidate with its similarity score.
type Ranked struct {
	Key   string
	Score float64
}

// RankBySimilarity scores every candidate against the query vector and
// returns the top limit results, highest first. Ties are broken by key so
// the ordering is deterministic. No indexing structure: the candidate set
// is the small fixed curriculum plus a capped recent-attempts window, so a
// linear scan is fine.
func RankBySimilarity(query []float64, candidates map[string][]float64, limit int) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for key, vector := range candidates {
		ranked = append(ranked, Ranked{Key: key, Score: CosineSimilarity(query, vector)})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Key < ranked[j].Key
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
