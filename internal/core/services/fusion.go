package services

import "sort"

// Fusion constants. Dense and sparse weights need not sum to 1; RRF is
// rank-based so the weights only set the relative influence of the two
// lists.
const (
	rrfK                = 60
	defaultDenseWeight  = 0.6
	defaultSparseWeight = 0.4
)

// scoredRef is an intermediate search result before hydration: a chunk
// id with a stage-scoped score.
type scoredRef struct {
	chunkID string
	score   float64
}

// fusionFunc merges a dense and a sparse ranked list into one.
type fusionFunc func(dense, sparse []scoredRef) []scoredRef

// rrfFuse merges two ranked lists with weighted Reciprocal Rank Fusion:
// each list contributes weight/(k+rank+1) per chunk, summed across
// lists. Rank-based fusion needs no calibration between cosine
// similarities and lexical ranks, which live on different scales.
func rrfFuse(dense, sparse []scoredRef) []scoredRef {
	scores := make(map[string]float64, len(dense)+len(sparse))

	for rank, ref := range dense {
		scores[ref.chunkID] += defaultDenseWeight / float64(rrfK+rank+1)
	}
	for rank, ref := range sparse {
		scores[ref.chunkID] += defaultSparseWeight / float64(rrfK+rank+1)
	}

	return sortRefs(scores)
}

// weightedFuse merges by weighted score sum, zero-filling a chunk's
// missing side. Kept as an alternative to RRF for comparison; it is
// sensitive to the scale mismatch between the two score spaces.
func weightedFuse(dense, sparse []scoredRef) []scoredRef {
	scores := make(map[string]float64, len(dense)+len(sparse))

	for _, ref := range dense {
		scores[ref.chunkID] += defaultDenseWeight * ref.score
	}
	for _, ref := range sparse {
		scores[ref.chunkID] += defaultSparseWeight * ref.score
	}

	return sortRefs(scores)
}

// sortRefs materialises a score map into a descending list. Ties break
// on chunk id so fusion output is deterministic.
func sortRefs(scores map[string]float64) []scoredRef {
	refs := make([]scoredRef, 0, len(scores))
	for id, score := range scores {
		refs = append(refs, scoredRef{chunkID: id, score: score})
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].score != refs[j].score {
			return refs[i].score > refs[j].score
		}
		return refs[i].chunkID < refs[j].chunkID
	})
	return refs
}
