package vectorindex

import "math"

// Cosine returns the cosine similarity of two equal-length vectors.
// A zero vector has similarity 0 with everything.
func Cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// ArgmaxCosine returns the position of the candidate most similar to query.
// Ties resolve to the earliest candidate. It returns -1 for no candidates.
func ArgmaxCosine(query []float32, candidates [][]float32) (int, float64) {
	best, bestScore := -1, math.Inf(-1)
	for i, c := range candidates {
		if s := Cosine(query, c); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, bestScore
}
