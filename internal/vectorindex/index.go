// Package vectorindex provides exact nearest-neighbour search over a small,
// fixed set of embedding vectors.
package vectorindex

import (
	"errors"
	"fmt"
	"sort"
)

// ErrEmpty is returned when building an index without vectors.
var ErrEmpty = errors.New("vector index requires at least one vector")

// DimensionError reports a vector whose length differs from the index dimension.
type DimensionError struct {
	Index int
	Want  int
	Got   int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("vector %d has dimension %d, want %d", e.Index, e.Got, e.Want)
}

// Neighbor is a search hit: the position of a stored vector and its squared
// Euclidean distance to the query.
type Neighbor struct {
	Index    int
	Distance float64
}

// FlatL2 is a brute force index ranking by squared L2 distance. It is
// immutable once built and safe for concurrent searches.
type FlatL2 struct {
	dim     int
	vectors [][]float32
}

// NewFlatL2 builds an index over vectors. Position i in the index maps to
// position i in the caller's concept list.
func NewFlatL2(vectors [][]float32) (*FlatL2, error) {
	if len(vectors) == 0 {
		return nil, ErrEmpty
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, &DimensionError{Index: 0, Want: 1, Got: 0}
	}
	stored := make([][]float32, len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &DimensionError{Index: i, Want: dim, Got: len(v)}
		}
		stored[i] = append([]float32(nil), v...)
	}
	return &FlatL2{dim: dim, vectors: stored}, nil
}

// Dim returns the vector dimension.
func (f *FlatL2) Dim() int { return f.dim }

// Len returns the number of stored vectors.
func (f *FlatL2) Len() int { return len(f.vectors) }

// Search returns up to k neighbours ordered by ascending distance. Equal
// distances keep index order.
func (f *FlatL2) Search(query []float32, k int) ([]Neighbor, error) {
	if len(query) != f.dim {
		return nil, &DimensionError{Index: -1, Want: f.dim, Got: len(query)}
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Neighbor, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Neighbor{Index: i, Distance: SquaredL2(query, v)}
	}
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// SquaredL2 returns the squared Euclidean distance between equal-length vectors.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
