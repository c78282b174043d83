// Package similarity compares embedding vectors.
package similarity

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrLengthMismatch is returned when two vectors differ in dimension.
	ErrLengthMismatch = errors.New("aisdk: vectors must be of the same length")
	// ErrZeroMagnitude is returned when either vector has zero magnitude.
	ErrZeroMagnitude = errors.New("aisdk: vector magnitude cannot be zero")
)

// Number is any element type an embedding vector can carry.
type Number interface {
	~float32 | ~float64
}

// Cosine returns the cosine similarity of a and b, in [-1, 1].
func Cosine[T Number](a, b []T) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}

	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}

	if magA == 0 || magB == 0 {
		return 0, ErrZeroMagnitude
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB)), nil
}

// Match is one ranked candidate returned by Rank.
type Match struct {
	Index int
	Score float64
}

// Rank scores every candidate against query and returns the best k matches in
// descending score order. k <= 0 returns all candidates. Candidates with a
// mismatched length or zero magnitude fail the whole ranking.
func Rank[T Number](query []T, candidates [][]T, k int) ([]Match, error) {
	matches := make([]Match, 0, len(candidates))
	for i, candidate := range candidates {
		score, err := Cosine(query, candidate)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		matches = append(matches, Match{Index: i, Score: score})
	}

	slices.SortStableFunc(matches, func(a, b Match) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}
