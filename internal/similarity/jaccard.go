// Package similarity holds the set-overlap primitives used by the duplicate classifier.
package similarity

import (
	"math"
	"strings"
)

// Weights of the combined score. Keyword overlap is the stronger duplicate signal.
const (
	KeywordWeight = 0.6
	TitleWeight   = 0.4
)

// Jaccard returns |A∩B| / |A∪B| over the lower-cased terms of a and b.
// Two empty sets yield 0.
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	intersection := 0
	for k := range setA {
		if _, ok := setB[k]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Keywords compares two keyword lists.
func Keywords(a, b []string) float64 {
	return Jaccard(a, b)
}

// Title compares two titles by their whitespace-separated words.
func Title(a, b string) float64 {
	return Jaccard(strings.Fields(a), strings.Fields(b))
}

// Weighted combines keyword and title similarity into one score.
func Weighted(keywordSim, titleSim float64) float64 {
	return KeywordWeight*keywordSim + TitleWeight*titleSim
}

// Round2 rounds to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func toSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}
