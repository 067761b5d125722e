package engine

import (
	"fmt"
	"sort"

	"github.com/lberndt/roomscout/internal/models"
)

// Summary holds brand, category and brand×category frequency counts for a
// set of items. Counts are per item, not per distinct comparison key: a room
// with two identical lamps counts 2. Items with no brand are absent from
// BrandCounts, items with an unknown category are absent from
// CategoryCounts, and pairs require at least one of the two fields.
type Summary struct {
	BrandCounts    map[string]int
	CategoryCounts map[string]int
	PairCounts     map[PairKey]int
}

// KeyCount is one entry of a ranked frequency listing.
type KeyCount struct {
	Key   string
	Count int
}

// Summarize aggregates item frequencies for a room or an arbitrary item set.
func Summarize(items []models.Item) Summary {
	s := Summary{
		BrandCounts:    map[string]int{},
		CategoryCounts: map[string]int{},
		PairCounts:     map[PairKey]int{},
	}
	for _, it := range items {
		k := NormalizeItem(it)
		if k.Brand != "" {
			s.BrandCounts[k.Brand]++
		}
		if name, known := k.Category.Name(); known {
			s.CategoryCounts[name]++
		}
		if p := k.Pair(); !p.generic() {
			s.PairCounts[p]++
		}
	}
	return s
}

// TopBrands returns the n most frequent brands, count descending, ties
// broken lexicographically. n <= 0 returns all.
func (s Summary) TopBrands(n int) []KeyCount {
	return top(s.BrandCounts, n)
}

// TopCategories returns the n most frequent categories.
func (s Summary) TopCategories(n int) []KeyCount {
	return top(s.CategoryCounts, n)
}

// TopPairs returns the n most frequent brand×category pairs, rendered as
// "brand×category".
func (s Summary) TopPairs(n int) []KeyCount {
	rendered := make(map[string]int, len(s.PairCounts))
	for p, c := range s.PairCounts {
		rendered[fmt.Sprintf("%s×%s", orDash(p.Brand), p.Category)] = c
	}
	return top(rendered, n)
}

func top(counts map[string]int, n int) []KeyCount {
	out := make([]KeyCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, KeyCount{Key: k, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
