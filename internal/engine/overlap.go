package engine

import (
	"math"
	"sort"

	"github.com/lberndt/roomscout/internal/models"
)

// OverlapReport is the full pairwise comparison of two rooms. Cosine is nil
// when similarity is unavailable (missing or zero-magnitude summary
// embedding); overlap metrics are always computed. RelaxedJaccard is
// computed independently on (brand, category) pairs and is always >=
// ExactJaccard.
type OverlapReport struct {
	Cosine         *float64
	ExactJaccard   float64
	RelaxedJaccard float64

	SharedKeys []ItemKey
	UniqueA    []ItemKey
	UniqueB    []ItemKey

	SummaryA Summary
	SummaryB Summary
}

// Cosine computes cosine similarity between two embedding vectors.
// Returns ErrDegenerateVector if either vector is empty or has zero
// magnitude; callers must surface that as "similarity unavailable" rather
// than substituting zero.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, ErrDegenerateVector
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, ErrDegenerateVector
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), nil
}

// Compare builds the overlap report for two rooms. Both rooms must have at
// least one item (ErrEmptyRoom otherwise). A degenerate summary embedding on
// either side leaves Cosine nil without failing the comparison.
func Compare(a, b models.Room) (*OverlapReport, error) {
	if len(a.Items) == 0 || len(b.Items) == 0 {
		return nil, ErrEmptyRoom
	}

	report := compareItems(a.Items, b.Items)
	if cos, err := Cosine(a.SummaryEmbedding, b.SummaryEmbedding); err == nil {
		report.Cosine = &cos
	}
	return report, nil
}

// CompareItemSets compares two arbitrary item collections (e.g. the unions
// of all rooms in two projects). Cosine is left unavailable: a summary
// embedding is not meaningful for an aggregate.
func CompareItemSets(a, b []models.Item) (*OverlapReport, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyRoom
	}
	return compareItems(a, b), nil
}

func compareItems(a, b []models.Item) *OverlapReport {
	ka, kb := Keys(a), Keys(b)

	var shared, uniqueA, uniqueB []ItemKey
	for k := range ka {
		if _, ok := kb[k]; ok {
			shared = append(shared, k)
		} else {
			uniqueA = append(uniqueA, k)
		}
	}
	for k := range kb {
		if _, ok := ka[k]; !ok {
			uniqueB = append(uniqueB, k)
		}
	}
	sortKeys(shared)
	sortKeys(uniqueA)
	sortKeys(uniqueB)

	return &OverlapReport{
		ExactJaccard:   jaccard(len(shared), len(ka)+len(kb)-len(shared)),
		RelaxedJaccard: pairJaccard(PairKeys(a), PairKeys(b)),
		SharedKeys:     shared,
		UniqueA:        uniqueA,
		UniqueB:        uniqueB,
		SummaryA:       Summarize(a),
		SummaryB:       Summarize(b),
	}
}

// jaccard is |shared| / |union|, defined as 1.0 for two empty sets.
func jaccard(shared, union int) float64 {
	if union == 0 {
		return 1.0
	}
	return float64(shared) / float64(union)
}

func pairJaccard(pa, pb map[PairKey]struct{}) float64 {
	shared := 0
	for p := range pa {
		if _, ok := pb[p]; ok {
			shared++
		}
	}
	return jaccard(shared, len(pa)+len(pb)-shared)
}

func sortKeys(keys []ItemKey) {
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Name != keys[j].Name {
			return keys[i].Name < keys[j].Name
		}
		if keys[i].Brand != keys[j].Brand {
			return keys[i].Brand < keys[j].Brand
		}
		return keys[i].Category.String() < keys[j].Category.String()
	})
}
