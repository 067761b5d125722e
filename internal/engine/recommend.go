package engine

import (
	"math"

	"github.com/lberndt/roomscout/internal/models"
)

// Weights are the fixed configuration of the recommendation scorer.
type Weights struct {
	// Style scales the cosine alignment with the style reference.
	Style float64 `yaml:"style"`
	// Sprawl penalizes large distinct-item sets, normalized by the larger
	// distinct count of the compared pair. Fewer, well-matched unique
	// pieces read as more curated.
	Sprawl float64 `yaml:"sprawl"`
	// Epsilon is the score distance below which the two rooms are
	// considered tied and brand concentration decides.
	Epsilon float64 `yaml:"epsilon"`
}

// DefaultWeights match the shipped scoring configuration.
func DefaultWeights() Weights {
	return Weights{Style: 1.0, Sprawl: 0.25, Epsilon: 1e-6}
}

// RoomSignals are the raw per-room signals behind a recommendation. They are
// handed to the narrative generator, which must cite them verbatim and never
// re-derive or invent numbers.
type RoomSignals struct {
	RoomID             string  `json:"room_id"`
	StyleCosine        float64 `json:"style_cosine"`
	DistinctItems      int     `json:"distinct_items"`
	BrandConcentration float64 `json:"brand_concentration"`
	Score              float64 `json:"score"`
}

// Recommendation names the preferred room of a compared pair plus the
// signals that produced the decision.
type Recommendation struct {
	Winner string      `json:"winner"`
	A      RoomSignals `json:"a"`
	B      RoomSignals `json:"b"`
	Tie    bool        `json:"tie_broken_by_concentration,omitempty"`
}

// Recommend deterministically picks between two rooms given a style
// reference embedding:
//
//	score = cosine(summary, styleRef) * Style − distinct/maxDistinct * Sprawl
//
// A score gap below Epsilon is a tie, broken by the higher maximum
// single-brand share of items, then by ascending room ID. The winner is
// invariant under argument order.
func Recommend(a, b models.Room, styleRef []float32, w Weights) (*Recommendation, error) {
	if len(a.Items) == 0 || len(b.Items) == 0 {
		return nil, ErrEmptyRoom
	}

	cosA, err := Cosine(a.SummaryEmbedding, styleRef)
	if err != nil {
		return nil, err
	}
	cosB, err := Cosine(b.SummaryEmbedding, styleRef)
	if err != nil {
		return nil, err
	}

	distinctA := len(Keys(a.Items))
	distinctB := len(Keys(b.Items))
	n := distinctA
	if distinctB > n {
		n = distinctB
	}
	if n == 0 {
		n = 1
	}

	sigA := RoomSignals{
		RoomID:             a.RoomID,
		StyleCosine:        cosA,
		DistinctItems:      distinctA,
		BrandConcentration: brandConcentration(a.Items),
		Score:              cosA*w.Style - float64(distinctA)/float64(n)*w.Sprawl,
	}
	sigB := RoomSignals{
		RoomID:             b.RoomID,
		StyleCosine:        cosB,
		DistinctItems:      distinctB,
		BrandConcentration: brandConcentration(b.Items),
		Score:              cosB*w.Style - float64(distinctB)/float64(n)*w.Sprawl,
	}

	rec := &Recommendation{A: sigA, B: sigB}
	switch {
	case math.Abs(sigA.Score-sigB.Score) >= w.Epsilon:
		if sigA.Score > sigB.Score {
			rec.Winner = sigA.RoomID
		} else {
			rec.Winner = sigB.RoomID
		}
	case sigA.BrandConcentration != sigB.BrandConcentration:
		rec.Tie = true
		if sigA.BrandConcentration > sigB.BrandConcentration {
			rec.Winner = sigA.RoomID
		} else {
			rec.Winner = sigB.RoomID
		}
	default:
		// Full tie; ascending room ID keeps the result deterministic.
		rec.Tie = true
		if sigA.RoomID < sigB.RoomID {
			rec.Winner = sigA.RoomID
		} else {
			rec.Winner = sigB.RoomID
		}
	}
	return rec, nil
}

// brandConcentration is the share of items belonging to the single most
// frequent brand. Unbranded items count toward the total but never toward a
// brand bucket.
func brandConcentration(items []models.Item) float64 {
	if len(items) == 0 {
		return 0
	}
	counts := map[string]int{}
	best := 0
	for _, it := range items {
		brand := norm(it.Brand)
		if brand == "" {
			continue
		}
		counts[brand]++
		if counts[brand] > best {
			best = counts[brand]
		}
	}
	return float64(best) / float64(len(items))
}
