package engine

import (
	"sort"

	"github.com/lberndt/roomscout/internal/models"
)

// Citation points at the neighbor room (and the first matching item in it)
// that contributed support for a suggestion.
type Citation struct {
	RoomID string `json:"room_id"`
	ItemID string `json:"item_id,omitempty"`
}

// SuggestionCandidate is one ranked completion proposal: a (brand, category)
// pair absent from the seed, with how many distinct neighbor rooms contain
// it, one representative item and full provenance.
type SuggestionCandidate struct {
	Brand          string          `json:"brand"`
	Category       models.Category `json:"category"`
	SupportCount   int             `json:"support_count"`
	Representative *models.Item    `json:"representative_item,omitempty"`
	Citations      []Citation      `json:"source_citations,omitempty"`
}

// candidate accumulates mining state for one pair.
type candidate struct {
	pair      PairKey
	support   int
	firstSeen int // rank of the closest neighbor containing the pair
	rep       *models.Item
	citations []Citation
}

// SeedPairs computes the existing (brand, category) key set of one or more
// seed rooms, unioned. Suggestions never propose a pair already in this set.
func SeedPairs(seeds ...models.Room) map[PairKey]struct{} {
	out := map[PairKey]struct{}{}
	for _, r := range seeds {
		for p := range PairKeys(r.Items) {
			out[p] = struct{}{}
		}
	}
	return out
}

// Suggest mines the neighbor set for (brand, category) pairs missing from
// the seed and ranks them by support. Support counts distinct neighbor rooms
// containing the pair, once per room regardless of item repetition, so one
// room with five identical chairs cannot dominate the ranking. Ties are
// broken by the first-seen neighbor rank (closest neighbor wins), then
// lexicographically by brand and category. The result is truncated to max
// (max <= 0 means no limit); an empty result is valid, not an error.
func Suggest(seedPairs map[PairKey]struct{}, neighbors []models.NeighborResult, max int) []SuggestionCandidate {
	byPair := map[PairKey]*candidate{}

	for rank, nb := range neighbors {
		seen := map[PairKey]bool{}
		for _, it := range nb.Room.Items {
			p := NormalizeItem(it).Pair()
			if p.generic() {
				continue
			}
			if _, exists := seedPairs[p]; exists {
				continue
			}

			c, ok := byPair[p]
			if !ok {
				c = &candidate{pair: p, firstSeen: rank}
				byPair[p] = c
			}
			if !seen[p] {
				seen[p] = true
				c.support++
				item := it
				if c.rep == nil {
					c.rep = &item
				}
				c.citations = append(c.citations, Citation{RoomID: nb.Room.RoomID, ItemID: it.ItemID})
			}
		}
	}

	ranked := make([]*candidate, 0, len(byPair))
	for _, c := range byPair {
		ranked = append(ranked, c)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.support != b.support {
			return a.support > b.support
		}
		if a.firstSeen != b.firstSeen {
			return a.firstSeen < b.firstSeen
		}
		if a.pair.Brand != b.pair.Brand {
			return a.pair.Brand < b.pair.Brand
		}
		return a.pair.Category.String() < b.pair.Category.String()
	})

	if max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}

	out := make([]SuggestionCandidate, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, SuggestionCandidate{
			Brand:          c.pair.Brand,
			Category:       c.pair.Category,
			SupportCount:   c.support,
			Representative: c.rep,
			Citations:      c.citations,
		})
	}
	return out
}
