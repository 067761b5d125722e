// Package retrieval turns raw vector-store hits into a clean neighbor list
// for a seed room: deduplicated, seed-excluded, deterministically ordered.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/lberndt/roomscout/internal/engine"
	"github.com/lberndt/roomscout/internal/models"
)

// VectorSearcher is the nearest-neighbor query surface of the vector store.
type VectorSearcher interface {
	NearestRooms(ctx context.Context, embedding []float32, filter models.SearchFilter, limit int) ([]models.RoomHit, error)
}

// Retriever wraps a VectorSearcher with overfetch and post-processing.
type Retriever struct {
	searcher  VectorSearcher
	overfetch int
	log       *slog.Logger
}

// New creates a Retriever. overfetch multiplies k on the store query so that
// dedupe and seed exclusion still leave enough results; values below 2 are
// raised to 2.
func New(searcher VectorSearcher, overfetch int, log *slog.Logger) *Retriever {
	if overfetch < 2 {
		overfetch = 2
	}
	if log == nil {
		log = slog.Default()
	}
	return &Retriever{searcher: searcher, overfetch: overfetch, log: log}
}

// FindNeighbors returns up to k neighbor rooms for the seed, ordered by
// similarity descending with ties broken by ascending room ID. Fewer than k
// results is success, not an error. SharedKeyCount counts the exact
// comparison keys each neighbor shares with the seed.
func (r *Retriever) FindNeighbors(ctx context.Context, seed models.Room, filter models.SearchFilter, k int) ([]models.NeighborResult, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(seed.SummaryEmbedding) == 0 {
		return nil, fmt.Errorf("seed room %s has no summary embedding", seed.RoomID)
	}

	hits, err := r.searcher.NearestRooms(ctx, seed.SummaryEmbedding, filter, k*r.overfetch)
	if err != nil {
		return nil, err
	}

	// Dedupe by room ID, keeping the best-scoring hit.
	best := map[string]models.RoomHit{}
	for _, hit := range hits {
		id := hit.Room.RoomID
		if id == seed.RoomID {
			continue
		}
		if prev, ok := best[id]; !ok || hit.Score > prev.Score {
			best[id] = hit
		}
	}

	seedKeys := engine.Keys(seed.Items)
	neighbors := make([]models.NeighborResult, 0, len(best))
	for _, hit := range best {
		neighbors = append(neighbors, models.NeighborResult{
			Room:           hit.Room,
			Similarity:     hit.Score,
			SharedKeyCount: sharedKeyCount(seedKeys, hit.Room.Items),
		})
	}

	sortNeighbors(neighbors)
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}

	r.log.Debug("neighbors retrieved",
		"seed", seed.RoomID,
		"requested", k,
		"raw_hits", len(hits),
		"returned", len(neighbors))
	return neighbors, nil
}

// MineNeighbors ranks candidate rooms by relaxed-pair overlap with the seed,
// with no vector store involved. Similarity is the Jaccard of the two
// relaxed pair sets; rooms sharing nothing are dropped. Used as the offline
// fallback when retrieval is unavailable.
func MineNeighbors(seed models.Room, candidates []models.Room, k int) []models.NeighborResult {
	if k <= 0 {
		return nil
	}
	seedPairs := engine.PairKeys(seed.Items)

	var neighbors []models.NeighborResult
	for _, cand := range candidates {
		if cand.RoomID == seed.RoomID {
			continue
		}
		candPairs := engine.PairKeys(cand.Items)
		shared := 0
		for p := range candPairs {
			if _, ok := seedPairs[p]; ok {
				shared++
			}
		}
		if shared == 0 {
			continue
		}
		union := len(seedPairs) + len(candPairs) - shared
		neighbors = append(neighbors, models.NeighborResult{
			Room:           cand,
			Similarity:     float64(shared) / float64(union),
			SharedKeyCount: shared,
		})
	}

	sortNeighbors(neighbors)
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

func sortNeighbors(neighbors []models.NeighborResult) {
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].Room.RoomID < neighbors[j].Room.RoomID
	})
}

func sharedKeyCount(seedKeys map[engine.ItemKey]struct{}, items []models.Item) int {
	n := 0
	for key := range engine.Keys(items) {
		if _, ok := seedKeys[key]; ok {
			n++
		}
	}
	return n
}
