package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lberndt/roomscout/internal/engine"
	"github.com/lberndt/roomscout/internal/llm"
	"github.com/lberndt/roomscout/internal/metrics"
	"github.com/lberndt/roomscout/internal/models"
	"github.com/lberndt/roomscout/internal/retrieval"
)

// CompleteService produces ranked completion suggestions for a seed room.
type CompleteService struct {
	rooms     RoomSource
	embedder  Embedder
	neighbors NeighborFinder
	model     Narrator
	metrics   *metrics.Collector
	log       *slog.Logger
}

// NewCompleteService creates a completion service. neighbors may be nil;
// every completion then mines neighbors from the local snapshot.
func NewCompleteService(rooms RoomSource, embedder Embedder, neighbors NeighborFinder, model Narrator, collector *metrics.Collector, log *slog.Logger) *CompleteService {
	if log == nil {
		log = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &CompleteService{rooms: rooms, embedder: embedder, neighbors: neighbors, model: model, metrics: collector, log: log}
}

// CompleteOptions configures a completion request. Exactly one of RoomID and
// FromItems selects the seed.
type CompleteOptions struct {
	RoomID    string
	FromItems []string

	Neighbors   int
	Suggestions int
	Style       string
	Hint        string
	Brief       bool

	// Offline skips the vector store and mines neighbors by relaxed-pair
	// overlap against the local snapshot.
	Offline bool
}

// CompletionResult is a ranked suggestion list plus provenance.
type CompletionResult struct {
	RunID       string                       `json:"run_id"`
	SeedID      string                       `json:"seed_id"`
	SeedTitle   string                       `json:"seed_title"`
	Neighbors   []models.NeighborResult      `json:"neighbors"`
	Suggestions []engine.SuggestionCandidate `json:"suggestions"`
	Mined       bool                         `json:"mined,omitempty"`
	Brief       string                       `json:"brief,omitempty"`
}

// CompleteRoom suggests (brand, category) pairs the seed is missing, ranked
// by how many neighbor rooms carry them. When the vector store cannot serve
// neighbors, the service falls back to overlap-mined neighbors from the
// local snapshot and flags the result as Mined.
func (s *CompleteService) CompleteRoom(ctx context.Context, opts CompleteOptions) (*CompletionResult, error) {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	seed, err := s.seedRoom(opts)
	if err != nil {
		return nil, err
	}
	if len(seed.Items) == 0 {
		return nil, engine.ErrEmptyRoom
	}
	if opts.Neighbors <= 0 {
		opts.Neighbors = 12
	}
	if opts.Suggestions <= 0 {
		opts.Suggestions = 6
	}

	neighbors, mined := s.findNeighbors(ctx, seed, opts, log)

	start := time.Now()
	suggestions := engine.Suggest(engine.SeedPairs(seed), neighbors, opts.Suggestions)
	s.metrics.RecordTiming(metrics.OpSuggest, time.Since(start))

	result := &CompletionResult{
		RunID:       runID,
		SeedID:      seed.RoomID,
		SeedTitle:   seed.Title(),
		Neighbors:   neighbors,
		Suggestions: suggestions,
		Mined:       mined,
	}

	if opts.Brief && s.model != nil {
		start := time.Now()
		brief, err := s.model.CompletionBrief(ctx, llm.BriefInput{
			SeedTitle:   seed.Title(),
			Suggestions: suggestions,
			Neighbors:   neighbors,
			Style:       opts.Style,
			Hint:        opts.Hint,
		})
		s.metrics.RecordTiming(metrics.OpGenerate, time.Since(start))
		if err != nil {
			log.Warn("brief generation failed", "error", err)
		} else {
			result.Brief = brief
		}
	}

	log.Info("room completion built",
		"seed", seed.RoomID,
		"neighbors", len(neighbors),
		"suggestions", len(suggestions),
		"mined", mined)
	return result, nil
}

func (s *CompleteService) seedRoom(opts CompleteOptions) (models.Room, error) {
	switch {
	case opts.RoomID != "" && len(opts.FromItems) > 0:
		return models.Room{}, fmt.Errorf("seed is either a room ID or an item list, not both")
	case opts.RoomID != "":
		return s.rooms.Room(opts.RoomID)
	case len(opts.FromItems) > 0:
		return s.rooms.VirtualSeed(opts.FromItems)
	default:
		return models.Room{}, fmt.Errorf("no seed given")
	}
}

// findNeighbors prefers the vector store and falls back to overlap mining.
// The second return value reports whether mining was used.
func (s *CompleteService) findNeighbors(ctx context.Context, seed models.Room, opts CompleteOptions, log *slog.Logger) ([]models.NeighborResult, bool) {
	if !opts.Offline && s.neighbors != nil {
		if len(seed.SummaryEmbedding) == 0 && s.embedder != nil {
			start := time.Now()
			vec, err := s.embedder.Embed(ctx, EmbedText(seed))
			s.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
			if err != nil {
				log.Warn("seed embedding failed, mining neighbors instead", "error", err)
				return s.mine(seed, opts.Neighbors), true
			}
			seed.SummaryEmbedding = vec
		}

		start := time.Now()
		neighbors, err := s.neighbors.FindNeighbors(ctx, seed, models.SearchFilter{}, opts.Neighbors)
		s.metrics.RecordTiming(metrics.OpRetrieval, time.Since(start))
		if err == nil {
			return neighbors, false
		}
		log.Warn("retrieval failed, mining neighbors instead", "error", err)
	}
	return s.mine(seed, opts.Neighbors), true
}

func (s *CompleteService) mine(seed models.Room, k int) []models.NeighborResult {
	start := time.Now()
	defer func() { s.metrics.RecordTiming(metrics.OpRetrieval, time.Since(start)) }()
	return retrieval.MineNeighbors(seed, s.rooms.Rooms(), k)
}
