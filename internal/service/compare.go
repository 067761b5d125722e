package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lberndt/roomscout/internal/engine"
	"github.com/lberndt/roomscout/internal/llm"
	"github.com/lberndt/roomscout/internal/metrics"
	"github.com/lberndt/roomscout/internal/models"
)

// CompareService builds pairwise room and project comparisons.
type CompareService struct {
	rooms    RoomSource
	embedder Embedder
	model    Narrator
	metrics  *metrics.Collector
	log      *slog.Logger
}

// NewCompareService creates a comparison service. embedder and model may be
// nil; the service then degrades to overlap-only reports without narrative.
func NewCompareService(rooms RoomSource, embedder Embedder, model Narrator, collector *metrics.Collector, log *slog.Logger) *CompareService {
	if log == nil {
		log = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	return &CompareService{rooms: rooms, embedder: embedder, model: model, metrics: collector, log: log}
}

// CompareOptions configures a comparison.
type CompareOptions struct {
	Style   string
	Insight bool
}

// CompareResult is a comparison report plus provenance.
type CompareResult struct {
	RunID   string                `json:"run_id"`
	TitleA  string                `json:"title_a"`
	TitleB  string                `json:"title_b"`
	RoomA   string                `json:"room_a"`
	RoomB   string                `json:"room_b"`
	Report  *engine.OverlapReport `json:"report"`
	Insight string                `json:"insight,omitempty"`
}

// CompareRooms compares two rooms by ID. Missing summary embeddings are
// filled on the fly; an unavailable embedder degrades cosine to nil instead
// of failing the comparison.
func (s *CompareService) CompareRooms(ctx context.Context, idA, idB string, opts CompareOptions) (*CompareResult, error) {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID, "room_a", idA, "room_b", idB)

	a, err := s.rooms.Room(idA)
	if err != nil {
		return nil, err
	}
	b, err := s.rooms.Room(idB)
	if err != nil {
		return nil, err
	}

	s.ensureEmbedding(ctx, &a, log)
	s.ensureEmbedding(ctx, &b, log)

	start := time.Now()
	report, err := engine.Compare(a, b)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTiming(metrics.OpCompare, time.Since(start))

	result := &CompareResult{
		RunID:  runID,
		TitleA: a.Title(),
		TitleB: b.Title(),
		RoomA:  a.RoomID,
		RoomB:  b.RoomID,
		Report: report,
	}

	if opts.Insight && s.model != nil {
		insight, err := s.narrate(ctx, result, opts.Style)
		if err != nil {
			log.Warn("insight generation failed", "error", err)
		} else {
			result.Insight = insight
		}
	}

	log.Info("rooms compared",
		"exact_jaccard", report.ExactJaccard,
		"relaxed_jaccard", report.RelaxedJaccard,
		"cosine_available", report.Cosine != nil)
	return result, nil
}

// CompareProjects compares the unions of two room groups. Cosine is always
// unavailable for aggregates; overlap metrics carry the comparison.
func (s *CompareService) CompareProjects(ctx context.Context, groupA, groupB []string) (*CompareResult, error) {
	runID := uuid.NewString()

	itemsA, err := s.unionItems(groupA)
	if err != nil {
		return nil, err
	}
	itemsB, err := s.unionItems(groupB)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	report, err := engine.CompareItemSets(itemsA, itemsB)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTiming(metrics.OpCompare, time.Since(start))

	s.log.Info("projects compared",
		"run_id", runID,
		"rooms_a", len(groupA),
		"rooms_b", len(groupB),
		"exact_jaccard", report.ExactJaccard)
	return &CompareResult{
		RunID:  runID,
		TitleA: fmt.Sprintf("%d rooms", len(groupA)),
		TitleB: fmt.Sprintf("%d rooms", len(groupB)),
		Report: report,
	}, nil
}

func (s *CompareService) unionItems(ids []string) ([]models.Item, error) {
	var items []models.Item
	for _, id := range ids {
		room, err := s.rooms.Room(id)
		if err != nil {
			return nil, err
		}
		items = append(items, room.Items...)
	}
	return items, nil
}

func (s *CompareService) narrate(ctx context.Context, result *CompareResult, style string) (string, error) {
	start := time.Now()
	defer func() { s.metrics.RecordTiming(metrics.OpGenerate, time.Since(start)) }()

	return s.model.CompareInsight(ctx, llm.InsightInput{
		TitleA: result.TitleA,
		TitleB: result.TitleB,
		Report: result.Report,
		Style:  style,
	})
}

// ensureEmbedding fills a missing summary embedding. Failures leave the room
// unchanged; comparison then reports cosine as unavailable.
func (s *CompareService) ensureEmbedding(ctx context.Context, room *models.Room, log *slog.Logger) {
	if len(room.SummaryEmbedding) > 0 || s.embedder == nil {
		return
	}
	start := time.Now()
	vec, err := s.embedder.Embed(ctx, EmbedText(*room))
	s.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
	if err != nil {
		if errors.Is(err, llm.ErrEmbeddingUnavailable) {
			log.Warn("embedding unavailable, cosine will be omitted", "room", room.RoomID)
			return
		}
		log.Warn("embedding failed, cosine will be omitted", "room", room.RoomID, "error", err)
		return
	}
	room.SummaryEmbedding = vec
}
