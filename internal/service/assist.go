package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lberndt/roomscout/internal/engine"
	"github.com/lberndt/roomscout/internal/llm"
	"github.com/lberndt/roomscout/internal/metrics"
	"github.com/lberndt/roomscout/internal/models"
	"github.com/lberndt/roomscout/internal/repo"
)

// ErrNoRoomsMatched is returned when the interpreted keywords match nothing.
var ErrNoRoomsMatched = errors.New("no rooms matched the keywords")

// AssistService runs the end-to-end natural-language flow: interpret the
// request, scan rooms by keywords, shortlist by style, compare the top two
// and recommend one.
type AssistService struct {
	rooms    RoomSource
	embedder Embedder
	model    Narrator
	weights  engine.Weights
	compare  *CompareService
	metrics  *metrics.Collector
	log      *slog.Logger
}

// NewAssistService creates an assist service. The model is required; assist
// without an LLM is meaningless. weights configure the recommendation scorer;
// the zero value falls back to the shipped defaults.
func NewAssistService(rooms RoomSource, embedder Embedder, model Narrator, weights engine.Weights, collector *metrics.Collector, log *slog.Logger) *AssistService {
	if log == nil {
		log = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector()
	}
	if weights == (engine.Weights{}) {
		weights = engine.DefaultWeights()
	}
	return &AssistService{
		rooms:    rooms,
		embedder: embedder,
		model:    model,
		weights:  weights,
		compare:  NewCompareService(rooms, embedder, model, collector, log),
		metrics:  collector,
		log:      log,
	}
}

// AssistResult is everything the flow produced. Comparison and
// recommendation are nil when fewer than two rooms matched.
type AssistResult struct {
	RunID          string                 `json:"run_id"`
	Intent         models.Intent          `json:"intent"`
	Matches        []repo.Match           `json:"matches"`
	Picked         []string               `json:"picked"`
	Comparison     *CompareResult         `json:"comparison,omitempty"`
	Recommendation *engine.Recommendation `json:"recommendation,omitempty"`
	Note           string                 `json:"note,omitempty"`
}

// Assist executes the flow for one utterance. styleOverride, when set, wins
// over the interpreted style preference.
func (s *AssistService) Assist(ctx context.Context, utterance, styleOverride string) (*AssistResult, error) {
	runID := uuid.NewString()
	log := s.log.With("run_id", runID)

	intent, err := s.model.InterpretIntent(ctx, utterance)
	if err != nil {
		return nil, fmt.Errorf("interpret intent: %w", err)
	}
	if styleOverride != "" {
		intent.Style = styleOverride
	}
	log.Info("intent interpreted", "keywords", intent.Keywords, "style", intent.Style, "k", intent.K)

	matches := s.rooms.RoomsWithKeywords(intent.Keywords)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoRoomsMatched, intent.Keywords)
	}

	picked := s.shortlist(ctx, matches, intent)
	result := &AssistResult{RunID: runID, Intent: intent, Matches: matches}
	for _, m := range picked {
		result.Picked = append(result.Picked, m.Room.RoomID)
	}

	if len(picked) < 2 {
		log.Info("single room matched, skipping comparison", "room", picked[0].Room.RoomID)
		return result, nil
	}

	a, b := picked[0].Room, picked[1].Room
	comparison, err := s.compare.CompareRooms(ctx, a.RoomID, b.RoomID, CompareOptions{Style: intent.Style, Insight: true})
	if err != nil {
		return nil, fmt.Errorf("compare picked rooms: %w", err)
	}
	result.Comparison = comparison

	s.recommend(ctx, result, a, b, intent, utterance, log)
	return result, nil
}

// shortlist keeps the top K matches. With a style preference each match is
// scored by the model; scoring failures count as zero rather than aborting.
func (s *AssistService) shortlist(ctx context.Context, matches []repo.Match, intent models.Intent) []repo.Match {
	k := intent.K
	if k < 1 {
		k = 1
	}
	if intent.Style == "" || len(matches) <= 1 {
		if len(matches) > k {
			return matches[:k]
		}
		return matches
	}

	type scored struct {
		match repo.Match
		score float64
	}
	rows := make([]scored, 0, len(matches))
	for _, m := range matches {
		start := time.Now()
		score, err := s.model.ScoreRoomStyle(ctx, m.Room, intent.Style)
		s.metrics.RecordTiming(metrics.OpGenerate, time.Since(start))
		if err != nil {
			s.log.Warn("style scoring failed", "room", m.Room.RoomID, "error", err)
			score = 0
		}
		rows = append(rows, scored{match: m, score: score})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].score > rows[j].score })

	if len(rows) > k {
		rows = rows[:k]
	}
	out := make([]repo.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.match)
	}
	return out
}

// recommend runs the deterministic scorer between the two picked rooms and
// asks the model to phrase the decision. The style reference embedding comes
// from the style preference, or from the raw utterance when no style was
// given; an unavailable embedder leaves the recommendation out.
func (s *AssistService) recommend(ctx context.Context, result *AssistResult, a, b models.Room, intent models.Intent, utterance string, log *slog.Logger) {
	if s.embedder == nil {
		return
	}
	styleText := intent.Style
	if styleText == "" {
		styleText = utterance
	}

	start := time.Now()
	styleRef, err := s.embedder.Embed(ctx, styleText)
	s.metrics.RecordTiming(metrics.OpEmbedding, time.Since(start))
	if err != nil {
		log.Warn("style embedding unavailable, skipping recommendation", "error", err)
		return
	}

	a = s.withEmbedding(ctx, a, log)
	b = s.withEmbedding(ctx, b, log)

	rec, err := engine.Recommend(a, b, styleRef, s.weights)
	if err != nil {
		log.Warn("recommendation scoring failed", "error", err)
		return
	}
	result.Recommendation = rec

	note, err := s.model.RecommendationNote(ctx, llm.RecommendInput{
		TitleA: a.Title(),
		TitleB: b.Title(),
		Rec:    rec,
		Report: result.Comparison.Report,
		Style:  intent.Style,
	})
	if err != nil {
		log.Warn("recommendation note failed", "error", err)
		return
	}
	result.Note = note
}

func (s *AssistService) withEmbedding(ctx context.Context, room models.Room, log *slog.Logger) models.Room {
	if len(room.SummaryEmbedding) > 0 {
		return room
	}
	vec, err := s.embedder.Embed(ctx, EmbedText(room))
	if err != nil {
		log.Warn("room embedding unavailable", "room", room.RoomID, "error", err)
		return room
	}
	room.SummaryEmbedding = vec
	return room
}
