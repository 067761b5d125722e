package service

import (
	"context"
	"errors"
	"sort"

	"github.com/lberndt/roomscout/internal/llm"
	"github.com/lberndt/roomscout/internal/models"
	"github.com/lberndt/roomscout/internal/repo"
)

type stubRooms struct {
	rooms   map[string]models.Room
	matches []repo.Match
	seed    models.Room
	seedErr error

	keywordCalls [][]string
	seedCalls    [][]string
}

func newStubRooms(rooms ...models.Room) *stubRooms {
	s := &stubRooms{rooms: map[string]models.Room{}}
	for _, r := range rooms {
		s.rooms[r.RoomID] = r
	}
	return s
}

func (s *stubRooms) Room(id string) (models.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return models.Room{}, repo.ErrRoomNotFound
	}
	return r, nil
}

func (s *stubRooms) Rooms() []models.Room {
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]models.Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.rooms[id])
	}
	return out
}

func (s *stubRooms) RoomsWithKeywords(tokens []string) []repo.Match {
	s.keywordCalls = append(s.keywordCalls, tokens)
	return s.matches
}

func (s *stubRooms) VirtualSeed(itemIDs []string) (models.Room, error) {
	s.seedCalls = append(s.seedCalls, itemIDs)
	if s.seedErr != nil {
		return models.Room{}, s.seedErr
	}
	return s.seed, nil
}

type stubEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (s *stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	s.calls++
	return s.vec, s.err
}

type stubNarrator struct {
	insight string
	brief   string
	note    string
	intent  models.Intent
	scores  map[string]float64
	err     error

	lastInsight   *llm.InsightInput
	lastBrief     *llm.BriefInput
	lastRecommend *llm.RecommendInput
	utterances    []string
}

func (s *stubNarrator) CompareInsight(_ context.Context, in llm.InsightInput) (string, error) {
	s.lastInsight = &in
	return s.insight, s.err
}

func (s *stubNarrator) CompletionBrief(_ context.Context, in llm.BriefInput) (string, error) {
	s.lastBrief = &in
	return s.brief, s.err
}

func (s *stubNarrator) RecommendationNote(_ context.Context, in llm.RecommendInput) (string, error) {
	s.lastRecommend = &in
	return s.note, s.err
}

func (s *stubNarrator) ScoreRoomStyle(_ context.Context, room models.Room, _ string) (float64, error) {
	if s.scores == nil {
		return 0, errors.New("no scores configured")
	}
	return s.scores[room.RoomID], nil
}

func (s *stubNarrator) InterpretIntent(_ context.Context, userText string) (models.Intent, error) {
	s.utterances = append(s.utterances, userText)
	return s.intent, s.err
}

type stubFinder struct {
	neighbors []models.NeighborResult
	err       error
	calls     int
}

func (s *stubFinder) FindNeighbors(context.Context, models.Room, models.SearchFilter, int) ([]models.NeighborResult, error) {
	s.calls++
	return s.neighbors, s.err
}

func testItem(name, brand, category string) models.Item {
	return models.Item{
		ItemID:   "item:" + name,
		Name:     name,
		Brand:    brand,
		Category: models.ParseCategory(category),
	}
}

func testRoom(id, label string, emb []float32, items ...models.Item) models.Room {
	return models.Room{RoomID: id, Label: label, SummaryEmbedding: emb, Items: items}
}
