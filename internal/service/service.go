// Package service orchestrates the comparison, completion and assist flows:
// it loads rooms, obtains embeddings, runs the pure engine, and hands the
// structured results to the narrative generator. Every request carries a
// uuid run ID through logs and results.
package service

import (
	"context"
	"strings"

	"github.com/lberndt/roomscout/internal/llm"
	"github.com/lberndt/roomscout/internal/models"
	"github.com/lberndt/roomscout/internal/repo"
)

// Embedder produces embedding vectors for free text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Narrator is the LLM surface the services use. All prompts are built from
// structured engine output; the model phrases, it never computes.
type Narrator interface {
	CompareInsight(ctx context.Context, in llm.InsightInput) (string, error)
	CompletionBrief(ctx context.Context, in llm.BriefInput) (string, error)
	RecommendationNote(ctx context.Context, in llm.RecommendInput) (string, error)
	ScoreRoomStyle(ctx context.Context, room models.Room, style string) (float64, error)
	InterpretIntent(ctx context.Context, userText string) (models.Intent, error)
}

// NeighborFinder retrieves neighbor rooms for a seed.
type NeighborFinder interface {
	FindNeighbors(ctx context.Context, seed models.Room, filter models.SearchFilter, k int) ([]models.NeighborResult, error)
}

// RoomSource is the read-only room snapshot the services draw from.
type RoomSource interface {
	Room(id string) (models.Room, error)
	Rooms() []models.Room
	RoomsWithKeywords(tokens []string) []repo.Match
	VirtualSeed(itemIDs []string) (models.Room, error)
}

// EmbedText is what gets embedded for a room: the stored summary when
// present, otherwise a synthetic line built from the label and items. The
// index command embeds the same text at write time so query-time and
// index-time vectors come from identical input.
func EmbedText(room models.Room) string {
	if room.Summary != "" {
		return room.Summary
	}
	parts := []string{room.Title()}
	for _, it := range room.Items {
		parts = append(parts, it.Name, it.Brand)
		if name, known := it.Category.Name(); known {
			parts = append(parts, name)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
