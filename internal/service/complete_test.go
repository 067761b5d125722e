package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lberndt/roomscout/internal/engine"
	"github.com/lberndt/roomscout/internal/models"
	"github.com/lberndt/roomscout/internal/repo"
)

func TestCompleteRoomFromStore(t *testing.T) {
	seed := testRoom("room:seed", "Seed", []float32{1, 0}, testItem("sofa", "BrandX", "sofa"))
	neighbor := testRoom("room:n1", "N1", nil,
		testItem("sofa", "BrandX", "sofa"),
		testItem("floor lamp", "BrandY", "lighting"),
	)
	rooms := newStubRooms(seed, neighbor)
	finder := &stubFinder{neighbors: []models.NeighborResult{{Room: neighbor, Similarity: 0.9, SharedKeyCount: 1}}}
	svc := NewCompleteService(rooms, nil, finder, nil, nil, nil)

	got, err := svc.CompleteRoom(context.Background(), CompleteOptions{RoomID: "room:seed"})
	require.NoError(t, err)

	assert.Equal(t, 1, finder.calls)
	assert.False(t, got.Mined)
	assert.Equal(t, "room:seed", got.SeedID)
	require.Len(t, got.Suggestions, 1, "only the pair missing from the seed should surface")
	s := got.Suggestions[0]
	assert.Equal(t, "brandy", s.Brand)
	assert.Equal(t, 1, s.SupportCount)
	require.Len(t, s.Citations, 1)
	assert.Equal(t, "room:n1", s.Citations[0].RoomID)
}

func TestCompleteRoomVirtualSeed(t *testing.T) {
	rooms := newStubRooms()
	rooms.seed = models.Room{
		RoomID: repo.VirtualSeedID,
		Label:  "virtual seed",
		Items:  []models.Item{testItem("sofa", "BrandX", "sofa")},
	}
	svc := NewCompleteService(rooms, nil, nil, nil, nil, nil)

	got, err := svc.CompleteRoom(context.Background(), CompleteOptions{FromItems: []string{"AAA", "BBB"}})
	require.NoError(t, err)

	require.Len(t, rooms.seedCalls, 1)
	assert.Equal(t, []string{"AAA", "BBB"}, rooms.seedCalls[0])
	assert.Equal(t, repo.VirtualSeedID, got.SeedID)
	assert.True(t, got.Mined, "no vector store configured means mining")
}

func TestCompleteRoomSeedValidation(t *testing.T) {
	svc := NewCompleteService(newStubRooms(), nil, nil, nil, nil, nil)

	_, err := svc.CompleteRoom(context.Background(), CompleteOptions{RoomID: "room:a", FromItems: []string{"AAA"}})
	assert.Error(t, err, "a room ID and an item list together are ambiguous")

	_, err = svc.CompleteRoom(context.Background(), CompleteOptions{})
	assert.Error(t, err, "some seed is required")
}

func TestCompleteRoomEmptySeed(t *testing.T) {
	rooms := newStubRooms(testRoom("room:empty", "Empty", nil))
	svc := NewCompleteService(rooms, nil, nil, nil, nil, nil)

	_, err := svc.CompleteRoom(context.Background(), CompleteOptions{RoomID: "room:empty"})
	assert.ErrorIs(t, err, engine.ErrEmptyRoom)
}

func TestCompleteRoomOfflineMines(t *testing.T) {
	seed := testRoom("room:seed", "Seed", []float32{1, 0}, testItem("sofa", "BrandX", "sofa"))
	neighbor := testRoom("room:n1", "N1", nil,
		testItem("sofa", "BrandX", "sofa"),
		testItem("rug", "BrandZ", "rug"),
	)
	rooms := newStubRooms(seed, neighbor)
	finder := &stubFinder{}
	svc := NewCompleteService(rooms, nil, finder, nil, nil, nil)

	got, err := svc.CompleteRoom(context.Background(), CompleteOptions{RoomID: "room:seed", Offline: true})
	require.NoError(t, err)

	assert.Zero(t, finder.calls, "offline completion must not touch the store")
	assert.True(t, got.Mined)
	require.Len(t, got.Neighbors, 1)
	assert.Equal(t, "room:n1", got.Neighbors[0].Room.RoomID)
	require.Len(t, got.Suggestions, 1)
	assert.Equal(t, "brandz", got.Suggestions[0].Brand)
}

func TestCompleteRoomRetrievalFailureFallsBack(t *testing.T) {
	seed := testRoom("room:seed", "Seed", []float32{1, 0}, testItem("sofa", "BrandX", "sofa"))
	neighbor := testRoom("room:n1", "N1", nil,
		testItem("sofa", "BrandX", "sofa"),
		testItem("lamp", "BrandY", "lighting"),
	)
	rooms := newStubRooms(seed, neighbor)
	finder := &stubFinder{err: errors.New("store down")}
	svc := NewCompleteService(rooms, nil, finder, nil, nil, nil)

	got, err := svc.CompleteRoom(context.Background(), CompleteOptions{RoomID: "room:seed"})
	require.NoError(t, err, "retrieval failure must fall back to mining")

	assert.Equal(t, 1, finder.calls)
	assert.True(t, got.Mined)
	require.Len(t, got.Neighbors, 1)
}

func TestCompleteRoomBrief(t *testing.T) {
	seed := testRoom("room:seed", "Seed", []float32{1, 0}, testItem("sofa", "BrandX", "sofa"))
	neighbor := testRoom("room:n1", "N1", nil, testItem("lamp", "BrandY", "lighting"))
	rooms := newStubRooms(seed, neighbor)
	finder := &stubFinder{neighbors: []models.NeighborResult{{Room: neighbor, Similarity: 0.8}}}
	narrator := &stubNarrator{brief: "add a warm floor lamp"}
	svc := NewCompleteService(rooms, nil, finder, narrator, nil, nil)

	got, err := svc.CompleteRoom(context.Background(), CompleteOptions{
		RoomID: "room:seed",
		Style:  "scandinavian",
		Hint:   "reading corner",
		Brief:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, "add a warm floor lamp", got.Brief)
	require.NotNil(t, narrator.lastBrief)
	assert.Equal(t, "Seed", narrator.lastBrief.SeedTitle)
	assert.Equal(t, "scandinavian", narrator.lastBrief.Style)
	assert.Equal(t, "reading corner", narrator.lastBrief.Hint)
	assert.Equal(t, got.Suggestions, narrator.lastBrief.Suggestions)
}
