package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/lberndt/roomscout/internal/models"
)

type stubSearcher struct {
	hits []models.RoomHit
	err  error
	last struct {
		limit  int
		filter models.SearchFilter
	}
}

func (s *stubSearcher) NearestRooms(_ context.Context, _ []float32, filter models.SearchFilter, limit int) ([]models.RoomHit, error) {
	s.last.limit = limit
	s.last.filter = filter
	return s.hits, s.err
}

func hit(id string, score float64, items ...models.Item) models.RoomHit {
	return models.RoomHit{
		Room:  models.Room{RoomID: id, Label: id, Items: items},
		Score: score,
	}
}

func seedRoom(items ...models.Item) models.Room {
	return models.Room{
		RoomID:           "room:seed",
		Items:            items,
		SummaryEmbedding: []float32{1, 0},
	}
}

func sofa() models.Item {
	return models.Item{Name: "sofa", Brand: "BrandX", Category: models.ParseCategory("sofa")}
}

func lamp() models.Item {
	return models.Item{Name: "lamp", Brand: "BrandY", Category: models.ParseCategory("lighting")}
}

func TestFindNeighborsDedupesKeepingBestScore(t *testing.T) {
	s := &stubSearcher{hits: []models.RoomHit{
		hit("room:a", 0.70),
		hit("room:a", 0.90),
		hit("room:b", 0.80),
	}}
	r := New(s, 3, nil)

	got, err := r.FindNeighbors(context.Background(), seedRoom(sofa()), models.SearchFilter{}, 5)
	if err != nil {
		t.Fatalf("FindNeighbors() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("neighbors = %d, want 2", len(got))
	}
	if got[0].Room.RoomID != "room:a" || got[0].Similarity != 0.90 {
		t.Errorf("dedupe should keep the best score, got %+v", got[0])
	}
	if s.last.limit != 15 {
		t.Errorf("overfetch limit = %d, want 15", s.last.limit)
	}
}

func TestFindNeighborsExcludesSeed(t *testing.T) {
	s := &stubSearcher{hits: []models.RoomHit{
		hit("room:seed", 1.0),
		hit("room:a", 0.5),
	}}
	r := New(s, 2, nil)

	got, err := r.FindNeighbors(context.Background(), seedRoom(sofa()), models.SearchFilter{}, 5)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range got {
		if n.Room.RoomID == "room:seed" {
			t.Errorf("seed must not appear among its own neighbors")
		}
	}
}

func TestFindNeighborsOrdering(t *testing.T) {
	s := &stubSearcher{hits: []models.RoomHit{
		hit("room:c", 0.8),
		hit("room:a", 0.8),
		hit("room:b", 0.9),
	}}
	r := New(s, 2, nil)

	got, err := r.FindNeighbors(context.Background(), seedRoom(sofa()), models.SearchFilter{}, 5)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"room:b", "room:a", "room:c"}
	for i, id := range want {
		if got[i].Room.RoomID != id {
			t.Errorf("rank %d = %s, want %s", i, got[i].Room.RoomID, id)
		}
	}
}

func TestFindNeighborsTruncatesToK(t *testing.T) {
	s := &stubSearcher{hits: []models.RoomHit{
		hit("room:a", 0.9),
		hit("room:b", 0.8),
		hit("room:c", 0.7),
	}}
	r := New(s, 2, nil)

	got, err := r.FindNeighbors(context.Background(), seedRoom(sofa()), models.SearchFilter{}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("neighbors = %d, want 2", len(got))
	}
}

func TestFindNeighborsShortResultIsSuccess(t *testing.T) {
	s := &stubSearcher{hits: []models.RoomHit{hit("room:a", 0.9)}}
	r := New(s, 2, nil)

	got, err := r.FindNeighbors(context.Background(), seedRoom(sofa()), models.SearchFilter{}, 10)
	if err != nil {
		t.Fatalf("fewer results than k must not error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("neighbors = %d, want 1", len(got))
	}
}

func TestFindNeighborsSharedKeyCount(t *testing.T) {
	s := &stubSearcher{hits: []models.RoomHit{
		hit("room:a", 0.9, sofa(), lamp()),
	}}
	r := New(s, 2, nil)

	got, err := r.FindNeighbors(context.Background(), seedRoom(sofa()), models.SearchFilter{}, 5)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].SharedKeyCount != 1 {
		t.Errorf("shared keys = %d, want 1", got[0].SharedKeyCount)
	}
}

func TestFindNeighborsPropagatesSearcherError(t *testing.T) {
	wantErr := errors.New("store down")
	r := New(&stubSearcher{err: wantErr}, 2, nil)

	if _, err := r.FindNeighbors(context.Background(), seedRoom(sofa()), models.SearchFilter{}, 5); !errors.Is(err, wantErr) {
		t.Errorf("expected searcher error, got %v", err)
	}
}

func TestFindNeighborsNoEmbedding(t *testing.T) {
	r := New(&stubSearcher{}, 2, nil)
	seed := models.Room{RoomID: "room:seed", Items: []models.Item{sofa()}}

	if _, err := r.FindNeighbors(context.Background(), seed, models.SearchFilter{}, 5); err == nil {
		t.Fatal("expected an error for a seed without embedding")
	}
}

func TestMineNeighbors(t *testing.T) {
	seed := seedRoom(sofa(), lamp())
	candidates := []models.Room{
		{RoomID: "room:both", Items: []models.Item{sofa(), lamp()}},
		{RoomID: "room:one", Items: []models.Item{sofa(), {Name: "rug", Brand: "BrandZ", Category: models.ParseCategory("rug")}}},
		{RoomID: "room:none", Items: []models.Item{{Name: "desk", Brand: "BrandQ", Category: models.ParseCategory("desk")}}},
		{RoomID: "room:seed", Items: []models.Item{sofa()}},
	}

	got := MineNeighbors(seed, candidates, 10)
	if len(got) != 2 {
		t.Fatalf("neighbors = %d, want 2 (no-overlap and seed excluded)", len(got))
	}
	if got[0].Room.RoomID != "room:both" {
		t.Errorf("highest pair overlap should rank first, got %s", got[0].Room.RoomID)
	}
	if got[0].Similarity != 1.0 {
		t.Errorf("identical pair sets should score 1.0, got %f", got[0].Similarity)
	}
	if got[1].SharedKeyCount != 1 {
		t.Errorf("shared pairs = %d, want 1", got[1].SharedKeyCount)
	}
}