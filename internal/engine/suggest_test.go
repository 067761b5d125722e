package engine

import (
	"testing"

	"github.com/lberndt/roomscout/internal/models"
)

func neighbor(id string, sim float64, items ...models.Item) models.NeighborResult {
	for i := range items {
		items[i].ItemID = "item:" + id + ":" + items[i].Name
		items[i].RoomID = id
	}
	return models.NeighborResult{
		Room:       models.Room{RoomID: id, Label: id, Items: items},
		Similarity: sim,
	}
}

func TestSuggestScenario(t *testing.T) {
	// Three neighbors carry (BrandX, lighting), one carries (BrandY,
	// lighting); the seed has no lighting at all.
	seed := models.Room{RoomID: "room:seed", Items: []models.Item{
		item("sofa", "BrandX", "sofa"),
	}}
	neighbors := []models.NeighborResult{
		neighbor("room:n1", 0.95, item("arc lamp", "BrandX", "lighting")),
		neighbor("room:n2", 0.90, item("desk lamp", "BrandX", "lighting"), item("spot", "BrandY", "lighting")),
		neighbor("room:n3", 0.85, item("floor lamp", "BrandX", "lighting")),
	}

	got := Suggest(SeedPairs(seed), neighbors, 1)
	if len(got) != 1 {
		t.Fatalf("Suggest() returned %d candidates, want 1", len(got))
	}
	c := got[0]
	if c.Brand != "brandx" || c.Category.String() != "lighting" {
		t.Errorf("top candidate = %s×%s, want brandx×lighting", c.Brand, c.Category)
	}
	if c.SupportCount != 3 {
		t.Errorf("support = %d, want 3", c.SupportCount)
	}
	if c.Representative == nil || c.Representative.Name != "arc lamp" {
		t.Errorf("representative should come from the closest neighbor, got %+v", c.Representative)
	}
	if len(c.Citations) != 3 || c.Citations[0].RoomID != "room:n1" {
		t.Errorf("citations = %+v, want 3 entries starting at room:n1", c.Citations)
	}
}

func TestSuggestExcludesSeedPairs(t *testing.T) {
	seed := models.Room{RoomID: "room:seed", Items: []models.Item{
		item("old sofa", "BrandX", "sofa"),
	}}
	neighbors := []models.NeighborResult{
		neighbor("room:n1", 0.9,
			item("new sofa", "BrandX", "sofa"), // same pair, different name
			item("lamp", "BrandY", "lighting"),
		),
	}

	got := Suggest(SeedPairs(seed), neighbors, 0)
	for _, c := range got {
		if c.Brand == "brandx" && c.Category.String() == "sofa" {
			t.Errorf("candidate %s×%s is already in the seed", c.Brand, c.Category)
		}
	}
	if len(got) != 1 {
		t.Fatalf("Suggest() returned %d candidates, want 1", len(got))
	}
}

func TestSuggestPerRoomCounting(t *testing.T) {
	// Five identical chairs in one room count once.
	seed := models.Room{RoomID: "room:seed", Items: []models.Item{item("sofa", "BrandX", "sofa")}}
	crowded := neighbor("room:n1", 0.9,
		item("chair", "BrandY", "chair"),
		item("chair", "BrandY", "chair"),
		item("chair", "BrandY", "chair"),
		item("chair", "BrandY", "chair"),
		item("chair", "BrandY", "chair"),
	)
	twoRooms := []models.NeighborResult{
		crowded,
		neighbor("room:n2", 0.8, item("lamp", "BrandZ", "lighting")),
		neighbor("room:n3", 0.7, item("spot", "BrandZ", "lighting")),
	}

	got := Suggest(SeedPairs(seed), twoRooms, 0)
	if len(got) != 2 {
		t.Fatalf("Suggest() returned %d candidates, want 2", len(got))
	}
	// (BrandZ, lighting) appears in two rooms and must outrank the
	// five-chair room.
	if got[0].Brand != "brandz" {
		t.Errorf("top candidate = %s, want brandz (support 2 beats item count 5)", got[0].Brand)
	}
	if got[0].SupportCount != 2 || got[1].SupportCount != 1 {
		t.Errorf("supports = %d,%d want 2,1", got[0].SupportCount, got[1].SupportCount)
	}
}

func TestSuggestSupportNonIncreasing(t *testing.T) {
	seed := models.Room{RoomID: "room:seed", Items: []models.Item{item("sofa", "BrandX", "sofa")}}
	neighbors := []models.NeighborResult{
		neighbor("room:n1", 0.9, item("lamp", "A", "lighting"), item("rug", "B", "rug")),
		neighbor("room:n2", 0.8, item("lamp", "A", "lighting"), item("table", "C", "table")),
		neighbor("room:n3", 0.7, item("lamp", "A", "lighting"), item("rug", "B", "rug")),
	}

	got := Suggest(SeedPairs(seed), neighbors, 0)
	for i := 1; i < len(got); i++ {
		if got[i].SupportCount > got[i-1].SupportCount {
			t.Fatalf("support increased at rank %d: %d > %d", i, got[i].SupportCount, got[i-1].SupportCount)
		}
	}
}

func TestSuggestTieBreaks(t *testing.T) {
	seed := models.Room{RoomID: "room:seed", Items: []models.Item{item("sofa", "X", "sofa")}}

	t.Run("closest neighbor wins", func(t *testing.T) {
		neighbors := []models.NeighborResult{
			neighbor("room:n1", 0.9, item("rug", "Zeta", "rug")),
			neighbor("room:n2", 0.8, item("lamp", "Alpha", "lighting")),
		}
		got := Suggest(SeedPairs(seed), neighbors, 0)
		if got[0].Brand != "zeta" {
			t.Errorf("first-seen rank should beat lexical order, got %s first", got[0].Brand)
		}
	})

	t.Run("lexical among same rank", func(t *testing.T) {
		neighbors := []models.NeighborResult{
			neighbor("room:n1", 0.9, item("rug", "Zeta", "rug"), item("lamp", "Alpha", "lighting")),
		}
		got := Suggest(SeedPairs(seed), neighbors, 0)
		if got[0].Brand != "alpha" {
			t.Errorf("same support and rank should fall back to lexical, got %s first", got[0].Brand)
		}
	})
}

func TestSuggestZeroNeighbors(t *testing.T) {
	seed := models.Room{RoomID: "room:seed", Items: []models.Item{item("sofa", "BrandX", "sofa")}}
	got := Suggest(SeedPairs(seed), nil, 5)
	if len(got) != 0 {
		t.Errorf("Suggest() with no neighbors = %d candidates, want 0", len(got))
	}
}

func TestSuggestSkipsGenericPairs(t *testing.T) {
	seed := models.Room{RoomID: "room:seed", Items: []models.Item{item("sofa", "BrandX", "sofa")}}
	neighbors := []models.NeighborResult{
		neighbor("room:n1", 0.9, item("mystery", "", "")),
	}
	if got := Suggest(SeedPairs(seed), neighbors, 0); len(got) != 0 {
		t.Errorf("generic pairs must not become suggestions, got %+v", got)
	}
}

func TestSuggestMultiSeedUnion(t *testing.T) {
	seedA := models.Room{RoomID: "room:s1", Items: []models.Item{item("sofa", "BrandX", "sofa")}}
	seedB := models.Room{RoomID: "room:s2", Items: []models.Item{item("lamp", "BrandY", "lighting")}}
	neighbors := []models.NeighborResult{
		neighbor("room:n1", 0.9,
			item("other sofa", "BrandX", "sofa"),
			item("other lamp", "BrandY", "lighting"),
			item("rug", "BrandZ", "rug"),
		),
	}

	got := Suggest(SeedPairs(seedA, seedB), neighbors, 0)
	if len(got) != 1 || got[0].Brand != "brandz" {
		t.Errorf("union seed should exclude both seed pairs, got %+v", got)
	}
}
