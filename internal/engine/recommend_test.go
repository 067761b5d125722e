package engine

import (
	"errors"
	"testing"
)

func TestRecommendStyleAlignmentWins(t *testing.T) {
	styleRef := []float32{1, 0}
	a := room("room:a", []float32{1, 0}, item("sofa", "BrandX", "sofa"))
	b := room("room:b", []float32{0, 1}, item("sofa", "BrandX", "sofa"))

	rec, err := Recommend(a, b, styleRef, DefaultWeights())
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if rec.Winner != "room:a" {
		t.Errorf("winner = %s, want room:a (aligned with style)", rec.Winner)
	}
	if rec.A.StyleCosine <= rec.B.StyleCosine {
		t.Errorf("signals inconsistent: %f <= %f", rec.A.StyleCosine, rec.B.StyleCosine)
	}
}

func TestRecommendPrefersConcentratedRoom(t *testing.T) {
	// Equal style alignment; the sprawling room loses.
	styleRef := []float32{1, 0}
	curated := room("room:curated", []float32{1, 0},
		item("sofa", "BrandX", "sofa"),
		item("lamp", "BrandX", "lighting"),
	)
	sprawl := room("room:sprawl", []float32{1, 0},
		item("sofa", "BrandX", "sofa"),
		item("lamp", "BrandX", "lighting"),
		item("rug", "BrandY", "rug"),
		item("table", "BrandZ", "table"),
		item("vase", "BrandW", "decor"),
	)

	rec, err := Recommend(curated, sprawl, styleRef, DefaultWeights())
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if rec.Winner != "room:curated" {
		t.Errorf("winner = %s, want room:curated", rec.Winner)
	}
}

func TestRecommendSymmetric(t *testing.T) {
	styleRef := []float32{0.7, 0.3}
	a := room("room:a", []float32{0.9, 0.1},
		item("sofa", "BrandX", "sofa"),
		item("lamp", "BrandY", "lighting"),
	)
	b := room("room:b", []float32{0.4, 0.6},
		item("chair", "BrandZ", "chair"),
	)

	ab, err := Recommend(a, b, styleRef, DefaultWeights())
	if err != nil {
		t.Fatalf("Recommend(a,b) error = %v", err)
	}
	ba, err := Recommend(b, a, styleRef, DefaultWeights())
	if err != nil {
		t.Fatalf("Recommend(b,a) error = %v", err)
	}
	if ab.Winner != ba.Winner {
		t.Errorf("winner depends on argument order: %s vs %s", ab.Winner, ba.Winner)
	}
}

func TestRecommendTieBrokenByConcentration(t *testing.T) {
	styleRef := []float32{1, 0}
	// Same embedding, same distinct count; only brand concentration differs.
	focused := room("room:focused", []float32{1, 0},
		item("sofa", "BrandX", "sofa"),
		item("lamp", "BrandX", "lighting"),
	)
	scattered := room("room:scattered", []float32{1, 0},
		item("chair", "BrandY", "chair"),
		item("rug", "BrandZ", "rug"),
	)

	rec, err := Recommend(scattered, focused, styleRef, DefaultWeights())
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !rec.Tie {
		t.Errorf("expected a tie broken by concentration")
	}
	if rec.Winner != "room:focused" {
		t.Errorf("winner = %s, want room:focused", rec.Winner)
	}
}

func TestRecommendErrors(t *testing.T) {
	styleRef := []float32{1, 0}
	full := room("room:a", []float32{1, 0}, item("sofa", "BrandX", "sofa"))

	t.Run("empty room", func(t *testing.T) {
		empty := room("room:empty", []float32{1, 0})
		if _, err := Recommend(full, empty, styleRef, DefaultWeights()); !errors.Is(err, ErrEmptyRoom) {
			t.Errorf("expected ErrEmptyRoom, got %v", err)
		}
	})

	t.Run("degenerate style reference", func(t *testing.T) {
		other := room("room:b", []float32{0, 1}, item("chair", "BrandY", "chair"))
		if _, err := Recommend(full, other, []float32{0, 0}, DefaultWeights()); !errors.Is(err, ErrDegenerateVector) {
			t.Errorf("expected ErrDegenerateVector, got %v", err)
		}
	})
}
