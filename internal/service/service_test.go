package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lberndt/roomscout/internal/models"
)

func TestEmbedTextPrefersSummary(t *testing.T) {
	room := testRoom("room:a", "Nordic Living Room", nil, testItem("sofa", "BrandX", "sofa"))
	room.Summary = "A calm nordic living room with a low sofa."

	assert.Equal(t, room.Summary, EmbedText(room))
}

func TestEmbedTextSyntheticFallback(t *testing.T) {
	room := testRoom("room:a", "Nordic Living Room", nil,
		testItem("Low Sofa", "BrandX", "sofa"),
		models.Item{ItemID: "item:mystery", Name: "Mystery Piece", Category: models.Unknown},
	)

	got := EmbedText(room)
	assert.Contains(t, got, "Nordic Living Room")
	assert.Contains(t, got, "Low Sofa")
	assert.Contains(t, got, "BrandX")
	assert.Contains(t, got, "sofa")
	assert.Contains(t, got, "Mystery Piece")
	assert.NotContains(t, got, "—", "an unknown category leaves no placeholder in the text")
}
