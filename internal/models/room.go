// Package models defines the data structures of the room comparison and
// completion engine: rooms, items, retrieval results and query intent.
package models

// Room is a read-only snapshot of an interior-design room record.
// Label is free text and may be the generic placeholder "room" when the true
// room type was never resolved; consumers must not treat the placeholder as a
// real room type.
type Room struct {
	RoomID           string    `json:"room_id"`
	Label            string    `json:"label"`
	Items            []Item    `json:"items"`
	Summary          string    `json:"summary,omitempty"`
	SummaryEmbedding []float32 `json:"summary_embedding,omitempty"`
	SourceURI        string    `json:"source_uri,omitempty"`
}

// Title renders a short human-readable name for the room.
func (r Room) Title() string {
	if r.Label != "" {
		return r.Label
	}
	return r.RoomID
}

// NeighborResult is one hit from nearest-neighbor retrieval against a seed
// room. Ordering contract: similarity descending, ties broken by ascending
// RoomID.
type NeighborResult struct {
	Room           Room    `json:"room"`
	Similarity     float64 `json:"similarity"`
	SharedKeyCount int     `json:"shared_key_count"`
}

// RoomHit is a raw chunk-level hit from the vector store, before the
// retriever deduplicates and re-ranks. Score is the store's similarity.
type RoomHit struct {
	Room  Room    `json:"room"`
	Score float64 `json:"score"`
}

// SearchFilter narrows vector-store retrieval. Keywords must all match the
// room's searchable text; Label and Category restrict payload fields.
type SearchFilter struct {
	Keywords []string `json:"keywords,omitempty"`
	Label    string   `json:"label,omitempty"`
	Category string   `json:"category,omitempty"`
}

// Intent is the structured output of the natural-language query interpreter.
type Intent struct {
	Keywords []string `json:"keywords"`
	Style    string   `json:"style,omitempty"`
	K        int      `json:"k"`
}
