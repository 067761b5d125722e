package models

// Item is a single furniture piece inside a room. Identity is ItemID, but
// item equality across rooms is decided by the normalized comparison key
// (see engine.NormalizeItem), because the same catalog item is re-instantiated
// with fresh IDs in every room that places it.
type Item struct {
	ItemID    string    `json:"item_id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Category  Category  `json:"category"`
	Embedding []float32 `json:"embedding,omitempty"`
	RoomID    string    `json:"parent_room_id,omitempty"`
}
