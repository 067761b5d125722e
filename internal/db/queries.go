package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/lberndt/roomscout/internal/models"
)

// roomRow mirrors the room table shape. Items are stored inline so one hit
// hydrates a full room.
type roomRow struct {
	ID         *surrealmodels.RecordID `json:"id,omitempty"`
	Label      string                  `json:"label"`
	Summary    string                  `json:"summary,omitempty"`
	SourceURI  string                  `json:"source_uri,omitempty"`
	Embedding  []float32               `json:"embedding"`
	Items      []itemRow               `json:"items"`
	Searchable string                  `json:"searchable"`
}

// scoredRoomRow is a roomRow plus the similarity computed by the store.
type scoredRoomRow struct {
	roomRow
	Score float64 `json:"score"`
}

type itemRow struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Category *string `json:"category"`
}

func rowFromRoom(room models.Room) roomRow {
	row := roomRow{
		Label:     room.Label,
		Summary:   room.Summary,
		SourceURI: room.SourceURI,
		Embedding: room.SummaryEmbedding,
	}
	var searchable []string
	searchable = append(searchable, room.Label)
	for _, it := range room.Items {
		row.Items = append(row.Items, itemRow{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Brand:    it.Brand,
			Category: it.Category.Ptr(),
		})
		searchable = append(searchable, it.Name, it.Brand)
		if name, known := it.Category.Name(); known {
			searchable = append(searchable, name)
		}
	}
	row.Searchable = strings.ToLower(strings.Join(searchable, " "))
	return row
}

func (r roomRow) toRoom() (models.Room, error) {
	if r.ID == nil {
		return models.Room{}, fmt.Errorf("room row without record ID")
	}
	id, ok := r.ID.ID.(string)
	if !ok {
		return models.Room{}, fmt.Errorf("unexpected record ID type: %T", r.ID.ID)
	}
	room := models.Room{
		RoomID:           id,
		Label:            r.Label,
		Summary:          r.Summary,
		SourceURI:        r.SourceURI,
		SummaryEmbedding: r.Embedding,
	}
	for _, ir := range r.Items {
		room.Items = append(room.Items, models.Item{
			ItemID:   ir.ItemID,
			Name:     ir.Name,
			Brand:    ir.Brand,
			Category: models.CategoryFromPtr(ir.Category),
			RoomID:   id,
		})
	}
	return room, nil
}

// UpsertRoom creates or updates a room row keyed by its room ID.
func (c *Client) UpsertRoom(ctx context.Context, room models.Room) error {
	row := rowFromRoom(room)

	sql := `
		UPSERT type::record("room", $id) SET
			label = $label,
			summary = $summary,
			source_uri = $source_uri,
			embedding = $embedding,
			items = $items,
			searchable = $searchable,
			updated = time::now()
		RETURN NONE
	`
	_, err := surrealdb.Query[any](ctx, c.db, sql, map[string]any{
		"id":         room.RoomID,
		"label":      row.Label,
		"summary":    row.Summary,
		"source_uri": row.SourceURI,
		"embedding":  row.Embedding,
		"items":      row.Items,
		"searchable": row.Searchable,
	})
	if err != nil {
		return fmt.Errorf("upsert room: %w", wrapQueryError(err))
	}
	return nil
}

// GetRoom retrieves a room by ID. Returns ErrNotFound when absent.
func (c *Client) GetRoom(ctx context.Context, id string) (models.Room, error) {
	results, err := surrealdb.Query[[]roomRow](ctx, c.db, `
		SELECT * FROM type::record("room", $id)
	`, map[string]any{"id": id})
	if err != nil {
		return models.Room{}, fmt.Errorf("get room: %w", wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return models.Room{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return (*results)[0].Result[0].toRoom()
}

// CountRooms returns the number of indexed rooms.
func (c *Client) CountRooms(ctx context.Context) (int, error) {
	results, err := surrealdb.Query[[]struct {
		C int `json:"c"`
	}](ctx, c.db, `SELECT count() AS c FROM room GROUP ALL`, nil)
	if err != nil {
		return 0, fmt.Errorf("count rooms: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return 0, nil
	}
	return (*results)[0].Result[0].C, nil
}

// NearestRooms runs a nearest-neighbor query over room summary embeddings.
// Raw chunk-level hits come back ordered by descending similarity; the
// retrieval layer dedupes and re-ranks. Filters narrow by BM25 keyword match
// on the searchable text, by label substring and by item category. Errors
// wrap ErrRetrievalUnavailable so callers can degrade.
func (c *Client) NearestRooms(ctx context.Context, embedding []float32, filter models.SearchFilter, limit int) ([]models.RoomHit, error) {
	if limit <= 0 {
		limit = 10
	}

	keywordClause := ""
	labelClause := ""
	categoryClause := ""
	vars := map[string]any{
		"emb":   embedding,
		"limit": limit,
	}
	if len(filter.Keywords) > 0 {
		keywordClause = "AND searchable @0@ $q"
		vars["q"] = strings.ToLower(strings.Join(filter.Keywords, " "))
	}
	if filter.Label != "" {
		labelClause = "AND string::lowercase(label) CONTAINS $label"
		vars["label"] = strings.ToLower(filter.Label)
	}
	if filter.Category != "" {
		categoryClause = "AND items.category CONTAINS $category"
		vars["category"] = strings.ToLower(filter.Category)
	}

	// HNSW with ef=40 for better recall
	sql := fmt.Sprintf(`
		SELECT *, vector::similarity::cosine(embedding, $emb) AS score
		FROM room
		WHERE embedding <|%d,40|> $emb %s %s %s
		ORDER BY score DESC
		LIMIT $limit
	`, limit, keywordClause, labelClause, categoryClause)

	results, err := surrealdb.Query[[]scoredRoomRow](ctx, c.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrievalUnavailable, wrapQueryError(err))
	}

	if results == nil || len(*results) == 0 {
		return []models.RoomHit{}, nil
	}

	hits := make([]models.RoomHit, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		room, err := row.toRoom()
		if err != nil {
			return nil, fmt.Errorf("nearest rooms: %w", err)
		}
		hits = append(hits, models.RoomHit{Room: room, Score: row.Score})
	}
	return hits, nil
}

// ListRooms returns all indexed rooms in ascending ID order.
func (c *Client) ListRooms(ctx context.Context) ([]models.Room, error) {
	results, err := surrealdb.Query[[]roomRow](ctx, c.db, `SELECT * FROM room ORDER BY id`, nil)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", wrapQueryError(err))
	}
	if results == nil || len(*results) == 0 {
		return []models.Room{}, nil
	}
	rooms := make([]models.Room, 0, len((*results)[0].Result))
	for _, row := range (*results)[0].Result {
		room, err := row.toRoom()
		if err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}
