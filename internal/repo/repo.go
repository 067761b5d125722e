// Package repo loads a chunk directory into a read-only in-memory snapshot.
//
// A chunk directory holds one JSON document per record, split into two
// subdirectories: room/<id>.json and item/<id>.json. Room documents reference
// their items by ID. The snapshot is built once per process and handed to the
// comparison and completion services; it is never mutated afterwards.
package repo

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lberndt/roomscout/internal/models"
)

// VirtualSeedID identifies a seed room assembled from item IDs instead of an
// existing room record.
const VirtualSeedID = "virtual-seed"

var (
	// ErrRoomNotFound is returned when a room ID is not in the snapshot.
	ErrRoomNotFound = errors.New("room not found")
	// ErrItemNotFound is returned when an item ID is not in the snapshot.
	ErrItemNotFound = errors.New("item not found")
	// ErrNoSeedItems is returned when a virtual seed resolves to zero items.
	ErrNoSeedItems = errors.New("no valid seed items")
)

// MalformedRecordError reports a chunk file that could not be decoded. The
// loader skips the record, logs a warning and keeps going; the error type
// exists so callers inspecting Skipped can tell what went wrong where.
type MalformedRecordError struct {
	Path string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record %s: %v", e.Path, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// chunkDoc mirrors the on-disk chunk format.
type chunkDoc struct {
	Type    string     `json:"type"`
	ID      string     `json:"id"`
	Attrs   chunkAttrs `json:"attrs"`
	Items   []string   `json:"items"`
	Summary string     `json:"summary"`
	Doc     string     `json:"doc"`
}

// chunkAttrs carries the attribute bag of a chunk. Category naming drifted
// over time in the source data, so both type_guess and category are read,
// type_guess first.
type chunkAttrs struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Role      string `json:"role"`
	Brand     string `json:"brand"`
	TypeGuess string `json:"type_guess"`
	Category  string `json:"category"`
}

// Match is a keyword-scan hit: the room plus the first item that matched.
type Match struct {
	Room       models.Room
	SampleItem models.Item
}

// Repository is a read-only snapshot of a chunk directory. Safe for
// concurrent use once Load returns.
type Repository struct {
	root    string
	rooms   map[string]models.Room
	items   map[string]models.Item
	order   []string
	skipped []*MalformedRecordError
}

// Load reads every room and item record under root. Individual malformed
// records are skipped with a warning; only a missing or unreadable directory
// fails the whole load.
func Load(root string, log *slog.Logger) (*Repository, error) {
	if log == nil {
		log = slog.Default()
	}
	r := &Repository{
		root:  root,
		rooms: map[string]models.Room{},
		items: map[string]models.Item{},
	}

	itemDocs, err := r.readDir("item", log)
	if err != nil {
		return nil, err
	}
	for _, d := range itemDocs {
		r.items[d.ID] = itemFromDoc(d)
	}

	roomDocs, err := r.readDir("room", log)
	if err != nil {
		return nil, err
	}
	for _, d := range roomDocs {
		room := r.roomFromDoc(d)
		r.rooms[room.RoomID] = room
		r.order = append(r.order, room.RoomID)
	}
	sort.Strings(r.order)

	log.Info("chunk repository loaded",
		"root", root,
		"rooms", len(r.rooms),
		"items", len(r.items),
		"skipped", len(r.skipped))
	return r, nil
}

func (r *Repository) readDir(kind string, log *slog.Logger) ([]chunkDoc, error) {
	dir := filepath.Join(r.root, kind)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s records: %w", kind, err)
	}

	var docs []chunkDoc
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			r.skip(path, err, log)
			continue
		}
		var d chunkDoc
		if err := json.Unmarshal(raw, &d); err != nil {
			r.skip(path, err, log)
			continue
		}
		if d.ID == "" {
			d.ID = strings.TrimSuffix(e.Name(), ".json")
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (r *Repository) skip(path string, err error, log *slog.Logger) {
	rec := &MalformedRecordError{Path: path, Err: err}
	r.skipped = append(r.skipped, rec)
	log.Warn("skipping malformed record", "path", path, "error", err)
}

func itemFromDoc(d chunkDoc) models.Item {
	category := d.Attrs.TypeGuess
	if category == "" {
		category = d.Attrs.Category
	}
	return models.Item{
		ItemID:   d.ID,
		Name:     d.Attrs.Name,
		Brand:    d.Attrs.Brand,
		Category: models.ParseCategory(category),
	}
}

func (r *Repository) roomFromDoc(d chunkDoc) models.Room {
	label := d.Attrs.Name
	if label == "" {
		label = d.Attrs.Label
	}
	if d.Attrs.Role != "" {
		label = strings.TrimSpace(label + " (" + d.Attrs.Role + ")")
	}

	room := models.Room{
		RoomID:    d.ID,
		Label:     label,
		Summary:   d.Summary,
		SourceURI: "room/" + d.ID + ".json",
	}
	for _, iid := range d.Items {
		it, ok := r.items[iid]
		if !ok {
			// Dangling reference; the room keeps its remaining items.
			continue
		}
		it.RoomID = d.ID
		room.Items = append(room.Items, it)
	}
	return room
}

// Room returns the room with the given ID.
func (r *Repository) Room(id string) (models.Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return models.Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return room, nil
}

// Rooms returns every room in ascending ID order.
func (r *Repository) Rooms() []models.Room {
	out := make([]models.Room, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rooms[id])
	}
	return out
}

// Item returns the item with the given ID.
func (r *Repository) Item(id string) (models.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return models.Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
	}
	return it, nil
}

// Skipped lists the records dropped during Load.
func (r *Repository) Skipped() []*MalformedRecordError {
	return r.skipped
}

// RoomsWithKeywords scans every room for items whose name, brand or category
// contains all of the given tokens. The sample item of each match is the
// first item that satisfied the tokens, cited as evidence.
func (r *Repository) RoomsWithKeywords(tokens []string) []Match {
	normalized := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			normalized = append(normalized, t)
		}
	}
	if len(normalized) == 0 {
		return nil
	}

	var out []Match
	for _, id := range r.order {
		room := r.rooms[id]
		for _, it := range room.Items {
			if itemMatches(it, normalized) {
				out = append(out, Match{Room: room, SampleItem: it})
				break
			}
		}
	}
	return out
}

func itemMatches(it models.Item, tokens []string) bool {
	category, _ := it.Category.Name()
	hay := strings.ToLower(it.Name + " " + it.Brand + " " + category)
	for _, t := range tokens {
		if !strings.Contains(hay, t) {
			return false
		}
	}
	return true
}

// VirtualSeed assembles a seed room from item IDs, for completion queries
// that start from a shopping list instead of an existing room. IDs may be
// bare ("AAA") or path-shaped ("item/AAA.json"); unknown IDs are dropped.
// At least one item must resolve.
func (r *Repository) VirtualSeed(itemIDs []string) (models.Room, error) {
	room := models.Room{
		RoomID: VirtualSeedID,
		Label:  "Virtual Seed",
	}
	for _, raw := range itemIDs {
		id := coerceItemID(raw)
		if id == "" {
			continue
		}
		it, ok := r.items[id]
		if !ok {
			continue
		}
		it.RoomID = VirtualSeedID
		room.Items = append(room.Items, it)
	}
	if len(room.Items) == 0 {
		return models.Room{}, ErrNoSeedItems
	}
	return room, nil
}

// TokenizeKeywords splits free text on commas and whitespace into lowercase
// scan tokens.
func TokenizeKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}

func coerceItemID(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".json")
	if i := strings.LastIndexByte(s, '/'); i >= 0 {
		s = s[i+1:]
	}
	return s
}
