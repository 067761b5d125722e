package engine

import (
	"strings"

	"github.com/lberndt/roomscout/internal/models"
)

// ItemKey is the canonical comparison key for an item: lowercased, trimmed
// (name, brand, category). Two items are "the same" for overlap purposes iff
// their keys are equal, regardless of item ID.
type ItemKey struct {
	Name     string
	Brand    string
	Category models.Category
}

// PairKey is the coarser (brand, category) key used for relaxed overlap and
// completion suggestions. It ignores the item name so that differently named
// pieces from the same brand and category still match.
type PairKey struct {
	Brand    string
	Category models.Category
}

// Pair widens an item key to its (brand, category) pair.
func (k ItemKey) Pair() PairKey {
	return PairKey{Brand: k.Brand, Category: k.Category}
}

// generic reports whether the pair carries no signal at all (no brand and no
// known category). Such pairs are noise and excluded from relaxed matching
// and suggestions.
func (p PairKey) generic() bool {
	return p.Brand == "" && p.Category.IsUnknown()
}

// NormalizeItem builds the comparison key for an item. Total over any item
// shape: missing fields default to the empty string and placeholder
// categories fold into the Unknown sentinel.
func NormalizeItem(it models.Item) ItemKey {
	name, _ := it.Category.Name()
	return ItemKey{
		Name:     norm(it.Name),
		Brand:    norm(it.Brand),
		Category: models.ParseCategory(name),
	}
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Keys returns the distinct comparison keys of an item list.
func Keys(items []models.Item) map[ItemKey]struct{} {
	out := make(map[ItemKey]struct{}, len(items))
	for _, it := range items {
		out[NormalizeItem(it)] = struct{}{}
	}
	return out
}

// PairKeys returns the distinct (brand, category) pairs of an item list.
// The fully-generic pair (no brand, unknown category) is kept here so that
// relaxed overlap is a true coarsening of exact overlap; suggestion mining
// filters it out separately.
func PairKeys(items []models.Item) map[PairKey]struct{} {
	out := make(map[PairKey]struct{}, len(items))
	for _, it := range items {
		out[NormalizeItem(it).Pair()] = struct{}{}
	}
	return out
}
