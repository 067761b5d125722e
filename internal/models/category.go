package models

import (
	"encoding/json"
	"strings"
)

// Category is the item category as a tagged variant: either a known,
// canonicalized category name or the single Unknown sentinel. Records use a
// variety of markers for "no category" ("", "none", "n/a", ...); all of them
// collapse to Unknown so that uncategorized items compare equal to each other
// but never to a named category.
type Category struct {
	name  string
	known bool
}

// placeholderCategories are markers that mean "no category" in source records.
var placeholderCategories = map[string]struct{}{
	"":        {},
	"-":       {},
	"—":       {},
	"none":    {},
	"null":    {},
	"n/a":     {},
	"unknown": {},
}

// Unknown is the canonical "no category" value.
var Unknown = Category{}

// KnownCategory builds a Category from an already-canonical name.
// Empty names yield Unknown.
func KnownCategory(name string) Category {
	return ParseCategory(name)
}

// ParseCategory canonicalizes a raw category string: trims, lowercases and
// folds placeholder markers into Unknown. Total over any input.
func ParseCategory(raw string) Category {
	name := strings.ToLower(strings.TrimSpace(raw))
	if _, ok := placeholderCategories[name]; ok {
		return Unknown
	}
	return Category{name: name, known: true}
}

// CategoryFromPtr converts a nullable string (db/JSON payloads) to a Category.
func CategoryFromPtr(raw *string) Category {
	if raw == nil {
		return Unknown
	}
	return ParseCategory(*raw)
}

// Name returns the category name and whether it is known.
func (c Category) Name() (string, bool) {
	return c.name, c.known
}

// IsUnknown reports whether this is the Unknown sentinel.
func (c Category) IsUnknown() bool {
	return !c.known
}

// String renders the category for display; Unknown renders as "—",
// matching how the source exports print missing fields.
func (c Category) String() string {
	if !c.known {
		return "—"
	}
	return c.name
}

// Ptr returns the category as a nullable string for db/JSON payloads.
func (c Category) Ptr() *string {
	if !c.known {
		return nil
	}
	name := c.name
	return &name
}

// MarshalJSON encodes known categories as strings and Unknown as null.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Ptr())
}

// UnmarshalJSON accepts a string or null.
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CategoryFromPtr(raw)
	return nil
}
