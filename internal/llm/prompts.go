package llm

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/lberndt/roomscout/internal/engine"
	"github.com/lberndt/roomscout/internal/models"
)

// The narrative prompts cite only numbers computed by the engine. The model
// phrases and explains; it never re-derives overlap, support or scores.

// InsightInput is the structured bundle behind a comparison narrative.
type InsightInput struct {
	TitleA string
	TitleB string
	Report *engine.OverlapReport
	Style  string
}

// CompareInsight writes a short analyst-style narrative for an overlap report.
func (m *Model) CompareInsight(ctx context.Context, in InsightInput) (string, error) {
	systemPrompt := "You generate crisp, actionable merchandising and design insights from structured room comparisons."

	r := in.Report
	cosineLine := "unavailable"
	if r.Cosine != nil {
		cosineLine = fmt.Sprintf("%.3f", *r.Cosine)
	}
	styleLine := ""
	if in.Style != "" {
		styleLine = "\nUser style preference: " + in.Style
	}

	userPrompt := fmt.Sprintf(`Be concise (6-10 bullets). Do three things:
1) Differences and commonalities (mention brand/category patterns and the relaxed-overlap signal)
2) Why it matters (merchandising and design implications)
3) Concrete next actions

Rooms:
- A: %s
- B: %s
- Summary cosine: %s
- Exact overlap: %d shared keys (Jaccard=%.3f)
- Relaxed overlap (brand+category): Jaccard=%.3f%s

Top brands A:
%s

Top brands B:
%s

Top categories A:
%s

Top categories B:
%s

Shared items (sample):
%s

Unique to A (sample):
%s

Unique to B (sample):
%s`,
		in.TitleA, in.TitleB,
		cosineLine,
		len(r.SharedKeys), r.ExactJaccard,
		r.RelaxedJaccard, styleLine,
		formatCounts(r.SummaryA.TopBrands(8)),
		formatCounts(r.SummaryB.TopBrands(8)),
		formatCounts(r.SummaryA.TopCategories(8)),
		formatCounts(r.SummaryB.TopCategories(8)),
		formatKeys(r.SharedKeys, 10),
		formatKeys(r.UniqueA, 10),
		formatKeys(r.UniqueB, 10))

	return m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
}

// BriefInput is the structured bundle behind a completion brief.
type BriefInput struct {
	SeedTitle   string
	Suggestions []engine.SuggestionCandidate
	Neighbors   []models.NeighborResult
	Style       string
	Hint        string
}

// CompletionBrief writes a practical furnishing plan from ranked suggestions.
// The free-text hint is forwarded opaquely.
func (m *Model) CompletionBrief(ctx context.Context, in BriefInput) (string, error) {
	systemPrompt := "You are an interior designer. Write a concise, practical plan. " +
		"Be specific on items, materials, palette, and layout. Keep it to 10-14 bullets, " +
		"then a short shopping list. Include brief citations to example room/item IDs."

	var recLines []string
	for _, s := range in.Suggestions {
		line := fmt.Sprintf("- %s / %s (seen in %d rooms)", s.Category, orDash(s.Brand), s.SupportCount)
		if s.Representative != nil {
			line += fmt.Sprintf("; e.g. %s [%s]", s.Representative.Name, s.Representative.ItemID)
		}
		recLines = append(recLines, line)
	}

	var nbrLines []string
	for i, n := range in.Neighbors {
		if i >= 8 {
			break
		}
		nbrLines = append(nbrLines, fmt.Sprintf("- %s [%s]", n.Room.Title(), n.Room.RoomID))
	}

	userPrompt := fmt.Sprintf(`Style: %s
User notes: %s

Seed room: %s

Suggested complements (data-derived):
%s

Neighbor rooms considered (for visual precedent):
%s

Instructions:
- Propose a coherent completion for the seed room.
- Group bullets by: Layout, Key Pieces, Textiles, Lighting, Finishing Touches.
- Justify choices briefly.
- End with a compact shopping list (Category / Example / Why), citing example IDs in backticks.
- Keep it actionable; avoid fluff.`,
		orDefault(in.Style, "unspecified"),
		orDefault(in.Hint, "n/a"),
		in.SeedTitle,
		orDefault(strings.Join(recLines, "\n"), "(none)"),
		orDefault(strings.Join(nbrLines, "\n"), "(none)"))

	return m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
}

// RecommendInput is the structured bundle behind a recommendation note.
type RecommendInput struct {
	TitleA string
	TitleB string
	Rec    *engine.Recommendation
	Report *engine.OverlapReport
	Style  string
}

// RecommendationNote explains an already-decided recommendation. The winner
// comes from the deterministic scorer; the model justifies, it does not pick.
func (m *Model) RecommendationNote(ctx context.Context, in RecommendInput) (string, error) {
	systemPrompt := "You are a retail/design assistant. Be decisive and practical."

	overlapLine := "not compared"
	if in.Report != nil {
		overlapLine = fmt.Sprintf("%d shared keys (Jaccard %.3f)", len(in.Report.SharedKeys), in.Report.ExactJaccard)
	}

	userPrompt := fmt.Sprintf(`User style: %s

Two rooms were compared and scored. The decision is already made: the
preferred room is %s. Justify that choice in 3-5 bullets using ONLY the
numbers below, then give 2-3 quick tweaks to better fit the user's style.

Scoring (machine):
- A: %s, style cosine %.3f, %d distinct items, brand concentration %.2f, score %.4f
- B: %s, style cosine %.3f, %d distinct items, brand concentration %.2f, score %.4f
- Item overlap: %s

Return concise markdown with a final line: Recommendation: %s.`,
		orDefault(in.Style, "unspecified"),
		in.Rec.Winner,
		in.TitleA, in.Rec.A.StyleCosine, in.Rec.A.DistinctItems, in.Rec.A.BrandConcentration, in.Rec.A.Score,
		in.TitleB, in.Rec.B.StyleCosine, in.Rec.B.DistinctItems, in.Rec.B.BrandConcentration, in.Rec.B.Score,
		overlapLine,
		in.Rec.Winner)

	return m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
}

var numberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ScoreRoomStyle asks the model to rate how well a room fits a style, 0-10.
// Unparseable replies score zero.
func (m *Model) ScoreRoomStyle(ctx context.Context, room models.Room, style string) (float64, error) {
	var itemLines []string
	for i, it := range room.Items {
		if i >= 12 {
			break
		}
		itemLines = append(itemLines, fmt.Sprintf("%s | %s | %s", orDash(it.Name), orDash(it.Brand), it.Category))
	}

	systemPrompt := "You are a precise style scorer."
	userPrompt := fmt.Sprintf(`Rate from 0 to 10 how well this room fits the style %q. Only return a number.
Room name: %s
Items:
- %s`, style, room.Title(), strings.Join(itemLines, "\n- "))

	raw, err := m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return 0, err
	}
	match := numberRe.FindString(raw)
	if match == "" {
		return 0, nil
	}
	score, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, nil
	}
	return score, nil
}

func formatKeys(keys []engine.ItemKey, limit int) string {
	if len(keys) == 0 {
		return "(none)"
	}
	var lines []string
	for i, k := range keys {
		if i >= limit {
			lines = append(lines, fmt.Sprintf("- (+%d more)", len(keys)-limit))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s | %s | %s", orDash(k.Name), orDash(k.Brand), k.Category))
	}
	return strings.Join(lines, "\n")
}

func formatCounts(counts []engine.KeyCount) string {
	if len(counts) == 0 {
		return "(none)"
	}
	var lines []string
	for _, kc := range counts {
		lines = append(lines, fmt.Sprintf("- %s: %d", kc.Key, kc.Count))
	}
	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
