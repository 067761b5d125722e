package llm

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/lberndt/roomscout/internal/models"
)

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*\}`)

// rawIntent mirrors the JSON shape the interpreter prompt asks for.
type rawIntent struct {
	ItemKeywords string `json:"item_keywords"`
	K            int    `json:"k"`
	StylePrefs   string `json:"style_prefs"`
	Constraints  string `json:"constraints"`
}

// InterpretIntent turns a free-form user request into a structured retrieval
// intent. Model output is skimmed for the first JSON object; anything
// missing or malformed falls back to defaults, never an error. K is always
// at least 1.
func (m *Model) InterpretIntent(ctx context.Context, userText string) (models.Intent, error) {
	systemPrompt := "Extract structured intent for a retrieval and comparison task over interior-design rooms."
	userPrompt := `User request:
` + userText + `

Return ONLY a compact JSON with keys:
- item_keywords: string (e.g. "sofa, lamp, white")
- k: integer number of rooms to shortlist (default 2)
- style_prefs: string (e.g. "classic", "mid-century", "modern")
- constraints: string (optional; anything else the user cares about)
Example:
{"item_keywords":"sofa","k":2,"style_prefs":"classic","constraints":""}`

	raw, err := m.GenerateWithSystem(ctx, systemPrompt, userPrompt)
	if err != nil {
		return models.Intent{}, err
	}
	return parseIntent(raw), nil
}

func parseIntent(raw string) models.Intent {
	var ri rawIntent
	if block := jsonBlockRe.FindString(raw); block != "" {
		// best effort; defaults cover a failed parse
		_ = json.Unmarshal([]byte(block), &ri)
	}

	if ri.ItemKeywords == "" {
		ri.ItemKeywords = "sofa"
	}
	if ri.K < 1 {
		ri.K = 2
	}

	return models.Intent{
		Keywords: splitKeywords(ri.ItemKeywords),
		Style:    strings.TrimSpace(ri.StylePrefs),
		K:        ri.K,
	}
}

func splitKeywords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, strings.ToLower(f))
	}
	return out
}
