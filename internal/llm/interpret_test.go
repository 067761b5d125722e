package llm

import (
	"reflect"
	"testing"

	"github.com/lberndt/roomscout/internal/models"
)

func TestParseIntent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.Intent
	}{
		{
			name: "clean json",
			raw:  `{"item_keywords":"sofa, lamp","k":3,"style_prefs":"classic","constraints":""}`,
			want: models.Intent{Keywords: []string{"sofa", "lamp"}, Style: "classic", K: 3},
		},
		{
			name: "json embedded in prose",
			raw:  "Sure! Here you go:\n```json\n{\"item_keywords\":\"rug\",\"k\":2,\"style_prefs\":\"\"}\n```",
			want: models.Intent{Keywords: []string{"rug"}, K: 2},
		},
		{
			name: "no json at all",
			raw:  "I could not determine the intent.",
			want: models.Intent{Keywords: []string{"sofa"}, K: 2},
		},
		{
			name: "zero k clamped",
			raw:  `{"item_keywords":"chair","k":0}`,
			want: models.Intent{Keywords: []string{"chair"}, K: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseIntent(tt.raw)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseIntent() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
