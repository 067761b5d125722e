package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lberndt/roomscout/internal/engine"
	"github.com/lberndt/roomscout/internal/service"
)

var assistStyle string

var assistCmd = &cobra.Command{
	Use:   "assist <request>",
	Short: "Answer a natural-language room request",
	Long: `Interpret a free-text request, find matching rooms, compare the best
two and recommend one.

The LLM extracts keywords, a style preference and how many rooms to
consider; the keyword scan, the comparison metrics and the winner are
all computed deterministically. The model only phrases the result.

Examples:
  roomscout assist "find me rooms with a velvet sofa, I like mid-century"
  roomscout assist "something with warm lighting" --style scandinavian`,
	Args: cobra.ExactArgs(1),
	RunE: runAssist,
}

func init() {
	assistCmd.Flags().StringVar(&assistStyle, "style", "", "style preference, overrides the interpreted one")
}

func runAssist(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	rooms, err := chunkRepo()
	if err != nil {
		return err
	}
	emb, m, err := llmComponents()
	if err != nil {
		return fmt.Errorf("init llm: %w", err)
	}

	svc := service.NewAssistService(rooms, emb, m, cfg.Weights, collector, log)
	result, err := svc.Assist(ctx, args[0], assistStyle)
	if err != nil {
		return fmt.Errorf("assist: %w", err)
	}

	if jsonOut {
		return printJSON(result)
	}

	fmt.Printf("Interpreted: keywords=%s", strings.Join(result.Intent.Keywords, ","))
	if result.Intent.Style != "" {
		fmt.Printf(" style=%q", result.Intent.Style)
	}
	fmt.Printf(" k=%d\n", result.Intent.K)
	fmt.Printf("Matched %d rooms, picked: %s\n", len(result.Matches), strings.Join(result.Picked, ", "))

	if result.Comparison != nil {
		fmt.Println()
		printCompareResult(result.Comparison)
	}
	if result.Recommendation != nil {
		rec := result.Recommendation
		fmt.Printf("\nRecommended: %s", rec.Winner)
		if rec.Tie {
			fmt.Printf(" (tie, broken by brand concentration)")
		}
		fmt.Println()
		if verbose {
			printSignals(rec.A)
			printSignals(rec.B)
		}
	}
	if result.Note != "" {
		fmt.Printf("\n%s\n", result.Note)
	}
	return nil
}

func printSignals(s engine.RoomSignals) {
	fmt.Printf("  %s: style %.3f, %d distinct items, concentration %.2f, score %.3f\n",
		s.RoomID, s.StyleCosine, s.DistinctItems, s.BrandConcentration, s.Score)
}
