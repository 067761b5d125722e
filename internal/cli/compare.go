package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lberndt/roomscout/internal/engine"
	"github.com/lberndt/roomscout/internal/service"
)

var (
	compareProjectA []string
	compareProjectB []string
	compareStyle    string
	compareInsight  bool
)

var compareCmd = &cobra.Command{
	Use:   "compare [<room-a> <room-b>]",
	Short: "Compare two rooms or two groups of rooms",
	Long: `Compare two rooms by their item inventories and summary embeddings.

The report carries exact Jaccard overlap (name+brand+category), relaxed
Jaccard overlap (brand+category pairs), cosine similarity when summary
embeddings are available, and per-side frequency summaries.

With --project-a and --project-b the items of each group are unioned and
compared as aggregates; cosine is omitted for aggregates.

Examples:
  roomscout compare room_014 room_027
  roomscout compare room_014 room_027 --style scandinavian --insight
  roomscout compare --project-a room_001,room_002 --project-b room_010`,
	Args: cobra.RangeArgs(0, 2),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareProjectA, "project-a", nil, "room IDs of the first group")
	compareCmd.Flags().StringSliceVar(&compareProjectB, "project-b", nil, "room IDs of the second group")
	compareCmd.Flags().StringVar(&compareStyle, "style", "", "style preference for the narrative")
	compareCmd.Flags().BoolVar(&compareInsight, "insight", false, "generate a narrative insight via the LLM")
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	rooms, err := chunkRepo()
	if err != nil {
		return err
	}

	var emb service.Embedder
	var narrator service.Narrator
	if compareInsight || len(args) == 2 {
		e, m, err := llmComponents()
		if err != nil {
			if compareInsight {
				return fmt.Errorf("init llm: %w", err)
			}
			log.Warn("llm unavailable, comparing without cosine", "error", err)
		} else {
			emb, narrator = e, m
		}
	}

	svc := service.NewCompareService(rooms, emb, narrator, collector, log)

	var result *service.CompareResult
	switch {
	case len(compareProjectA) > 0 || len(compareProjectB) > 0:
		if len(args) > 0 {
			return fmt.Errorf("room arguments and project flags are mutually exclusive")
		}
		result, err = svc.CompareProjects(ctx, compareProjectA, compareProjectB)
	case len(args) == 2:
		result, err = svc.CompareRooms(ctx, args[0], args[1], service.CompareOptions{
			Style:   compareStyle,
			Insight: compareInsight,
		})
	default:
		return fmt.Errorf("give two room IDs or both project flags")
	}
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	if jsonOut {
		return printJSON(result)
	}
	printCompareResult(result)
	return nil
}

func printCompareResult(result *service.CompareResult) {
	fmt.Printf("%s vs %s\n\n", result.TitleA, result.TitleB)

	r := result.Report
	if r.Cosine != nil {
		fmt.Printf("  Cosine similarity:  %.3f\n", *r.Cosine)
	} else {
		fmt.Printf("  Cosine similarity:  unavailable\n")
	}
	fmt.Printf("  Exact overlap:      %.3f\n", r.ExactJaccard)
	fmt.Printf("  Relaxed overlap:    %.3f\n", r.RelaxedJaccard)
	fmt.Printf("  Shared items:       %d\n", len(r.SharedKeys))
	fmt.Printf("  Unique to %s: %d, unique to %s: %d\n\n",
		result.TitleA, len(r.UniqueA), result.TitleB, len(r.UniqueB))

	printTopCounts("Top brands", r.SummaryA.TopBrands(3), r.SummaryB.TopBrands(3))
	printTopCounts("Top categories", r.SummaryA.TopCategories(3), r.SummaryB.TopCategories(3))

	if verbose {
		printKeys("Shared", r.SharedKeys)
		printKeys("Only in "+result.TitleA, r.UniqueA)
		printKeys("Only in "+result.TitleB, r.UniqueB)
	}

	if result.Insight != "" {
		fmt.Printf("\n%s\n", result.Insight)
	}
}

func printTopCounts(header string, a, b []engine.KeyCount) {
	fmt.Printf("  %s:\n", header)
	fmt.Printf("    A: %s\n", formatCounts(a))
	fmt.Printf("    B: %s\n", formatCounts(b))
}

func formatCounts(counts []engine.KeyCount) string {
	if len(counts) == 0 {
		return "—"
	}
	out := ""
	for i, c := range counts {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s (%d)", c.Key, c.Count)
	}
	return out
}

func printKeys(header string, keys []engine.ItemKey) {
	if len(keys) == 0 {
		return
	}
	fmt.Printf("\n  %s:\n", header)
	for _, k := range keys {
		fmt.Printf("    - %s | %s | %s\n", k.Name, orDash(k.Brand), k.Category)
	}
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
