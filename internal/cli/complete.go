package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lberndt/roomscout/internal/retrieval"
	"github.com/lberndt/roomscout/internal/service"
)

var (
	completeRoom        string
	completeFromItems   []string
	completeNeighbors   int
	completeSuggestions int
	completeStyle       string
	completeHint        string
	completeBrief       bool
	completeOffline     bool
)

var completeCmd = &cobra.Command{
	Use:   "complete",
	Short: "Suggest items a room is missing",
	Long: `Suggest (brand, category) pairs a seed room is missing, mined from its
nearest-neighbor rooms and ranked by how many distinct neighbors carry
the pair. Every suggestion cites the neighbor rooms it came from.

The seed is an existing room (--room) or a virtual room assembled from
item IDs (--from-items). Neighbors come from the vector store; with
--offline, or when the store is unreachable, they are mined from the
local chunk snapshot by relaxed-pair overlap instead.

Examples:
  roomscout complete --room room_014
  roomscout complete --from-items AAA,BBB,CCC --suggestions 8
  roomscout complete --room room_014 --style japandi --brief
  roomscout complete --room room_014 --offline`,
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().StringVar(&completeRoom, "room", "", "seed room ID")
	completeCmd.Flags().StringSliceVar(&completeFromItems, "from-items", nil, "item IDs forming a virtual seed room")
	completeCmd.Flags().IntVarP(&completeNeighbors, "neighbors", "n", 0, "neighbor rooms to mine (default from config)")
	completeCmd.Flags().IntVarP(&completeSuggestions, "suggestions", "s", 0, "max suggestions (default from config)")
	completeCmd.Flags().StringVar(&completeStyle, "style", "", "style preference for the brief")
	completeCmd.Flags().StringVar(&completeHint, "hint", "", "free-text hint for the brief")
	completeCmd.Flags().BoolVar(&completeBrief, "brief", false, "generate a shopping brief via the LLM")
	completeCmd.Flags().BoolVar(&completeOffline, "offline", false, "skip the vector store, mine neighbors locally")
}

func runComplete(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	rooms, err := chunkRepo()
	if err != nil {
		return err
	}

	var emb service.Embedder
	var narrator service.Narrator
	var finder service.NeighborFinder

	if !completeOffline || completeBrief {
		e, m, err := llmComponents()
		if err != nil {
			if completeBrief {
				return fmt.Errorf("init llm: %w", err)
			}
			log.Warn("llm unavailable, mining neighbors locally", "error", err)
		} else {
			emb, narrator = e, m
		}
	}

	if !completeOffline && emb != nil {
		client, err := connectDB(ctx)
		if err != nil {
			log.Warn("vector store unavailable, mining neighbors locally", "error", err)
		} else {
			finder = retrieval.New(client, cfg.Overfetch, log)
		}
	}

	svc := service.NewCompleteService(rooms, emb, finder, narrator, collector, log)

	neighbors := completeNeighbors
	if neighbors <= 0 {
		neighbors = cfg.Neighbors
	}
	suggestions := completeSuggestions
	if suggestions <= 0 {
		suggestions = cfg.Suggestions
	}

	result, err := svc.CompleteRoom(ctx, service.CompleteOptions{
		RoomID:      completeRoom,
		FromItems:   completeFromItems,
		Neighbors:   neighbors,
		Suggestions: suggestions,
		Style:       completeStyle,
		Hint:        completeHint,
		Brief:       completeBrief,
		Offline:     completeOffline,
	})
	if err != nil {
		return fmt.Errorf("complete: %w", err)
	}

	if jsonOut {
		return printJSON(result)
	}
	printCompletionResult(result)
	return nil
}

func printCompletionResult(result *service.CompletionResult) {
	source := "vector store"
	if result.Mined {
		source = "local overlap mining"
	}
	fmt.Printf("Completing %s (%d neighbors via %s)\n\n", result.SeedTitle, len(result.Neighbors), source)

	if len(result.Suggestions) == 0 {
		fmt.Println("No suggestions: the neighbors carry nothing the seed is missing.")
		return
	}

	for i, s := range result.Suggestions {
		fmt.Printf("%d. %s × %s  (in %d neighbor rooms)\n", i+1, orDash(s.Brand), s.Category, s.SupportCount)
		if s.Representative != nil {
			fmt.Printf("   e.g. %s\n", s.Representative.Name)
		}
		if verbose {
			for _, c := range s.Citations {
				fmt.Printf("   seen in %s (%s)\n", c.RoomID, c.ItemID)
			}
		}
	}

	if result.Brief != "" {
		fmt.Printf("\n%s\n", result.Brief)
	}
}
