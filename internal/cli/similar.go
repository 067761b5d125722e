package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lberndt/roomscout/internal/models"
	"github.com/lberndt/roomscout/internal/repo"
	"github.com/lberndt/roomscout/internal/retrieval"
	"github.com/lberndt/roomscout/internal/service"
)

var (
	similarWith     string
	similarLabel    string
	similarCategory string
	similarLimit    int
)

var similarCmd = &cobra.Command{
	Use:   "similar <room-id>",
	Short: "Find rooms similar to a seed room",
	Long: `Find the nearest rooms to a seed by summary-embedding similarity.

Results are ranked by cosine similarity, deduplicated per room, and
annotated with how many exact item keys each hit shares with the seed.
Filters narrow the candidate set before ranking.

Examples:
  roomscout similar room_014
  roomscout similar room_014 --with "velvet sofa" -n 5
  roomscout similar room_014 --label "living room" --category lighting`,
	Args: cobra.ExactArgs(1),
	RunE: runSimilar,
}

func init() {
	similarCmd.Flags().StringVarP(&similarWith, "with", "w", "", "keywords the hits must contain")
	similarCmd.Flags().StringVar(&similarLabel, "label", "", "restrict hits to a room label")
	similarCmd.Flags().StringVar(&similarCategory, "category", "", "restrict hits to rooms containing an item category")
	similarCmd.Flags().IntVarP(&similarLimit, "limit", "n", 0, "max results (default from config)")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	rooms, err := chunkRepo()
	if err != nil {
		return err
	}
	seed, err := rooms.Room(args[0])
	if err != nil {
		return err
	}

	emb, _, err := llmComponents()
	if err != nil {
		return fmt.Errorf("init llm: %w", err)
	}
	if len(seed.SummaryEmbedding) == 0 {
		vec, err := emb.Embed(ctx, service.EmbedText(seed))
		if err != nil {
			return fmt.Errorf("embed seed: %w", err)
		}
		seed.SummaryEmbedding = vec
	}

	client, err := connectDB(ctx)
	if err != nil {
		return err
	}
	retriever := retrieval.New(client, cfg.Overfetch, log)

	limit := similarLimit
	if limit <= 0 {
		limit = cfg.Neighbors
	}
	filter := models.SearchFilter{
		Keywords: repo.TokenizeKeywords(similarWith),
		Label:    similarLabel,
		Category: similarCategory,
	}

	neighbors, err := retriever.FindNeighbors(ctx, seed, filter, limit)
	if err != nil {
		return fmt.Errorf("find neighbors: %w", err)
	}

	if jsonOut {
		return printJSON(neighbors)
	}
	if len(neighbors) == 0 {
		fmt.Println("No similar rooms found.")
		return nil
	}

	fmt.Printf("Rooms similar to %s:\n\n", seed.Title())
	for i, n := range neighbors {
		fmt.Printf("%d. %s  (similarity %.3f, %d shared items)\n",
			i+1, n.Room.Title(), n.Similarity, n.SharedKeyCount)
		if verbose && len(n.Room.Items) > 0 {
			names := make([]string, 0, len(n.Room.Items))
			for _, it := range n.Room.Items {
				names = append(names, it.Name)
			}
			fmt.Printf("   %s\n", strings.Join(names, ", "))
		}
	}
	return nil
}
