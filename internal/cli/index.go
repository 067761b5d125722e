package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lberndt/roomscout/internal/db"
	"github.com/lberndt/roomscout/internal/llm"
	"github.com/lberndt/roomscout/internal/metrics"
	"github.com/lberndt/roomscout/internal/models"
	"github.com/lberndt/roomscout/internal/service"
)

var indexWipe bool

// embedBatchSize bounds how many room summaries go to the embedder per call.
const embedBatchSize = 32

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the chunk directory into the vector store",
	Long: `Embed every room of the chunk directory and upsert it into the vector
store. Indexing is idempotent: re-running it overwrites existing rows
by room ID.

Examples:
  roomscout index
  roomscout index --wipe`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexWipe, "wipe", false, "delete all stored rooms before indexing")
}

func runIndex(cmd *cobra.Command, args []string) error {
	rooms, err := chunkRepo()
	if err != nil {
		return err
	}
	emb, _, err := llmComponents()
	if err != nil {
		return fmt.Errorf("init llm: %w", err)
	}

	client, err := indexSetup()
	if err != nil {
		return err
	}

	all := rooms.Rooms()
	if len(all) == 0 {
		fmt.Println("Nothing to index.")
		return nil
	}

	// The request timeout bounds each batch, not the whole run, so a large
	// chunk directory does not outgrow a single window.
	indexed := 0
	for start := 0; start < len(all); start += embedBatchSize {
		end := min(start+embedBatchSize, len(all))
		if err := indexBatch(emb, client, all[start:end]); err != nil {
			return fmt.Errorf("index batch at %d: %w", start, err)
		}
		indexed += end - start
		fmt.Printf("Indexed %d/%d rooms\r", indexed, len(all))
	}
	fmt.Printf("Indexed %d/%d rooms\n", indexed, len(all))

	if skipped := rooms.Skipped(); len(skipped) > 0 {
		fmt.Printf("Skipped %d malformed records (see log).\n", len(skipped))
	}
	return nil
}

// indexSetup connects to the store and optionally wipes it, under its own
// timeout window.
func indexSetup() (*db.Client, error) {
	ctx, cancel := commandContext()
	defer cancel()

	client, err := connectDB(ctx)
	if err != nil {
		return nil, err
	}
	if indexWipe {
		if err := client.WipeData(ctx); err != nil {
			return nil, fmt.Errorf("wipe store: %w", err)
		}
		fmt.Println("Wiped existing rooms.")
	}
	return client, nil
}

// indexBatch embeds one batch of rooms and upserts them.
func indexBatch(emb *llm.Embedder, client *db.Client, batch []models.Room) error {
	ctx, cancel := commandContext()
	defer cancel()

	texts := make([]string, len(batch))
	for i, room := range batch {
		texts[i] = service.EmbedText(room)
	}

	embedStart := time.Now()
	vecs, err := emb.EmbedBatch(ctx, texts)
	collector.RecordTiming(metrics.OpEmbedding, time.Since(embedStart))
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}

	for i, room := range batch {
		room.SummaryEmbedding = vecs[i]
		if err := client.UpsertRoom(ctx, room); err != nil {
			return fmt.Errorf("upsert %s: %w", room.RoomID, err)
		}
	}
	return nil
}
