package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show chunk snapshot and vector store statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	rooms, err := chunkRepo()
	if err != nil {
		return err
	}

	totalItems := 0
	for _, room := range rooms.Rooms() {
		totalItems += len(room.Items)
	}

	stats := struct {
		Rooms          int    `json:"rooms"`
		Items          int    `json:"items"`
		Skipped        int    `json:"skipped_records"`
		IndexedRooms   int    `json:"indexed_rooms"`
		StoreAvailable bool   `json:"store_available"`
		StoreError     string `json:"store_error,omitempty"`
	}{
		Rooms:   len(rooms.Rooms()),
		Items:   totalItems,
		Skipped: len(rooms.Skipped()),
	}

	if client, err := connectDB(ctx); err != nil {
		stats.StoreError = err.Error()
	} else if count, err := client.CountRooms(ctx); err != nil {
		stats.StoreError = err.Error()
	} else {
		stats.StoreAvailable = true
		stats.IndexedRooms = count
	}

	if jsonOut {
		return printJSON(stats)
	}

	fmt.Printf("Chunk snapshot:\n")
	fmt.Printf("  Rooms:            %d\n", stats.Rooms)
	fmt.Printf("  Items (in rooms): %d\n", stats.Items)
	fmt.Printf("  Skipped records:  %d\n", stats.Skipped)
	fmt.Printf("Vector store:\n")
	if stats.StoreAvailable {
		fmt.Printf("  Indexed rooms:    %d\n", stats.IndexedRooms)
	} else {
		fmt.Printf("  Unavailable:      %s\n", stats.StoreError)
	}
	return nil
}
