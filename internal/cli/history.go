package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived conversations",
	Long: `List conversation transcripts archived when a chat was cleared.

Requires a configured database; without one, transcripts are not kept.

Examples:
  aura history`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if dbClient == nil {
		fmt.Println("No database configured; conversation transcripts are not persisted.")
		fmt.Println("Set SURREALDB_URL to enable archiving.")
		return nil
	}

	conversations, err := dbClient.ListConversations(cmd.Context())
	if err != nil {
		exitWithError("list conversations: %v", err)
	}

	if len(conversations) == 0 {
		fmt.Println("No archived conversations.")
		return nil
	}

	fmt.Printf("Archived conversations (%d):\n\n", len(conversations))
	for _, c := range conversations {
		fmt.Printf("  %s  (%d turns, %s)\n",
			c.Title, c.TurnCount, c.Created.Format("2006-01-02 15:04"))
	}
	return nil
}
