package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "Manage indexed games",
	Long:  `List or remove indexed rulebooks.`,
}

var gamesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed games",
	RunE:  runGamesList,
}

var gamesRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a game and its chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runGamesRemove,
}

func init() {
	gamesCmd.AddCommand(gamesListCmd)
	gamesCmd.AddCommand(gamesRemoveCmd)
	rootCmd.AddCommand(gamesCmd)
}

func runGamesList(cmd *cobra.Command, _ []string) error {
	if gameStore == nil {
		return errors.New("game store not configured")
	}

	games, err := gameStore.ListGames(context.Background())
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}

	if len(games) == 0 {
		cmd.Println("No games indexed. Run 'regle ingest <rulebook>' first.")
		return nil
	}

	cmd.Println("Indexed games:")
	cmd.Println()
	for _, game := range games {
		cmd.Printf("  %s (%d chunks, indexed %s)\n",
			game.Name, game.ChunkCount, game.UpdatedAt.Format("2006-01-02"))
	}
	return nil
}

func runGamesRemove(cmd *cobra.Command, args []string) error {
	game, err := resolveGameByName(args[0])
	if err != nil {
		return err
	}

	if err := gameStore.DeleteGame(context.Background(), game.ID); err != nil {
		return fmt.Errorf("remove game: %w", err)
	}

	cmd.Printf("Removed %q (%d chunks).\n", game.Name, game.ChunkCount)
	return nil
}
