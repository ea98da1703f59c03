package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludica-labs/regle/internal/core/domain"
)

var (
	askGame          string
	askTopK          int
	askDenseOnly     bool
	askMinSimilarity float64
	askShowSources   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a rules question",
	Long: `Retrieves the most relevant rulebook passages for the question and
generates an answer. Without a configured answer model the retrieved
passages are printed instead.

The game is selected automatically from the question unless --game is
given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askGame, "game", "", "restrict to a game by name")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default: by question type)")
	askCmd.Flags().BoolVar(&askDenseOnly, "dense-only", false, "disable lexical search, use embeddings only")
	askCmd.Flags().Float64Var(&askMinSimilarity, "min-similarity", 0, "drop dense hits below this cosine similarity")
	askCmd.Flags().BoolVar(&askShowSources, "sources", false, "print the retrieved passages used for the answer")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	if askService == nil {
		return errors.New("ask service not configured")
	}

	opts := domain.RetrieveOptions{
		TopK:          askTopK,
		Hybrid:        !askDenseOnly,
		MinSimilarity: askMinSimilarity,
	}
	if askGame != "" {
		game, err := resolveGameByName(askGame)
		if err != nil {
			return err
		}
		opts.GameID = game.ID
	}

	answer, selection, err := askService.Ask(context.Background(), question, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}
	if selection == nil {
		cmd.Println("No relevant rules found.")
		return nil
	}

	cmd.Printf("Jeu : %s", selection.GameName)
	if selection.MatchedByName {
		cmd.Print(" (reconnu dans la question)")
	}
	cmd.Println()
	cmd.Println()
	cmd.Println(answer.Text)

	if answer.Generated {
		cmd.Println()
		cmd.Printf("(generated by %s)\n", answer.Model)
	}

	if askShowSources && answer.Generated {
		cmd.Println()
		cmd.Println("Sources:")
		for i, chunk := range selection.Chunks {
			cmd.Printf("  [%d] %s (p. %d-%d)\n",
				i+1, chunk.Chunk.HierarchyPath, chunk.Chunk.PageStart, chunk.Chunk.PageEnd)
		}
	}

	return nil
}

// resolveGameByName maps a user-supplied game name to its id.
func resolveGameByName(name string) (*domain.Game, error) {
	if gameStore == nil {
		return nil, errors.New("game store not configured")
	}
	game, err := gameStore.GetGameByName(context.Background(), name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("no indexed game named %q (see 'regle games list')", name)
		}
		return nil, fmt.Errorf("look up game: %w", err)
	}
	return game, nil
}
