package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ludica-labs/regle/internal/core/domain"
)

var (
	searchGame      string
	searchLimit     int
	searchJSON      bool
	searchDenseOnly bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed rulebook chunks",
	Long: `Performs hybrid search across indexed rulebooks and prints the raw
matching chunks without answer generation. Combines lexical (BM25) and
semantic (vector) search.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchGame, "game", "", "restrict to a game by name")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchDenseOnly, "dense-only", false, "disable lexical search, use embeddings only")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	opts := domain.RetrieveOptions{
		TopK:   searchLimit,
		Hybrid: !searchDenseOnly,
	}
	if searchGame != "" {
		game, err := resolveGameByName(searchGame)
		if err != nil {
			return err
		}
		opts.GameID = game.ID
	}

	selection, err := retrievalService.Retrieve(context.Background(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, selection)
	}

	return outputSearchTable(cmd, selection)
}

func outputSearchJSON(cmd *cobra.Command, selection *domain.GameSelection) error {
	data, err := json.MarshalIndent(selection, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, selection *domain.GameSelection) error {
	if selection == nil || len(selection.Chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results for %s:\n", selection.GameName)
	cmd.Println()
	for i, chunk := range selection.Chunks {
		cmd.Printf("  [%d] %s (%.3f %s)\n", i+1, chunk.Chunk.HierarchyPath, chunk.Score, chunk.Stage)
		cmd.Printf("      p. %d-%d, %s\n", chunk.Chunk.PageStart, chunk.Chunk.PageEnd, chunk.Chunk.Category)
		cmd.Printf("      %s\n", snippet(chunk.Chunk.Content))
		cmd.Println()
	}

	return nil
}

// snippet shortens chunk content to a single display line.
func snippet(content string) string {
	const maxChars = 160

	line := strings.Join(strings.Fields(content), " ")
	if len(line) <= maxChars {
		return line
	}
	cut := line[:maxChars]
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
