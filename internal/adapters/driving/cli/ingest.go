package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	ingestName  string
	ingestMerge bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Index a rulebook file",
	Long: `Extracts, structures and indexes a rulebook (PDF, .txt or .md).

The game name defaults to the file name. Re-ingesting an existing game
replaces its chunks unless --merge is given, in which case the new
chunks are appended (e.g. for an expansion booklet).`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestName, "name", "g", "", "game name (default: file name)")
	ingestCmd.Flags().BoolVar(&ingestMerge, "merge", false, "append to an existing game instead of replacing it")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	name := ingestName
	if name == "" {
		base := filepath.Base(path)
		name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	chunks, err := ingestService.IngestFile(context.Background(), path, name, ingestMerge)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	if len(chunks) == 0 {
		cmd.Printf("No indexable content found in %s.\n", path)
		return nil
	}

	verb := "Indexed"
	if ingestMerge {
		verb = "Merged"
	}
	cmd.Printf("%s %q: %d chunks.\n", verb, name, len(chunks))
	return nil
}
