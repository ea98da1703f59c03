// Package cli implements the regle command-line interface.
// Commands are thin adapters over the driving ports; all business
// logic lives in internal/core/services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ludica-labs/regle/internal/core/ports/driven"
	"github.com/ludica-labs/regle/internal/core/ports/driving"
	"github.com/ludica-labs/regle/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services injected by the composition root before Execute.
var (
	ingestService    driving.IngestService
	retrievalService driving.RetrievalService
	askService       driving.AskService
	gameStore        driven.GameStore
	configStore      driven.ConfigStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "regle",
	Short: "Query board-game rulebooks in natural language",
	Long: `Regle ingests board-game rulebooks (PDF or text), structures them into
sections, and answers rules questions with hybrid dense + lexical retrieval.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Services holds everything the commands need.
type Services struct {
	Ingest    driving.IngestService
	Retrieval driving.RetrievalService
	Ask       driving.AskService
	Games     driven.GameStore
	Config    driven.ConfigStore
}

// Configure injects the services the commands run against.
// Must be called before Execute.
func Configure(s Services) {
	ingestService = s.Ingest
	retrievalService = s.Retrieval
	askService = s.Ask
	gameStore = s.Games
	configStore = s.Config
}

// SetVersion sets the version string reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
