// Package cli provides the cobra command tree driving the search and
// index services.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parchment-labs/noteseek/internal/adapters/driven/config/file"
	"github.com/parchment-labs/noteseek/internal/adapters/driven/embedding/openai"
	"github.com/parchment-labs/noteseek/internal/adapters/driven/storage/sqlite"
	"github.com/parchment-labs/noteseek/internal/core/ports/driven"
	"github.com/parchment-labs/noteseek/internal/core/ports/driving"
	"github.com/parchment-labs/noteseek/internal/core/services"
	"github.com/parchment-labs/noteseek/internal/logger"
)

// Injected services. Tests swap these for mocks; commands must check
// for nil before use.
var (
	searchService driving.SearchService
	indexService  driving.IndexService
	paramsService *services.ParamsService
	noteStore     driven.NoteStore
	embedder      driven.EmbeddingService

	// storePath is the SQLite database file; parameter overrides live
	// there, so it is also the file the params watcher observes.
	storePath string
)

var (
	flagVerbose bool
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "noteseek",
	Short: "Hybrid full-text and semantic note search",
	Long: `noteseek indexes personal notes into a combined lexical and
vector index, and answers free-text queries with a single fused ranked
list. Korean and English queries are weighted appropriately.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetVerbose(flagVerbose)
		return nil
	},
}

// Execute wires the adapters into the services and runs the command
// tree. Wiring happens lazily so help and version never touch the
// database.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.noteseek/data)")
}

// initServices opens the store, config, and embedding adapters and
// builds the service graph. Commands that need services call this at
// the top of their RunE; repeated calls are no-ops.
func initServices(ctx context.Context) error {
	if searchService != nil && indexService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore(flagDataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	apiKey := cfg.GetString("embedding.api_key")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey != "" {
		embedder, err = openai.NewEmbeddingService(openai.Config{
			APIKey:  apiKey,
			BaseURL: cfg.GetString("embedding.base_url"),
			Model:   cfg.GetString("embedding.model"),
		})
		if err != nil {
			return fmt.Errorf("configuring embeddings: %w", err)
		}
	} else {
		logger.Warn("No embedding API key configured; semantic search disabled")
	}

	params := services.NewParamsService(store.ParamStore())
	if err := params.Reload(ctx); err != nil {
		return fmt.Errorf("loading search params: %w", err)
	}

	fts := services.NewFullTextService(store.LexicalIndex())
	sem := services.NewSemanticService(store.VectorSearcher(), store.ChunkStore(), embedder)

	noteStore = store.NoteStore()
	storePath = store.Path()
	paramsService = params
	searchService = services.NewHybridService(fts, sem, params)
	indexService = services.NewIndexerService(noteStore, store.ChunkStore(), embedder, params)
	return nil
}
