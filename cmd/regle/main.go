// Command regle is the entry point for the regle CLI.
// It wires the storage, embedding and answer adapters into the core
// services and hands control to the command layer.
package main

import (
	"fmt"
	"os"

	answerollama "github.com/ludica-labs/regle/internal/adapters/driven/answer/ollama"
	answeropenai "github.com/ludica-labs/regle/internal/adapters/driven/answer/openai"
	"github.com/ludica-labs/regle/internal/adapters/driven/config/file"
	embedollama "github.com/ludica-labs/regle/internal/adapters/driven/embedding/ollama"
	embedopenai "github.com/ludica-labs/regle/internal/adapters/driven/embedding/openai"
	"github.com/ludica-labs/regle/internal/adapters/driven/extract"
	"github.com/ludica-labs/regle/internal/adapters/driven/storage/sqlite"
	"github.com/ludica-labs/regle/internal/adapters/driving/cli"
	"github.com/ludica-labs/regle/internal/core/ports/driven"
	"github.com/ludica-labs/regle/internal/core/services"
	"github.com/ludica-labs/regle/internal/postprocessors"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	store, err := sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	embedder, err := buildEmbedder(configStore)
	if err != nil {
		return err
	}
	if embedder != nil {
		defer embedder.Close()
	}

	answerer, err := buildAnswerer(configStore)
	if err != nil {
		return err
	}
	if answerer != nil {
		defer answerer.Close()
	}

	pipeline, err := buildPipeline(configStore)
	if err != nil {
		return err
	}

	extractors := []driven.Extractor{
		extract.NewPDFExtractor(),
		extract.NewPlainTextExtractor(),
	}

	var ingestOpts []services.IngestOption
	if rate := configStore.GetInt("ingest.embed_rate"); rate > 0 {
		ingestOpts = append(ingestOpts, services.WithEmbedRate(float64(rate)))
	}
	ingest := services.NewIngestService(store, extractors, pipeline, embedder, ingestOpts...)

	var retrievalOpts []services.RetrievalOption
	if configStore.GetString("retrieval.fusion") == "weighted" {
		retrievalOpts = append(retrievalOpts, services.WithWeightedSumFusion())
	}
	retrieval := services.NewRetrievalService(
		store, store.TextIndex(), store.VectorIndex(), embedder, retrievalOpts...)

	ask := services.NewAskService(retrieval, answerer)

	cli.SetVersion(version)
	cli.Configure(cli.Services{
		Ingest:    ingest,
		Retrieval: retrieval,
		Ask:       ask,
		Games:     store,
		Config:    configStore,
	})

	return cli.Execute()
}

// buildEmbedder constructs the embedding service named in config.
// An empty or "none" provider disables dense search.
func buildEmbedder(cfg driven.ConfigStore) (driven.EmbeddingService, error) {
	switch provider := cfg.GetString("embedding.provider"); provider {
	case "", "ollama":
		return embedollama.NewEmbeddingService(embedollama.Config{
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		}), nil
	case "openai":
		svc, err := embedopenai.NewEmbeddingService(embedopenai.Config{
			APIKey:     cfg.GetString("embedding.api_key"),
			BaseURL:    cfg.GetString("embedding.base_url"),
			Model:      cfg.GetString("embedding.model"),
			Dimensions: cfg.GetInt("embedding.dimensions"),
		})
		if err != nil {
			return nil, fmt.Errorf("configure openai embeddings: %w", err)
		}
		return svc, nil
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

// buildAnswerer constructs the answer generator named in config.
// Without one, ask falls back to printing the retrieved context.
func buildAnswerer(cfg driven.ConfigStore) (driven.AnswerService, error) {
	prompts, err := file.NewPromptStore(cfg.GetString("answer.prompt_dir"))
	if err != nil {
		return nil, fmt.Errorf("open prompt store: %w", err)
	}

	switch provider := cfg.GetString("answer.provider"); provider {
	case "", "none":
		return nil, nil
	case "ollama":
		svc := answerollama.NewAnswerService(answerollama.Config{
			BaseURL: cfg.GetString("answer.base_url"),
			Model:   cfg.GetString("answer.model"),
		})
		svc.SetPromptStore(prompts)
		return svc, nil
	case "openai":
		svc, err := answeropenai.NewAnswerService(answeropenai.Config{
			APIKey:  cfg.GetString("answer.api_key"),
			BaseURL: cfg.GetString("answer.base_url"),
			Model:   cfg.GetString("answer.model"),
		})
		if err != nil {
			return nil, fmt.Errorf("configure openai answers: %w", err)
		}
		svc.SetPromptStore(prompts)
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown answer provider %q", provider)
	}
}

// buildPipeline assembles the section post-processing pipeline from the
// processor registry, passing chunker settings from config.
func buildPipeline(cfg driven.ConfigStore) (driven.PostProcessorPipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	chunkerCfg := map[string]any{}
	for _, key := range []string{"target_words", "max_words", "min_words", "overlap_words"} {
		if v, ok := cfg.Get("chunker." + key); ok {
			chunkerCfg[key] = v
		}
	}

	chunker, err := registry.Build("chunker", chunkerCfg)
	if err != nil {
		return nil, fmt.Errorf("build chunker: %w", err)
	}

	return postprocessors.NewPipeline(chunker), nil
}
