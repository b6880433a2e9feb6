package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"restaurant-chatbot/internal/config"
	"restaurant-chatbot/internal/embedding"
	"restaurant-chatbot/internal/helper"
	"restaurant-chatbot/internal/models"
	"restaurant-chatbot/internal/parser"
	"restaurant-chatbot/internal/vectorstore"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}

	configPath := flag.String("config", configFilePath, "Path to the config file")
	dataDir := flag.String("data", "", "Directory of documents to index")
	datasetPath := flag.String("dataset", "", "Restaurant dataset JSON file to index")
	update := flag.Bool("update", false, "Add to the existing index instead of rebuilding it")
	dryRun := flag.Bool("dry-run", false, "Print the chunks that would be indexed and exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *dataDir == "" && *datasetPath == "" {
		if cfg.Restaurant.DataPath == "" {
			log.Fatal().Msg("Nothing to index, pass -data or -dataset")
		}
		*datasetPath = cfg.Restaurant.DataPath
	}

	chunks := collectChunks(cfg, *dataDir, *datasetPath)
	if len(chunks) == 0 {
		log.Fatal().Msg("No chunks produced from the given inputs")
	}
	log.Info().Int("chunks", len(chunks)).Msg("Collected chunks")

	if *dryRun {
		helper.PrettyPrint(chunks)
		return
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	ctx := context.Background()
	if err := embedding.Verify(ctx, embedder); err != nil {
		log.Fatal().Err(err).Msg("Embedding model unavailable")
	}

	start := time.Now()
	vectors, err := embedding.EmbedChunks(ctx, embedder, chunks)
	if err != nil {
		log.Fatal().Err(err).Msg("Error embedding chunks")
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("Embedded chunks")

	if *update {
		store, err := vectorstore.Load(cfg.RAG.StorePath, cfg.RAG.Collection, cfg.EmbedLLM.Model)
		if err != nil {
			log.Fatal().Err(err).Msg("Error loading vector store")
		}
		if err := store.Extend(ctx, chunks, vectors); err != nil {
			log.Fatal().Err(err).Msg("Error extending vector store")
		}
		log.Info().Int("total", store.Count()).Msg("Extended vector store")
		return
	}

	store, err := vectorstore.Build(cfg.RAG.StorePath, cfg.RAG.Collection, cfg.EmbedLLM.Model, chunks, vectors)
	if err != nil {
		log.Fatal().Err(err).Msg("Error building vector store")
	}
	log.Info().Int("total", store.Count()).Str("path", cfg.RAG.StorePath).Msg("Built vector store")
}

// collectChunks gathers chunks from the document directory and the dataset
// file, each at its own chunking granularity.
func collectChunks(cfg *config.Config, dataDir, datasetPath string) []models.Chunk {
	var chunks []models.Chunk
	if dataDir != "" {
		docChunks, err := parser.LoadDir(dataDir, parser.Options{
			ChunkSize:    cfg.RAG.DocChunkSize,
			ChunkOverlap: cfg.RAG.DocChunkOverlap,
		})
		if err != nil {
			log.Fatal().Err(err).Str("dir", dataDir).Msg("Error loading documents")
		}
		log.Info().Int("chunks", len(docChunks)).Str("dir", dataDir).Msg("Loaded documents")
		chunks = append(chunks, docChunks...)
	}
	if datasetPath != "" {
		dataset, err := parser.LoadDataset(datasetPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", datasetPath).Msg("Error loading dataset")
		}
		dataChunks := parser.ChunkUnits(dataset.Units(), datasetPath, parser.Options{
			ChunkSize:    cfg.RAG.DataChunkSize,
			ChunkOverlap: cfg.RAG.DataChunkOverlap,
		})
		log.Info().Int("chunks", len(dataChunks)).Str("path", datasetPath).Msg("Loaded dataset")
		chunks = append(chunks, dataChunks...)
	}
	return chunks
}
