package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"

	"restaurant-chatbot/internal/chat"
	"restaurant-chatbot/internal/config"
	"restaurant-chatbot/internal/db"
	"restaurant-chatbot/internal/embedding"
	"restaurant-chatbot/internal/intent"
	"restaurant-chatbot/internal/llm"
	"restaurant-chatbot/internal/prompt"
	"restaurant-chatbot/internal/rag"
	"restaurant-chatbot/internal/server"
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
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}

	classifier := intent.NewClassifier()
	history := connectHistory(cfg)
	service := buildService(cfg, classifier, history)

	srv := server.New(service, cfg.Server.ServiceName)
	log.Info().Str("addr", cfg.Server.Addr).Bool("demo", cfg.Demo.Enabled).Msg("Starting chat service")
	if err := http.ListenAndServe(cfg.Server.Addr, srv.Routes()); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

// connectHistory opens the conversation store. History is best-effort, so a
// missing DSN just disables persistence; a configured but unreachable
// database is a startup error.
func connectHistory(cfg *config.Config) *bun.DB {
	if cfg.Database.DSN == "" {
		log.Warn().Msg("No database configured, conversation history disabled")
		return nil
	}
	sqldb, err := db.ConnectDB(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	history := db.NewDB(sqldb, cfg.Database.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.InitDB(ctx, history); err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
	}
	return history
}

func buildService(cfg *config.Config, classifier *intent.Classifier, history *bun.DB) *chat.Service {
	if cfg.Demo.Enabled {
		responses, err := chat.LoadDemoResponses(cfg.Demo.ResponsesPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Error loading demo responses")
		}
		return chat.NewService(classifier, nil, history, true, responses, cfg.Restaurant.Name, cfg.Server.RenderHTML)
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := embedding.Verify(ctx, embedder); err != nil {
		log.Fatal().Err(err).Msg("Embedding model unavailable")
	}

	store, err := vectorstore.Load(cfg.RAG.StorePath, cfg.RAG.Collection, cfg.EmbedLLM.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading vector store")
	}
	log.Info().Int("chunks", store.Count()).Str("model", store.EmbeddingModel()).Msg("Loaded vector store")

	pipeline := rag.NewPipeline(store, embedder, prompt.NewBuilder(cfg.Restaurant.Name),
		llm.NewGeminiClient(&cfg.Gemini), cfg.RAG.TopK)
	return chat.NewService(classifier, pipeline, history, false, nil, cfg.Restaurant.Name, cfg.Server.RenderHTML)
}
