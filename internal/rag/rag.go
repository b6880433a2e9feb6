package rag

import (
	"context"
	"fmt"

	"restaurant-chatbot/internal/models"
	"restaurant-chatbot/internal/prompt"
	"restaurant-chatbot/internal/vectorstore"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"
)

// Generator produces a completion from an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Pipeline is the retrieval-augmented response path: embed the question,
// search the index, assemble an intent-specific prompt, call the model.
// The store and embedder are shared read-only across requests.
type Pipeline struct {
	store     *vectorstore.Store
	embedder  embeddings.Embedder
	prompts   *prompt.Builder
	generator Generator
	topK      int
}

func NewPipeline(store *vectorstore.Store, embedder embeddings.Embedder, prompts *prompt.Builder, generator Generator, topK int) *Pipeline {
	if topK <= 0 {
		topK = vectorstore.DefaultTopK
	}
	return &Pipeline{
		store:     store,
		embedder:  embedder,
		prompts:   prompts,
		generator: generator,
		topK:      topK,
	}
}

// Answer runs the full pipeline for one question. A question with no
// retrieval hits still goes to the model with an empty context; the model is
// instructed to admit when it does not know.
func (p *Pipeline) Answer(ctx context.Context, intent, question string) (*models.RAGAnswer, error) {
	queryVector, err := p.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	sources, err := p.store.Search(ctx, queryVector, p.topK)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("intent", intent).Int("hits", len(sources)).Msg("Retrieved context")

	assembled, err := p.prompts.Build(intent, question, sources)
	if err != nil {
		return nil, err
	}

	answer, err := p.generator.Generate(ctx, assembled)
	if err != nil {
		return nil, err
	}

	return &models.RAGAnswer{Answer: answer, Sources: sources}, nil
}
