package vectorstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"restaurant-chatbot/internal/models"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

// DefaultTopK keeps the retrieval context deliberately small so prompts stay
// short and on-topic.
const DefaultTopK = 3

const metaFileName = "index_meta.json"

// Meta is the version tag persisted next to the chromem files. Vectors from
// different embedding models silently corrupt similarity rankings, so Load
// refuses an index built with another model.
type Meta struct {
	EmbeddingModel string `json:"embedding_model"`
	Dimension      int    `json:"dimension"`
	Documents      int    `json:"documents"`
}

// Store wraps a persistent chromem-go collection of (vector, chunk, metadata)
// triples. The serving path treats a loaded Store as read-only; only the
// offline indexer mutates it.
type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	path       string
	meta       Meta
}

// Embeddings are always supplied by the caller, so a collection must never
// fall back to computing its own.
func noEmbeddingFunc(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("vector store does not embed; vectors are supplied by the caller")
}

// Build constructs a fresh index at path from a parallel sequence of chunks
// and their vectors. It fails if the two sequences differ in length. Building
// from zero chunks yields an empty, queryable index.
func Build(path, collectionName, embeddingModel string, chunks []models.Chunk, vectors [][]float32) (*Store, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("chunk/vector length mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("clearing old index at %s: %w", path, err)
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("creating index at %s: %w", path, err)
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, noEmbeddingFunc)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", collectionName, err)
	}

	s := &Store{
		db:         db,
		collection: collection,
		path:       path,
		meta:       Meta{EmbeddingModel: embeddingModel},
	}
	if len(vectors) > 0 {
		s.meta.Dimension = len(vectors[0])
	}
	if err := s.add(context.Background(), chunks, vectors); err != nil {
		return nil, err
	}
	if err := s.writeMeta(); err != nil {
		return nil, err
	}
	return s, nil
}

// Load restores the index at path. A missing or corrupt path fails with a
// clear error rather than silently yielding an empty index, and an index
// built with a different embedding model is refused.
func Load(path, collectionName, embeddingModel string) (*Store, error) {
	meta, err := readMeta(path)
	if err != nil {
		return nil, err
	}
	if meta.EmbeddingModel != embeddingModel {
		return nil, fmt.Errorf("index at %s was built with embedding model %q, configured model is %q; rebuild the index",
			path, meta.EmbeddingModel, embeddingModel)
	}

	db, err := chromem.NewPersistentDB(path, false)
	if err != nil {
		return nil, fmt.Errorf("index at %s is corrupt: %w", path, err)
	}
	collection := db.GetCollection(collectionName, noEmbeddingFunc)
	if collection == nil {
		return nil, fmt.Errorf("collection %s not found in index at %s", collectionName, path)
	}

	return &Store{db: db, collection: collection, path: path, meta: meta}, nil
}

// Search returns at most k chunks ordered by decreasing similarity. k <= 0
// falls back to DefaultTopK. Searching an empty index returns no results,
// not an error.
func (s *Store) Search(ctx context.Context, queryVector []float32, k int) ([]models.SearchResult, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryVector,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	searchResults := make([]models.SearchResult, 0, len(results))
	for _, result := range results {
		searchResults = append(searchResults, models.SearchResult{
			Chunk:      chunkFromResult(result),
			Similarity: result.Similarity,
		})
	}
	return searchResults, nil
}

// Extend appends new entries to the loaded index and re-persists its version
// tag. This is the incremental-update path; deletion and in-place update are
// not supported, staleness is handled by full rebuild.
func (s *Store) Extend(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector length mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}
	if s.meta.Dimension == 0 {
		s.meta.Dimension = len(vectors[0])
	} else if len(vectors[0]) != s.meta.Dimension {
		return fmt.Errorf("vector dimension %d does not match index dimension %d", len(vectors[0]), s.meta.Dimension)
	}
	if err := s.add(ctx, chunks, vectors); err != nil {
		return err
	}
	return s.writeMeta()
}

// Count reports the number of stored chunks.
func (s *Store) Count() int {
	return s.collection.Count()
}

// EmbeddingModel reports the model identifier the index was built with.
func (s *Store) EmbeddingModel() string {
	return s.meta.EmbeddingModel
}

func (s *Store) add(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) == 0 {
		return nil
	}
	base := s.meta.Documents
	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("%06d-%s-%d-%d", base+i, chunk.Source, chunk.PageNumber, chunk.ChunkID),
			Content:   chunk.Content,
			Metadata:  chunkMetadata(chunk),
			Embedding: vectors[i],
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding %d documents to index: %w", len(docs), err)
	}
	s.meta.Documents += len(chunks)
	log.Debug().Int("added", len(chunks)).Int("total", s.meta.Documents).Msg("Indexed chunks")
	return nil
}

func (s *Store) writeMeta() error {
	data, err := json.MarshalIndent(s.meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.path, metaFileName), data, 0o644); err != nil {
		return fmt.Errorf("writing index meta: %w", err)
	}
	return nil
}

func readMeta(path string) (Meta, error) {
	data, err := os.ReadFile(filepath.Join(path, metaFileName))
	if os.IsNotExist(err) {
		return Meta{}, fmt.Errorf("index not found at %s: %w", path, err)
	}
	if err != nil {
		return Meta{}, fmt.Errorf("reading index meta at %s: %w", path, err)
	}
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("index meta at %s is corrupt: %w", path, err)
	}
	return meta, nil
}

func chunkMetadata(chunk models.Chunk) map[string]string {
	return map[string]string{
		"source":   chunk.Source,
		"page":     strconv.Itoa(chunk.PageNumber),
		"chunk_id": strconv.Itoa(chunk.ChunkID),
	}
}

func chunkFromResult(result chromem.Result) models.Chunk {
	page, _ := strconv.Atoi(result.Metadata["page"])
	chunkID, _ := strconv.Atoi(result.Metadata["chunk_id"])
	return models.Chunk{
		Content:    result.Content,
		Source:     result.Metadata["source"],
		PageNumber: page,
		ChunkID:    chunkID,
	}
}
