package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"restaurant-chatbot/internal/db"
	"restaurant-chatbot/internal/helper"
	"restaurant-chatbot/internal/intent"
	"restaurant-chatbot/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Answerer runs the retrieval-augmented pipeline for one question.
type Answerer interface {
	Answer(ctx context.Context, intent, question string) (*models.RAGAnswer, error)
}

// Service assembles chat replies. All fields are set at construction and
// never mutated, so a single Service is safe for concurrent requests.
type Service struct {
	classifier     *intent.Classifier
	answerer       Answerer
	history        *bun.DB // nil disables persistence
	demoMode       bool
	demoResponses  map[string]string
	restaurantName string
	renderHTML     bool
	markdown       goldmark.Markdown
}

func NewService(classifier *intent.Classifier, answerer Answerer, history *bun.DB, demoMode bool, demoResponses map[string]string, restaurantName string, renderHTML bool) *Service {
	if demoResponses == nil {
		demoResponses = models.DefaultDemoResponses
	}
	return &Service{
		classifier:     classifier,
		answerer:       answerer,
		history:        history,
		demoMode:       demoMode,
		demoResponses:  demoResponses,
		restaurantName: restaurantName,
		renderHTML:     renderHTML,
		markdown:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// LoadDemoResponses reads a canned-response file and overlays it on the
// built-in defaults. An empty path yields the defaults unchanged.
func LoadDemoResponses(path string) (map[string]string, error) {
	responses := make(map[string]string, len(models.DefaultDemoResponses))
	for intentName, text := range models.DefaultDemoResponses {
		responses[intentName] = text
	}
	if path == "" {
		return responses, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading demo responses %s: %w", path, err)
	}
	var loaded map[string]string
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parsing demo responses %s: %w", path, err)
	}
	for intentName, text := range loaded {
		responses[intentName] = text
	}
	return responses, nil
}

// ProcessMessage turns one user message into a reply. Every pipeline failure
// degrades to the apology payload; the caller always gets a well-formed
// response to return with HTTP 200.
func (s *Service) ProcessMessage(ctx context.Context, req models.ChatRequest) models.ChatResponse {
	timestamp := time.Now().UTC()

	if s.demoMode {
		return s.finish(ctx, req, s.demoResponse(req.Message, timestamp))
	}

	if s.classifier.IsGreeting(req.Message) {
		return s.finish(ctx, req, models.ChatResponse{
			Response: fmt.Sprintf(
				"Hello! I'm the %s assistant. I can help with our menu, reservations, opening hours, and special events. What would you like to know?",
				s.restaurantName),
			Intent:           models.IntentGeneralInquiry,
			SuggestedActions: actionsFor(models.IntentGeneralInquiry),
			Timestamp:        timestamp,
		})
	}

	detected := s.classifier.Classify(req.Message)

	answer, err := s.answerer.Answer(ctx, detected, req.Message)
	if err != nil {
		log.Error().Err(err).Str("intent", detected).Msg("RAG pipeline failed")
		return s.finish(ctx, req, models.ChatResponse{
			Response:         models.ApologyMessage,
			Intent:           models.IntentError,
			SuggestedActions: []models.SuggestedAction{},
			Timestamp:        timestamp,
		})
	}

	return s.finish(ctx, req, models.ChatResponse{
		Response:         answer.Answer,
		Intent:           detected,
		SuggestedActions: actionsFor(detected),
		Timestamp:        timestamp,
	})
}

func (s *Service) demoResponse(message string, timestamp time.Time) models.ChatResponse {
	detected := s.classifier.ClassifyKeywords(message)
	text, ok := s.demoResponses[detected]
	if !ok {
		text = s.demoResponses[models.IntentGeneralInquiry]
	}
	return models.ChatResponse{
		Response:         text,
		Intent:           detected,
		SuggestedActions: actionsFor(detected),
		Timestamp:        timestamp,
	}
}

// finish renders optional HTML and persists the exchange best-effort before
// returning the reply.
func (s *Service) finish(ctx context.Context, req models.ChatRequest, resp models.ChatResponse) models.ChatResponse {
	if s.renderHTML {
		html, err := s.renderMarkdown(resp.Response)
		if err != nil {
			log.Warn().Err(err).Msg("Rendering response HTML failed")
		} else {
			resp.ResponseHTML = html
		}
	}
	s.store(ctx, req, resp)
	return resp
}

func (s *Service) store(ctx context.Context, req models.ChatRequest, resp models.ChatResponse) {
	if s.history == nil {
		return
	}
	id, err := helper.GenerateUUID()
	if err != nil {
		log.Warn().Err(err).Msg("Skipping history write")
		return
	}
	conversation := &db.Conversation{
		ID:                id,
		UserID:            req.UserID,
		SessionID:         req.SessionID,
		UserMessage:       req.Message,
		AssistantResponse: resp.Response,
		Intent:            resp.Intent,
		SuggestedActions:  resp.SuggestedActions,
		CreatedAt:         resp.Timestamp,
	}
	if err := db.StoreConversation(ctx, s.history, conversation); err != nil {
		// History durability is best-effort and never blocks the reply.
		log.Warn().Err(err).Str("session_id", req.SessionID).Msg("Storing conversation failed")
	}
}

func (s *Service) renderMarkdown(text string) (string, error) {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(text), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func actionsFor(intentName string) []models.SuggestedAction {
	actions := models.SuggestedActionsByIntent[intentName]
	// Empty stays an empty list in JSON, never null.
	return append([]models.SuggestedAction{}, actions...)
}
