package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"restaurant-chatbot/internal/intent"
	"restaurant-chatbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswerer struct {
	answer string
	err    error
	intent string
}

func (s *stubAnswerer) Answer(_ context.Context, intentName, _ string) (*models.RAGAnswer, error) {
	s.intent = intentName
	if s.err != nil {
		return nil, s.err
	}
	return &models.RAGAnswer{Answer: s.answer}, nil
}

func request(message string) models.ChatRequest {
	return models.ChatRequest{UserID: "u1", Message: message, SessionID: "s1"}
}

func TestProcessMessageLive(t *testing.T) {
	answerer := &stubAnswerer{answer: "We have three vegetarian pizzas."}
	service := NewService(intent.NewClassifier(), answerer, nil, false, nil, "Savory Haven", false)

	resp := service.ProcessMessage(context.Background(), request("What vegetarian options do you have?"))

	assert.Equal(t, models.IntentMenuInquiry, resp.Intent)
	assert.Equal(t, models.IntentMenuInquiry, answerer.intent)
	assert.Equal(t, "We have three vegetarian pizzas.", resp.Response)
	assert.False(t, resp.Timestamp.IsZero())

	var actionTypes []string
	for _, action := range resp.SuggestedActions {
		actionTypes = append(actionTypes, action.ActionType)
	}
	assert.Contains(t, actionTypes, "view_menu")
}

func TestProcessMessageReservation(t *testing.T) {
	answerer := &stubAnswerer{answer: "What time works for you?"}
	service := NewService(intent.NewClassifier(), answerer, nil, false, nil, "Savory Haven", false)

	resp := service.ProcessMessage(context.Background(), request("I'd like to book a table for 4 at 7pm"))

	assert.Equal(t, models.IntentReservationRequest, resp.Intent)
	require.Len(t, resp.SuggestedActions, 1)
	assert.Equal(t, "make_reservation", resp.SuggestedActions[0].ActionType)
}

func TestProcessMessageGreetingSkipsPipeline(t *testing.T) {
	answerer := &stubAnswerer{err: errors.New("must not be called")}
	service := NewService(intent.NewClassifier(), answerer, nil, false, nil, "Savory Haven", false)

	resp := service.ProcessMessage(context.Background(), request("hello"))

	assert.Equal(t, models.IntentGeneralInquiry, resp.Intent)
	assert.Contains(t, resp.Response, "Savory Haven")
	assert.Empty(t, resp.SuggestedActions)
	assert.NotNil(t, resp.SuggestedActions)
}

func TestProcessMessagePipelineFailure(t *testing.T) {
	answerer := &stubAnswerer{err: errors.New("gemini api returned 500")}
	service := NewService(intent.NewClassifier(), answerer, nil, false, nil, "Savory Haven", false)

	resp := service.ProcessMessage(context.Background(), request("what's on the menu tonight"))

	assert.Equal(t, models.ApologyMessage, resp.Response)
	assert.Equal(t, models.IntentError, resp.Intent)
	assert.Empty(t, resp.SuggestedActions)
	assert.NotNil(t, resp.SuggestedActions)
}

func TestProcessMessageDemoMode(t *testing.T) {
	// Demo mode never touches the pipeline.
	service := NewService(intent.NewClassifier(), nil, nil, true, nil, "Savory Haven", false)

	tests := []struct {
		message    string
		wantIntent string
	}{
		{"Do you have vegan dishes?", models.IntentMenuInquiry},
		{"book a table please", models.IntentReservationRequest},
		{"where are you located", models.IntentHoursLocation},
		{"any deals today", models.IntentSpecialEvents},
		{"hmm", models.IntentGeneralInquiry},
	}

	for _, tt := range tests {
		resp := service.ProcessMessage(context.Background(), request(tt.message))
		assert.Equal(t, tt.wantIntent, resp.Intent, tt.message)
		assert.Equal(t, models.DefaultDemoResponses[tt.wantIntent], resp.Response, tt.message)
	}
}

func TestProcessMessageRendersHTML(t *testing.T) {
	answerer := &stubAnswerer{answer: "Try our **Quattro Formaggi**."}
	service := NewService(intent.NewClassifier(), answerer, nil, false, nil, "Savory Haven", true)

	resp := service.ProcessMessage(context.Background(), request("what pizza do you have"))

	assert.Contains(t, resp.ResponseHTML, "<strong>Quattro Formaggi</strong>")
	assert.Equal(t, "Try our **Quattro Formaggi**.", resp.Response)
}

func TestLoadDemoResponses(t *testing.T) {
	responses, err := LoadDemoResponses("")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultDemoResponses[models.IntentMenuInquiry], responses[models.IntentMenuInquiry])

	path := filepath.Join(t.TempDir(), "demo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"menu_inquiry": "Custom menu pitch."}`), 0o644))

	responses, err = LoadDemoResponses(path)
	require.NoError(t, err)
	assert.Equal(t, "Custom menu pitch.", responses[models.IntentMenuInquiry])
	// Untouched intents keep their defaults.
	assert.Equal(t, models.DefaultDemoResponses[models.IntentHoursLocation], responses[models.IntentHoursLocation])
}

func TestLoadDemoResponsesBadFile(t *testing.T) {
	_, err := LoadDemoResponses(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))
	_, err = LoadDemoResponses(path)
	require.Error(t, err)
}
