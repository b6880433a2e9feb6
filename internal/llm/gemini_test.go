package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"restaurant-chatbot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc, cfg *config.GeminiConfig) *GeminiClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if cfg == nil {
		cfg = &config.GeminiConfig{APIKey: "test-key", Model: "gemini-2.0-flash", TimeoutSeconds: 5}
	}
	client := NewGeminiClient(cfg)
	client.baseURL = server.URL
	return client
}

func TestGenerate(t *testing.T) {
	var gotPath, gotKey string
	var gotBody generateRequest

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{Content: content{Parts: []part{{Text: "We open at 11am."}}}}},
		})
	}, nil)

	text, err := client.Generate(context.Background(), "When do you open?")
	require.NoError(t, err)
	assert.Equal(t, "We open at 11am.", text)

	assert.Equal(t, "/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "When do you open?", gotBody.Contents[0].Parts[0].Text)
	// No options set, so generationConfig is omitted entirely.
	assert.Nil(t, gotBody.GenerationConfig)
}

func TestGenerateSendsGenerationConfig(t *testing.T) {
	temperature := 0.5
	maxTokens := 512
	var gotBody generateRequest

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(generateResponse{
			Candidates: []candidate{{Content: content{Parts: []part{{Text: "ok"}}}}},
		})
	}, &config.GeminiConfig{
		APIKey:         "test-key",
		Model:          "gemini-2.0-flash",
		Temperature:    &temperature,
		MaxTokens:      &maxTokens,
		TimeoutSeconds: 5,
	})

	_, err := client.Generate(context.Background(), "hi")
	require.NoError(t, err)
	require.NotNil(t, gotBody.GenerationConfig)
	require.NotNil(t, gotBody.GenerationConfig.Temperature)
	assert.Equal(t, 0.5, *gotBody.GenerationConfig.Temperature)
	require.NotNil(t, gotBody.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, 512, *gotBody.GenerationConfig.MaxOutputTokens)
}

func TestGenerateServerError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}, nil)

	_, err := client.Generate(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestGenerateMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no candidates", `{"candidates": []}`},
		{"no parts", `{"candidates": [{"content": {"parts": []}}]}`},
		{"empty text", `{"candidates": [{"content": {"parts": [{"text": ""}]}}]}`},
		{"not json", `<html>gateway error</html>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}, nil)

			_, err := client.Generate(context.Background(), "hi")
			require.Error(t, err)
		})
	}
}

func TestGenerateContextCancelled(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Generate(ctx, "hi")
	require.Error(t, err)
}
