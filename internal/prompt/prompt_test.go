package prompt

import (
	"strings"
	"testing"

	"restaurant-chatbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResults() []models.SearchResult {
	return []models.SearchResult{
		{Chunk: models.Chunk{Content: "Menu Item: Quattro Formaggi"}, Similarity: 0.92},
		{Chunk: models.Chunk{Content: "Menu Item: Diavola"}, Similarity: 0.88},
	}
}

func TestBuildIntentTemplate(t *testing.T) {
	b := NewBuilder("Savory Haven")

	out, err := b.Build(models.IntentMenuInquiry, "any vegetarian pizza?", testResults())
	require.NoError(t, err)

	assert.Contains(t, out, "Savory Haven")
	assert.Contains(t, out, "asking about the menu")
	assert.Contains(t, out, "Question: any vegetarian pizza?")
	// Context chunks joined by newlines in search-result order.
	assert.Contains(t, out, "Menu Item: Quattro Formaggi\nMenu Item: Diavola")
	assert.NotContains(t, out, "{")
}

func TestBuildFallbackTemplate(t *testing.T) {
	b := NewBuilder("Savory Haven")

	out, err := b.Build(models.IntentGeneralInquiry, "tell me about the place", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "don't try to make up an answer")
	assert.Contains(t, out, "Question: tell me about the place")

	// Unknown intents also fall back to the generic template.
	other, err := b.Build("something_new", "tell me about the place", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(other, "You are a helpful restaurant assistant"))
}

func TestBuildEmptyContext(t *testing.T) {
	b := NewBuilder("Savory Haven")
	out, err := b.Build(models.IntentHoursLocation, "when do you open?", nil)
	require.NoError(t, err)
	assert.Contains(t, out, "Context: \n")
}

func TestRenderUnboundPlaceholder(t *testing.T) {
	_, err := render("Hello {name}, welcome to {restaurant_name}.", map[string]string{
		"restaurant_name": "Savory Haven",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbound placeholders: name")
}
