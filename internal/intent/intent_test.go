package intent

import (
	"testing"

	"restaurant-chatbot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyKeywords(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"vegetarian question", "What vegetarian options do you have?", models.IntentMenuInquiry},
		{"vegan uppercase", "DO YOU HAVE VEGAN DISHES", models.IntentMenuInquiry},
		{"gluten", "is the pasta gluten free", models.IntentMenuInquiry},
		{"menu", "show me the menu", models.IntentMenuInquiry},
		{"reservation", "I'd like to book a table for 4 at 7pm", models.IntentReservationRequest},
		{"hours", "what time do you close on sunday", models.IntentHoursLocation},
		{"events", "any promotions this weekend", models.IntentSpecialEvents},
		{"greeting", "hello", models.IntentGeneralInquiry},
		{"unmatched", "thanks anyway", models.IntentGeneralInquiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ClassifyKeywords(tt.message))
		})
	}
}

func TestClassifyPatternCount(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"vegetarian question", "What vegetarian options do you have?", models.IntentMenuInquiry},
		{"book a table", "I'd like to book a table for 4 at 7pm", models.IntentReservationRequest},
		{"hello only", "hello", models.IntentGeneralInquiry},
		{"no match at all", "xyzzy", models.IntentGeneralInquiry},
		{"where located", "where are you located and is there parking", models.IntentHoursLocation},
		{"happy hour", "when is happy hour and is there live music", models.IntentSpecialEvents},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.message))
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := NewClassifier()
	for _, message := range []string{"VEGAN", "Gluten-Free please", "MeNu"} {
		assert.Equal(t, models.IntentMenuInquiry, c.ClassifyKeywords(message), message)
		assert.Equal(t, models.IntentMenuInquiry, c.Classify(message), message)
	}
}

func TestConfidence(t *testing.T) {
	c := NewClassifier()

	scores := c.Confidence("what vegetarian dishes are on the menu")
	require.Contains(t, scores, models.IntentMenuInquiry)

	// Menu patterns dominate; every intent gets a score in [0, 1].
	for intent, score := range scores {
		assert.GreaterOrEqual(t, score, 0.0, intent)
		assert.LessOrEqual(t, score, 1.0, intent)
	}
	assert.Greater(t, scores[models.IntentMenuInquiry], scores[models.IntentReservationRequest])

	empty := c.Confidence("xyzzy")
	for intent, score := range empty {
		assert.Zero(t, score, intent)
	}
}

func TestIsGreeting(t *testing.T) {
	c := NewClassifier()

	assert.True(t, c.IsGreeting("hello"))
	assert.True(t, c.IsGreeting("  Hi there "))
	assert.True(t, c.IsGreeting("good morning"))
	assert.True(t, c.IsGreeting("who are you"))

	assert.False(t, c.IsGreeting("hello, do you have vegan options?"))
	assert.False(t, c.IsGreeting("book a table"))
}
