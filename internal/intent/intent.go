package intent

import (
	"regexp"
	"strings"

	"restaurant-chatbot/internal/models"
)

// Classifier detects the intent of a user message. Two strategies exist:
// a keyword membership test where the first matching intent in priority
// order wins, and a pattern-count test where the intent with the strictly
// greatest number of matching regexes wins. Both are pure functions over the
// lowercased message.
type Classifier struct {
	patterns map[string][]*regexp.Regexp
	greeting []*regexp.Regexp
}

func NewClassifier() *Classifier {
	c := &Classifier{patterns: make(map[string][]*regexp.Regexp, len(models.IntentPatterns))}
	for intent, patterns := range models.IntentPatterns {
		compiled := make([]*regexp.Regexp, len(patterns))
		for i, pattern := range patterns {
			compiled[i] = regexp.MustCompile(pattern)
		}
		c.patterns[intent] = compiled
	}
	for _, pattern := range models.GreetingPatterns {
		c.greeting = append(c.greeting, regexp.MustCompile(pattern))
	}
	return c
}

// ClassifyKeywords is the membership-test strategy: the first intent in
// priority order with any keyword present in the message wins, defaulting to
// general_inquiry.
func (c *Classifier) ClassifyKeywords(message string) string {
	message = strings.ToLower(message)
	for _, intent := range models.Intents {
		for _, keyword := range models.IntentKeywords[intent] {
			if strings.Contains(message, keyword) {
				return intent
			}
		}
	}
	return models.IntentGeneralInquiry
}

// Classify is the canonical pattern-count strategy: the intent whose regex
// patterns match the message the strictly greatest number of times wins;
// ties and zero matches resolve to general_inquiry.
func (c *Classifier) Classify(message string) string {
	message = strings.ToLower(message)

	best := models.IntentGeneralInquiry
	bestCount := 0
	tied := false
	for _, intent := range models.Intents {
		count := c.matchCount(intent, message)
		switch {
		case count > bestCount:
			best = intent
			bestCount = count
			tied = false
		case count == bestCount && count > 0:
			tied = true
		}
	}
	if bestCount == 0 || tied {
		return models.IntentGeneralInquiry
	}
	return best
}

// Confidence reports per-intent match-count divided by pattern-count. It is a
// diagnostic for introspection and tests, never used in routing.
func (c *Classifier) Confidence(message string) map[string]float64 {
	message = strings.ToLower(message)
	scores := make(map[string]float64, len(c.patterns))
	for _, intent := range models.Intents {
		total := len(c.patterns[intent])
		if total == 0 {
			scores[intent] = 0
			continue
		}
		scores[intent] = float64(c.matchCount(intent, message)) / float64(total)
	}
	return scores
}

// IsGreeting reports whether the message is a bare greeting or
// about-the-bot question that needs no retrieval.
func (c *Classifier) IsGreeting(message string) bool {
	message = strings.ToLower(strings.TrimSpace(message))
	for _, pattern := range c.greeting {
		if pattern.MatchString(message) {
			return true
		}
	}
	return false
}

func (c *Classifier) matchCount(intent, message string) int {
	count := 0
	for _, pattern := range c.patterns[intent] {
		if pattern.MatchString(message) {
			count++
		}
	}
	return count
}
