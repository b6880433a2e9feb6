package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"restaurant-chatbot/internal/models"
)

var placeholderRe = regexp.MustCompile(`\{([a-z_]+)\}`)

// Builder selects an intent-keyed template and fills its placeholders with
// the retrieved context, the question, and static domain facts.
type Builder struct {
	restaurantName string
}

func NewBuilder(restaurantName string) *Builder {
	return &Builder{restaurantName: restaurantName}
}

// Build renders the prompt for an intent. Intents without a dedicated
// template fall back to the generic one. An unbound placeholder is an error:
// callers must supply every value a template references.
func (b *Builder) Build(intent, question string, contextChunks []models.SearchResult) (string, error) {
	template, ok := models.IntentPromptTemplates[intent]
	if !ok {
		template = models.BasePromptTemplate
	}
	return render(template, map[string]string{
		"context":         joinContext(contextChunks),
		"question":        question,
		"restaurant_name": b.restaurantName,
	})
}

// joinContext concatenates retrieved chunk texts in search-result order.
func joinContext(results []models.SearchResult) string {
	texts := make([]string, len(results))
	for i, result := range results {
		texts[i] = result.Chunk.Content
	}
	return strings.Join(texts, "\n")
}

func render(template string, values map[string]string) (string, error) {
	var unbound []string
	rendered := placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := values[name]
		if !ok {
			unbound = append(unbound, name)
			return match
		}
		return value
	})
	if len(unbound) > 0 {
		return "", fmt.Errorf("prompt template references unbound placeholders: %s", strings.Join(unbound, ", "))
	}
	return rendered, nil
}
