package models

import "time"

// Chunk is a bounded segment of source text, the unit of embedding and
// retrieval. Immutable once created.
type Chunk struct {
	Content    string
	Source     string
	PageNumber int
	ChunkID    int
}

// SearchResult pairs a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk      Chunk
	Similarity float32
}

// ChatRequest is the inbound payload of the chat endpoint.
type ChatRequest struct {
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// SuggestedAction is a UI affordance attached to a reply, fully determined
// by the detected intent.
type SuggestedAction struct {
	ActionType string `json:"action_type"`
	Label      string `json:"label"`
	Value      string `json:"value"`
}

// ChatResponse is the outbound payload of the chat endpoint.
type ChatResponse struct {
	Response         string            `json:"response"`
	ResponseHTML     string            `json:"response_html,omitempty"`
	Intent           string            `json:"intent"`
	SuggestedActions []SuggestedAction `json:"suggested_actions"`
	Timestamp        time.Time         `json:"timestamp"`
}

// RAGAnswer is the output of the retrieval pipeline: the generated answer
// plus the sources of the retrieved context, in search-result order.
type RAGAnswer struct {
	Answer  string
	Sources []SearchResult
}
