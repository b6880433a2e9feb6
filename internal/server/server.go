package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"restaurant-chatbot/internal/models"

	"github.com/rs/zerolog/log"
)

// MessageProcessor turns one chat request into a reply. Business-logic
// failures surface inside the reply payload, never as transport errors.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, req models.ChatRequest) models.ChatResponse
}

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Server struct {
	processor   MessageProcessor
	serviceName string
}

func New(processor MessageProcessor, serviceName string) *Server {
	return &Server{processor: processor, serviceName: serviceName}
}

// Routes wires the chat and health endpoints.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	resp := s.processor.ProcessMessage(r.Context(), req)

	log.Info().
		Str("session_id", req.SessionID).
		Str("intent", resp.Intent).
		Dur("duration", time.Since(started)).
		Msg("Handled chat request")

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy", Service: s.serviceName})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Writing response failed")
	}
}
