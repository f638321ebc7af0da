package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/codemaplab/codemap/internal/errors"
	"github.com/codemaplab/codemap/internal/logger"
	"github.com/codemaplab/codemap/internal/models"
	"github.com/codemaplab/codemap/internal/services"
)

// TutorServer serves the chat tutor API. Replies stream over SSE.
type TutorServer struct {
	ChatService services.ChatService
	StaticDir   string
}

func (s *TutorServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Post("/api/sessions", s.handleStartSession)
	r.Get("/api/sessions/{id}/messages", s.handleHistory)
	r.Post("/api/sessions/{id}/messages", s.handleSendMessage)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(s.StaticDir))))
	return r
}

func (s *TutorServer) handleStartSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.ChatService.StartSession(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *TutorServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	messages, err := s.ChatService.History(r.Context(), sessionID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"messages": messages})
}

type sendMessageRequest struct {
	Message string `json:"message"`
}

// handleSendMessage streams the assistant reply as SSE events: "delta"
// events carry text chunks, "done" the stored message, "error" a failure.
// Headers are committed before the model call starts, so mid-stream failures
// surface as an error event rather than a status code.
func (s *TutorServer) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	sessionID := chi.URLParam(r, "id")

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		handleError(w, r, errors.NewInternalError(fmt.Errorf("streaming unsupported")))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	onDelta := func(delta string) error {
		if err := writeSSE(w, "delta", map[string]string{"text": delta}); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	msg, err := s.ChatService.SendMessage(r.Context(), sessionID, req.Message, onDelta)
	if err != nil {
		log.Warn("send message failed: %v", err)
		message := "reply failed"
		if appErr, ok := err.(*errors.AppError); ok {
			message = appErr.Message
		}
		_ = writeSSE(w, "error", map[string]string{"message": message})
		flusher.Flush()
		return
	}

	_ = writeSSE(w, "done", msg)
	flusher.Flush()
}

func writeSSE(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
