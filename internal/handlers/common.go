package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/talkease/internal/assistant"
	"github.com/lehigh-university-libraries/talkease/internal/models"
)

// Assistant answers questions for the HTTP surface
type Assistant interface {
	Submit(ctx context.Context, q assistant.Question) models.DisplayResult
	Listen(ctx context.Context, file *models.UploadedFile) models.DisplayResult
}

type Handler struct {
	assistant      Assistant
	maxUploadBytes int64
}

// New creates a Handler. maxUploadBytes <= 0 leaves request size to the hosting layer.
func New(a Assistant, maxUploadBytes int64) *Handler {
	return &Handler{
		assistant:      a,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", h.HandleAsk)
	mux.HandleFunc("/api/listen", h.HandleListen)
	mux.HandleFunc("/healthcheck", h.HandleHealthcheck)
	return mux
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}
