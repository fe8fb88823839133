package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/talkease/internal/assistant"
	"github.com/lehigh-university-libraries/talkease/internal/models"
)

const maxMemory = 32 << 20

func (h *Handler) HandleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.limitBody(w, r)

	// JSON requests carry only a typed question
	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var request struct {
			Question string `json:"question"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
		h.writeJSON(w, h.assistant.Submit(r.Context(), assistant.Question{Text: request.Question}))
		return
	}

	file, err := h.readUpload(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.assistant.Submit(r.Context(), assistant.Question{
		Text: r.FormValue("question"),
		File: file,
	}))
}

func (h *Handler) HandleListen(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.limitBody(w, r)

	file, err := h.readUpload(r)
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeJSON(w, h.assistant.Listen(r.Context(), file))
}

func (h *Handler) limitBody(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
}

// readUpload returns the optional "file" form field, or nil when none was sent
func (h *Handler) readUpload(r *http.Request) (*models.UploadedFile, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents: %w", err)
	}

	return &models.UploadedFile{
		ContentType: models.ResolveContentType(header.Header.Get("Content-Type"), header.Filename, data),
		Data:        data,
		Filename:    header.Filename,
	}, nil
}
