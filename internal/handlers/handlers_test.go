package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/talkease/internal/assistant"
	"github.com/lehigh-university-libraries/talkease/internal/models"
)

type fakeAssistant struct {
	questions []assistant.Question
	listened  []*models.UploadedFile
}

func (f *fakeAssistant) Submit(ctx context.Context, q assistant.Question) models.DisplayResult {
	f.questions = append(f.questions, q)
	return models.DisplayResult{ID: "id-1", Kind: models.DisplayAnswer, Text: "answer"}
}

func (f *fakeAssistant) Listen(ctx context.Context, file *models.UploadedFile) models.DisplayResult {
	f.listened = append(f.listened, file)
	return models.DisplayResult{ID: "id-2", Kind: models.DisplayError, Text: assistant.MessageUnintelligible}
}

func multipartBody(t *testing.T, question, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if question != "" {
		if err := mw.WriteField("question", question); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	if filename != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
		if contentType != "" {
			header.Set("Content-Type", contentType)
		}
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("Failed to create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("Failed to write part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestHandleAskMultipart(t *testing.T) {
	fake := &fakeAssistant{}
	h := New(fake, 0)

	body, ct := multipartBody(t, "", "question.txt", "text/plain", []byte("What is 2+2?"))
	req := httptest.NewRequest(http.MethodPost, "/api/ask", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result models.DisplayResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Kind != models.DisplayAnswer || result.Text != "answer" {
		t.Errorf("Expected answer result, got %#v", result)
	}

	if len(fake.questions) != 1 {
		t.Fatalf("Expected one submission, got %d", len(fake.questions))
	}
	q := fake.questions[0]
	if q.Text != "" {
		t.Errorf("Expected no typed text, got %q", q.Text)
	}
	if q.File == nil {
		t.Fatal("Expected uploaded file")
	}
	if q.File.ContentType != "text/plain" || string(q.File.Data) != "What is 2+2?" || q.File.Filename != "question.txt" {
		t.Errorf("Unexpected file %#v", q.File)
	}
}

func TestHandleAskDetectsContentType(t *testing.T) {
	fake := &fakeAssistant{}
	h := New(fake, 0)

	body, ct := multipartBody(t, "describe it", "scan.pdf", "application/octet-stream", []byte("%PDF-1.4\n%%EOF\n"))
	req := httptest.NewRequest(http.MethodPost, "/api/ask", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.HandleAsk(rec, req)

	if len(fake.questions) != 1 || fake.questions[0].File == nil {
		t.Fatalf("Expected one submission with a file")
	}
	if got := fake.questions[0].File.ContentType; got != models.ContentTypePDF {
		t.Errorf("Expected %s, got %s", models.ContentTypePDF, got)
	}
	if fake.questions[0].Text != "describe it" {
		t.Errorf("Expected typed question, got %q", fake.questions[0].Text)
	}
}

func TestHandleAskJSON(t *testing.T) {
	fake := &fakeAssistant{}
	h := New(fake, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(`{"question":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	h.HandleAsk(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if len(fake.questions) != 1 || fake.questions[0].Text != "hello" || fake.questions[0].File != nil {
		t.Errorf("Unexpected submissions %#v", fake.questions)
	}
}

func TestHandleAskErrors(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		contentType  string
		body         string
		expectedCode int
	}{
		{name: "GET not allowed", method: http.MethodGet, expectedCode: http.StatusMethodNotAllowed},
		{name: "bad JSON", method: http.MethodPost, contentType: "application/json", body: "{", expectedCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAssistant{}
			h := New(fake, 0)

			req := httptest.NewRequest(tt.method, "/api/ask", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.HandleAsk(rec, req)

			if rec.Code != tt.expectedCode {
				t.Errorf("Expected %d, got %d", tt.expectedCode, rec.Code)
			}
			if len(fake.questions) != 0 {
				t.Errorf("Expected no submissions")
			}
		})
	}
}

func TestHandleAskUploadLimit(t *testing.T) {
	fake := &fakeAssistant{}
	h := New(fake, 16)

	body, ct := multipartBody(t, "", "big.txt", "text/plain", bytes.Repeat([]byte("a"), 1024))
	req := httptest.NewRequest(http.MethodPost, "/api/ask", body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()

	h.HandleAsk(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestHandleListen(t *testing.T) {
	fake := &fakeAssistant{}
	h := New(fake, 0)

	req := httptest.NewRequest(http.MethodPost, "/api/listen", nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(fake.listened) != 1 || fake.listened[0] != nil {
		t.Errorf("Expected one listen without file, got %#v", fake.listened)
	}
	var result models.DisplayResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Text != assistant.MessageUnintelligible {
		t.Errorf("Expected speech message, got %q", result.Text)
	}

	rec = httptest.NewRecorder()
	h.HandleListen(rec, httptest.NewRequest(http.MethodGet, "/api/listen", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rec.Code)
	}
}

func TestHealthcheck(t *testing.T) {
	h := New(&fakeAssistant{}, 0)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("Expected 200 OK, got %d %q", rec.Code, rec.Body.String())
	}
}
