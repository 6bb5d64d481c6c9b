// Package api provides the HTTP surface of the loan conversation
// service: chat endpoints, salary-slip upload, and sanction-letter
// download.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/finbotics/loanflow/internal/domain"
	"github.com/finbotics/loanflow/internal/income"
	"github.com/finbotics/loanflow/internal/orchestrator"
)

// LetterSource resolves a sanction id to the letter file on disk.
type LetterSource interface {
	LetterPath(sanctionID string) (string, error)
}

// Handler serves the conversation API.
type Handler struct {
	orch    *orchestrator.Orchestrator
	letters LetterSource
	logger  *slog.Logger
}

// NewHandler creates a Handler with its dependencies.
func NewHandler(orch *orchestrator.Orchestrator, letters LetterSource, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{orch: orch, letters: letters, logger: logger}
}

// RegisterRoutes registers the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat/start", h.StartChat)
		r.Post("/chat", h.Chat)
		r.Post("/upload", h.Upload)
		r.Get("/session/{sessionID}", h.GetSession)
		r.Get("/sanction/download/{sanctionID}", h.DownloadSanction)
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// StartChat opens a new conversation session and returns the greeting.
func (h *Handler) StartChat(w http.ResponseWriter, r *http.Request) {
	out, err := h.orch.Start(r.Context())
	if err != nil {
		h.logger.Error("failed to start session", "error", err)
		Error(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	JSON(w, http.StatusOK, out)
}

// Chat processes one conversation turn.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" && req.SessionID != "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	out, err := h.orch.Handle(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.logger.Error("chat turn failed", "session_id", req.SessionID, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	JSON(w, http.StatusOK, out)
}

type sessionResponse struct {
	SessionID   string                  `json:"session_id"`
	Stage       domain.Stage            `json:"stage"`
	Customer    *domain.CustomerProfile `json:"customer,omitempty"`
	Application *domain.LoanApplication `json:"application,omitempty"`
	History     []domain.Message        `json:"conversation_history"`
}

// GetSession returns the current state of a conversation: stage,
// qualified customer, application and the full message history. Clients
// poll it to render a status panel alongside the chat.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	sess, err := h.orch.Session(r.Context(), sessionID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		Error(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to load session", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	JSON(w, http.StatusOK, sessionResponse{
		SessionID:   sess.ID,
		Stage:       sess.Stage,
		Customer:    sess.Customer,
		Application: sess.Application,
		History:     sess.History,
	})
}

// maxUploadBody caps the multipart body read; slightly above the
// largest accepted document so oversize files still reach validation
// and get an actionable message.
const maxUploadBody = income.MaxUploadSize + 1<<20

// Upload accepts a salary-slip document for a session awaiting income
// proof. Multipart form with fields "session_id" and "file".
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		Error(w, http.StatusBadRequest, "session_id is required")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		Error(w, http.StatusBadRequest, "failed to read file")
		return
	}

	out, err := h.orch.ProcessIncomeDocument(r.Context(), sessionID, filepath.Base(header.Filename), data)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		Error(w, http.StatusNotFound, "session not found")
		return
	case errors.Is(err, domain.ErrNotAwaitingUpload):
		Error(w, http.StatusConflict, "no income document is awaited for this session")
		return
	case err != nil:
		h.logger.Error("upload failed", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	JSON(w, http.StatusOK, out)
}

// DownloadSanction serves an issued sanction letter. Sanction ids are
// uuids; anything else cannot name a letter and is rejected before the
// path lookup.
func (h *Handler) DownloadSanction(w http.ResponseWriter, r *http.Request) {
	sanctionID := chi.URLParam(r, "sanctionID")
	if _, err := uuid.Parse(sanctionID); err != nil {
		Error(w, http.StatusNotFound, "sanction letter not found")
		return
	}
	path, err := h.letters.LetterPath(sanctionID)
	if errors.Is(err, domain.ErrSanctionNotFound) {
		Error(w, http.StatusNotFound, "sanction letter not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to resolve sanction letter", "sanction_id", sanctionID, "error", err)
		Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="sanction_`+sanctionID+`.txt"`)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	http.ServeFile(w, r, path)
}
