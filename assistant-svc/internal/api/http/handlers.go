package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"
	"time"

	"foodie/assistant-svc/internal/chat"
	"foodie/assistant-svc/internal/domain"
	"foodie/metrics"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	maxBodyBytes  = 8 << 20
	maxImageBytes = 5 << 20
)

var imageFormats = map[string]string{
	"image/jpeg": "jpeg",
	"image/jpg":  "jpeg",
	"image/png":  "png",
}

type Handler struct {
	Chat   chat.Service
	logger zerolog.Logger
}

func NewHandler(service chat.Service, logger zerolog.Logger) *Handler {
	return &Handler{
		Chat:   service,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	r.HandleFunc("/api/sessions", h.startSession).Methods("POST")
	r.HandleFunc("/api/sessions/{id}/history", h.getHistory).Methods("GET")
	r.HandleFunc("/api/chat", h.chat).Methods("POST")
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, chat.ErrSessionNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Session not found", Code: "not_found"})
	case errors.Is(err, chat.ErrInvalidCustomer):
		h.badRequest(w, err.Error())
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error", Code: "internal"})
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Code: "invalid_request"})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "assistant-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type startSessionRequest struct {
	CustomerID int    `json:"customer_id"`
	Name       string `json:"name"`
	Language   string `json:"language"`
}

type startSessionResponse struct {
	SessionID  string `json:"session_id"`
	CustomerID int    `json:"customer_id"`
	Language   string `json:"language"`
	Greeting   string `json:"greeting"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid JSON format: "+err.Error())
		return
	}

	session, greeting, err := h.Chat.StartSession(r.Context(), req.CustomerID, req.Name, req.Language)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, startSessionResponse{
		SessionID:  session.ID,
		CustomerID: session.CustomerID,
		Language:   session.Language,
		Greeting:   greeting,
	})
}

type imagePayload struct {
	Data     string `json:"data"`
	MIMEType string `json:"mime_type"`
}

type chatRequest struct {
	SessionID string        `json:"session_id"`
	Text      string        `json:"text"`
	Image     *imagePayload `json:"image,omitempty"`
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "Invalid JSON format: "+err.Error())
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		h.badRequest(w, "session_id is required")
		return
	}

	var img *domain.Image
	if req.Image != nil {
		decoded, err := decodeImage(req.Image)
		if err != nil {
			h.badRequest(w, err.Error())
			return
		}
		img = decoded
	}
	if strings.TrimSpace(req.Text) == "" && img == nil {
		h.badRequest(w, "text or image is required")
		return
	}

	result, err := h.Chat.HandleTurn(r.Context(), req.SessionID, req.Text, img)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// decodeImage accepts base64 JPEG or PNG data and checks that the bytes
// really are the declared format.
func decodeImage(p *imagePayload) (*domain.Image, error) {
	mimeType := strings.ToLower(strings.TrimSpace(p.MIMEType))
	format, ok := imageFormats[mimeType]
	if !ok {
		return nil, errors.New("only JPEG and PNG images are supported")
	}

	data, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return nil, errors.New("image data must be base64 encoded")
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		return nil, errors.New("image must be between 1 byte and 5 MB")
	}

	_, detected, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || detected != format {
		return nil, errors.New("image data does not match " + mimeType)
	}
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	return &domain.Image{Data: data, MIMEType: mimeType}, nil
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	history, err := h.Chat.History(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": id,
		"messages":   history,
	})
}
