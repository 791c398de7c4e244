package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/omarshaarawi/fcbot/internal/service"
)

type Handler struct {
	assistant *service.AssistantService
	videos    service.VideoSearcher
}

func NewHandler(assistant *service.AssistantService, videos service.VideoSearcher) *Handler {
	return &Handler{assistant: assistant, videos: videos}
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type askRequest struct {
	Query string `json:"query"`
}

type statsRequest struct {
	Player    string `json:"player,omitempty"`
	Season    string `json:"season"`
	MatchType string `json:"match_type"`
}

type policyRequest struct {
	Policy string `json:"policy"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	key := uuid.NewString()
	if _, err := h.assistant.Session(r.Context(), key); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: key})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}
	h.assistant.Reset(key)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}
	opts, err := h.assistant.Options(r.Context(), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	var req askRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "query is required")
		return
	}

	reply, err := h.assistant.Ask(r.Context(), key, req.Query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// Stats completes the pending request of the session, or runs a one-shot
// lookup when a player name is given.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	var req statsRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Season) == "" || strings.TrimSpace(req.MatchType) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "season and match_type are required")
		return
	}

	var (
		reply service.Reply
		err   error
	)
	if req.Player != "" {
		reply, err = h.assistant.Stats(r.Context(), key, req.Player, req.Season, req.MatchType)
	} else {
		reply, err = h.assistant.CompleteStats(r.Context(), key, req.Season, req.MatchType)
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *Handler) SetPolicy(w http.ResponseWriter, r *http.Request) {
	key, ok := h.sessionKey(w, r)
	if !ok {
		return
	}

	var req policyRequest
	if !decode(w, r, &req) {
		return
	}

	policy, err := h.assistant.SetPolicy(r.Context(), key, req.Policy)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, policyRequest{Policy: string(policy)})
}

func (h *Handler) Videos(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")

	maxResults := 0
	if raw := r.URL.Query().Get("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			writeError(w, http.StatusBadRequest, "invalid_request", "max must be between 1 and 50")
			return
		}
		maxResults = n
	}

	results, err := h.videos.Search(r.Context(), keyword, maxResults)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"keyword": keyword,
		"videos":  results,
	})
}

// sessionKey reads the session id from the path and rejects ids that do not
// name a live session.
func (h *Handler) sessionKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "id")
	if _, err := uuid.Parse(key); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_session", "malformed session id")
		return "", false
	}
	if !h.assistant.HasSession(key) {
		writeError(w, http.StatusNotFound, "session_not_found", "session expired or unknown")
		return "", false
	}
	return key, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body")
		return false
	}
	return true
}
