package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/omarshaarawi/fcbot/internal/catalog"
	"github.com/omarshaarawi/fcbot/internal/classifier"
	"github.com/omarshaarawi/fcbot/internal/resolver"
	"github.com/omarshaarawi/fcbot/internal/service"
	"github.com/omarshaarawi/fcbot/internal/stats"
	"github.com/omarshaarawi/fcbot/internal/video"
)

// ErrorResponse is the error shape of every API error.
type ErrorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	resp := ErrorResponse{}
	resp.Error.Code = code
	resp.Error.Message = message
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, status, resp)
}

// writeServiceError maps a request failure to a status code and the same
// text the chat front end would show.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, service.UserMessage(err))
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, resolver.ErrPlayerNotFound):
		return http.StatusNotFound, "player_not_found"
	case errors.Is(err, resolver.ErrAmbiguousPlayer):
		return http.StatusConflict, "ambiguous_player"
	case errors.Is(err, stats.ErrAggregationEmpty):
		return http.StatusNotFound, "no_player_data"
	case errors.Is(err, service.ErrNoPendingRequest):
		return http.StatusConflict, "no_pending_request"
	case errors.Is(err, resolver.ErrUnknownSeason),
		errors.Is(err, service.ErrUnknownMatchType),
		errors.Is(err, service.ErrInvalidPolicy),
		errors.Is(err, classifier.ErrEmptyQuery),
		errors.Is(err, video.ErrEmptyKeyword):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, catalog.ErrReferenceFetch):
		return http.StatusBadGateway, "reference_unavailable"
	case errors.Is(err, video.ErrVideoSearch):
		return http.StatusBadGateway, "video_search_failed"
	case errors.Is(err, classifier.ErrOracle), errors.Is(err, classifier.ErrClassification):
		return http.StatusBadGateway, "classification_failed"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
