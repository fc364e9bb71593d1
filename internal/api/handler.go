package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"vlivedl/internal/extract"
	"vlivedl/internal/vlive"
)

type handler struct {
	resolver Resolver
	log      zerolog.Logger
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Retryable bool   `json:"retryable,omitempty"`
}

// health handles GET /health.
func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// resolve handles GET /api/v1/resolve?url=...
func (h *handler) resolve(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing url parameter"})
		return
	}

	res, err := h.resolver.Resolve(r.Context(), rawURL)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Error().Err(err).Str("url", rawURL).Msg("resolve failed")
		}
		resp := errorResponse{Error: err.Error()}
		var se *vlive.StatusError
		if errors.As(err, &se) {
			resp.Retryable = se.Retryable()
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// statusFor maps extraction errors to HTTP status codes.
func statusFor(err error) int {
	var (
		statusErr  *vlive.StatusError
		unknownErr *vlive.UnknownStatusError
		parseErr   *vlive.ParseError
		authErr    *vlive.AuthError
	)
	switch {
	case errors.Is(err, vlive.ErrUnsupportedURL):
		return http.StatusBadRequest
	case errors.Is(err, extract.ErrDRMProtected):
		return http.StatusUnavailableForLegalReasons
	case errors.As(err, &statusErr):
		return http.StatusConflict
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &unknownErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
