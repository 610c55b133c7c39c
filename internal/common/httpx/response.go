package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"laundry-service/internal/common/logger"
	"laundry-service/internal/domain"
)

// WriteJSON отдаёт JSON с нужным статусом
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem writes the simplified RFC 7807 body {type,title,status,detail}.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	WriteJSON(w, code, map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// WriteError maps domain sentinels to 404/400. Anything else is logged and
// reported as 500 without leaking the cause.
func WriteError(w http.ResponseWriter, r *http.Request, lg *logger.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		WriteProblem(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		WriteProblem(w, http.StatusBadRequest, "invalid_argument", err.Error())
	default:
		lg.WithRequestID(RequestIDFrom(r.Context())).Error("request_failed", err, map[string]any{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		WriteProblem(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// PathID parses a positive int64 path segment.
func PathID(r *http.Request, key string) (int64, error) {
	raw := r.PathValue(key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument("%s must be a positive integer, got %q", key, raw)
	}
	return id, nil
}

// QueryID parses a required positive int64 query parameter.
func QueryID(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, domain.InvalidArgument("%s is required", key)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidArgument("%s must be a positive integer, got %q", key, raw)
	}
	return id, nil
}
