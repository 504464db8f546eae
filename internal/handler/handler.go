// Package handler exposes the storefront services over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"bakery-storefront/internal/model"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Int("status", status).Str("path", r.URL.Path).Msg(message)

	writeJSON(w, status, model.ErrorResponse{
		Error:         code,
		Message:       message,
		CorrelationID: chimw.GetReqID(r.Context()),
	})
}

// statusFor maps a domain error kind to its HTTP status.
func statusFor(kind model.ErrorKind) int {
	switch kind {
	case model.KindNotFound:
		return http.StatusNotFound
	case model.KindConflict:
		return http.StatusConflict
	case model.KindUnauthorized:
		return http.StatusUnauthorized
	case model.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// writeServiceError translates a service error. Anything that is not a
// domain error is an infrastructure failure and its detail stays in the log.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	if de, ok := model.AsDomainError(err); ok {
		writeError(w, r, statusFor(de.Kind), de.Code, de.Message, logger)
		return
	}
	logger.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return err
	}
	return nil
}

func writeInvalidJSON(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body: "+err.Error(), logger)
}

// queryInt parses the integer query parameter name, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewDomainError(model.ErrCodeValidation, "invalid "+name+" parameter")
	}
	return v, nil
}
