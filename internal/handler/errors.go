package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/trip-itinerary/internal/domain"
)

// Error codes returned in ErrorDetail.Code.
const (
	codeValidation      = "validation_error"
	codeGeocodingFailed = "geocoding_failed"
	codeNotFound        = "not_found"
	codeBadRequest      = "bad_request"
	codeTooLarge        = "request_too_large"
	codeInternal        = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// notFoundBody returns an ErrorResponse for a missing resource.
// The caller supplies the human-readable message (e.g. "trip not found")
// because the handler is the layer that knows what was being looked up.
func notFoundBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: codeNotFound, Message: message}}
}

// validationBody returns an ErrorResponse for a domain validation failure.
func validationBody(err error) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: codeValidation, Message: unwrapMessage(err)}}
}

// geocodingBody returns an ErrorResponse naming the unresolvable destination.
func geocodingBody(err error) ErrorResponse {
	msg := err.Error()
	var gerr *domain.GeocodingError
	if errors.As(err, &gerr) {
		msg = gerr.Error()
	}
	return ErrorResponse{Error: ErrorDetail{Code: codeGeocodingFailed, Message: msg}}
}

// requestBody returns an ErrorResponse for a request rejected before
// reaching the service layer (e.g. malformed JSON or an invalid path id).
func requestBody(message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: codeBadRequest, Message: message}}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Update: validation error: destination is required" → "destination is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	prefix := domain.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

// writeJSON encodes v as the response body with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WarnContext(r.Context(), "write response", "error", err)
	}
}

// writeServiceError maps an error returned by the service layer onto an HTTP
// response. Unknown errors are logged and reported as a generic 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, r, http.StatusNotFound, notFoundBody(notFound))
	case errors.Is(err, domain.ErrValidation):
		s.writeJSON(w, r, http.StatusUnprocessableEntity, validationBody(err))
	case errors.Is(err, domain.ErrGeocoding):
		s.writeJSON(w, r, http.StatusUnprocessableEntity, geocodingBody(err))
	default:
		s.log.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimiddleware.GetReqID(r.Context()),
			"error", err,
		)
		s.writeJSON(w, r, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: codeInternal, Message: "internal server error"},
		})
	}
}

// writeDecodeError reports a request body that could not be read.
func (s *Server) writeDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeJSON(w, r, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: ErrorDetail{Code: codeTooLarge, Message: "request body too large"},
		})
		return
	}
	s.writeJSON(w, r, http.StatusBadRequest, requestBody(err.Error()))
}
