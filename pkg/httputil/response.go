package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/DogWalkGo/pkg/errors"
	"github.com/utafrali/DogWalkGo/pkg/logger"
	"github.com/utafrali/DogWalkGo/pkg/validator"
)

// DefaultInternalMessage is returned for 500s when the caller gives none.
const DefaultInternalMessage = "an internal error occurred"

// ErrorEnvelope is the JSON body of every error response.
type ErrorEnvelope struct {
	Error ErrorResponse `json:"error"`
}

// ErrorResponse describes one error.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; an encode failure cannot be reported.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status and error envelope. Server errors are
// logged with the request-scoped logger and answered with internalMessage,
// so storage details never reach the client.
func WriteError(w http.ResponseWriter, r *http.Request, err error, internalMessage string) {
	status := apperrors.HTTPStatus(err)
	body := ErrorResponse{
		Code:      apperrors.Code(err),
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	}

	var appErr *apperrors.AppError
	switch {
	case status >= http.StatusInternalServerError:
		logger.FromContext(r.Context()).ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		body.Message = internalMessage
		if body.Message == "" {
			body.Message = DefaultInternalMessage
		}
		if status != http.StatusServiceUnavailable {
			status = http.StatusInternalServerError
			body.Code = "INTERNAL_ERROR"
		}
	case errors.As(err, &appErr):
		body.Message = appErr.Message
	default:
		body.Message = err.Error()
	}

	WriteJSON(w, status, ErrorEnvelope{Error: body})
}

// WriteValidationError writes a 400 with field-level messages when err is a
// validator.ValidationError, or the decode error text otherwise.
func WriteValidationError(w http.ResponseWriter, r *http.Request, err error) {
	body := ErrorResponse{
		Code:      "INVALID_INPUT",
		Message:   err.Error(),
		RequestID: logger.CorrelationIDFromContext(r.Context()),
	}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		body.Code = "VALIDATION_ERROR"
		body.Message = "request validation failed"
		body.Fields = valErr.Fields()
	}

	WriteJSON(w, http.StatusBadRequest, ErrorEnvelope{Error: body})
}

// ParseID parses a positive integer path parameter. On failure it writes a
// 400 INVALID_PARAMETER response and returns false.
func ParseID(w http.ResponseWriter, name, raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		WriteJSON(w, http.StatusBadRequest, ErrorEnvelope{Error: ErrorResponse{
			Code:    "INVALID_PARAMETER",
			Message: "invalid " + name + ": " + raw,
		}})
		return 0, false
	}
	return id, true
}
