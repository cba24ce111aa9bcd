package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"ordering-be/internal/apperr"
	"ordering-be/internal/logger"
	"ordering-be/internal/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const defaultMessage = "Success"

// Envelope wraps every JSON body the API returns.
type Envelope struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      any       `json:"data,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// requestError is a malformed path, query or body value.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body Envelope) {
	body.Timestamp = time.Now()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.FromCtx(r.Context()).Error("failed to write response", zap.Error(err))
	}
}

func ok(w http.ResponseWriter, r *http.Request, data any) {
	writeJSON(w, r, http.StatusOK, Envelope{Success: true, Message: defaultMessage, Data: data})
}

func okMessage(w http.ResponseWriter, r *http.Request, message string, data any) {
	writeJSON(w, r, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func created(w http.ResponseWriter, r *http.Request, message string, data any) {
	writeJSON(w, r, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// writeError maps the error taxonomy onto HTTP statuses. Anything
// unclassified is logged and reported as a 500 without its details.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr     *requestError
		validation validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, r, http.StatusBadRequest, Envelope{
			Message: "Validation failed",
			Data:    validationDetails(validation),
		})
	case errors.As(err, &reqErr):
		writeJSON(w, r, http.StatusBadRequest, Envelope{Message: reqErr.msg})
	case apperr.IsNotFound(err):
		writeJSON(w, r, http.StatusNotFound, Envelope{Message: err.Error()})
	case apperr.IsOptimisticLock(err):
		writeJSON(w, r, http.StatusConflict, Envelope{Message: err.Error()})
	case apperr.IsBusiness(err):
		writeJSON(w, r, http.StatusBadRequest, Envelope{Message: err.Error()})
	default:
		logger.FromCtx(r.Context()).Error("unhandled error",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("client", utils.ClientIDFrom(r.Context())),
			zap.Bool("internal", utils.IsInternalRequest(r.Context())),
			zap.Error(err),
		)
		writeJSON(w, r, http.StatusInternalServerError, Envelope{Message: "An unexpected error occurred"})
	}
}

// WriteStatus writes a failure envelope carrying only a message. It serves
// middleware that rejects requests before they reach a handler.
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, Envelope{Message: message})
}
