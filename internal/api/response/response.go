// Package response writes the JSON envelope every endpoint answers with:
// {"success":true,"data":...} or {"success":false,"error":{...}}.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dom/spark/internal/domain"
	"github.com/dom/spark/internal/validation"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "NOT_FOUND"
	CodeGeneration   = "GENERATION_FAILED"
	CodeInternal     = "INTERNAL_ERROR"
)

type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

type ErrorBody struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Error: &ErrorBody{Code: code, Message: message}})
}

func ValidationFailed(w http.ResponseWriter, verr *validation.RequestValidationError) {
	write(w, http.StatusBadRequest, Envelope{Error: &ErrorBody{
		Code:    CodeValidation,
		Message: verr.Error(),
		Fields:  verr.Fields,
	}})
}

var kinds = []struct {
	kind   error
	status int
	code   string
}{
	{domain.ErrValidation, http.StatusBadRequest, CodeValidation},
	{domain.ErrUnauthorized, http.StatusUnauthorized, CodeUnauthorized},
	{domain.ErrConflict, http.StatusConflict, CodeConflict},
	{domain.ErrNotFound, http.StatusNotFound, CodeNotFound},
	{domain.ErrGeneration, http.StatusInternalServerError, CodeGeneration},
}

// FromError maps a service error to its status and writes it. Errors of an
// unknown kind become a generic 500; the detail only goes to the log.
func FromError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, op string, err error) {
	entry := log.WithError(err).WithField("request_id", middleware.GetReqID(r.Context()))

	for _, k := range kinds {
		if errors.Is(err, k.kind) {
			if k.status >= http.StatusInternalServerError {
				entry.Errorf("[%s] request failed", op)
			} else {
				entry.Debugf("[%s] request rejected", op)
			}
			Error(w, k.status, k.code, Message(err, k.kind))
			return
		}
	}

	entry.Errorf("[%s] unexpected error", op)
	Error(w, http.StatusInternalServerError, CodeInternal, "internal server error")
}

// Message drops the kind prefix from err's text.
func Message(err, kind error) string {
	return strings.TrimPrefix(err.Error(), kind.Error()+": ")
}

func write(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
