// internal/app/system/respond/respond.go
//
// Package respond writes the JSON envelope all endpoints share:
//
//	{"data": ..., "total_data": ..., "message": ...}
//
// total_data only appears on paginated list responses.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/admitflow/internal/app/system/apperrors"
	"go.uber.org/zap"
)

// Envelope is the uniform response body.
type Envelope struct {
	Data      any    `json:"data,omitempty"`
	TotalData *int64 `json:"total_data,omitempty"`
	Message   string `json:"message,omitempty"`
}

func write(w http.ResponseWriter, status int, env Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// OK writes a 200 with data and an optional message.
func OK(w http.ResponseWriter, data any, message string) {
	write(w, http.StatusOK, Envelope{Data: data, Message: message})
}

// Page writes a 200 with data and the total matched count.
func Page(w http.ResponseWriter, data any, total int64, message string) {
	write(w, http.StatusOK, Envelope{Data: data, TotalData: &total, Message: message})
}

// Created writes a 201 with data and an optional message.
func Created(w http.ResponseWriter, data any, message string) {
	write(w, http.StatusCreated, Envelope{Data: data, Message: message})
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	write(w, http.StatusBadRequest, Envelope{Message: message})
}

// Forbidden writes a 403 with the given message.
func Forbidden(w http.ResponseWriter, message string) {
	write(w, http.StatusForbidden, Envelope{Message: message})
}

// Error maps a domain error onto its status. Unrecognized errors are
// logged and surface as an opaque 500.
func Error(w http.ResponseWriter, errLog *zap.Logger, err error) {
	switch {
	case apperrors.IsInvalidID(err):
		write(w, http.StatusBadRequest, Envelope{Message: err.Error()})
	case apperrors.IsNotFound(err):
		write(w, http.StatusNotFound, Envelope{Message: err.Error()})
	case apperrors.IsBusinessRule(err):
		write(w, http.StatusUnprocessableEntity, Envelope{Message: err.Error()})
	default:
		if errLog != nil {
			errLog.Error("internal error", zap.Error(err))
		}
		write(w, http.StatusInternalServerError, Envelope{Message: "internal server error"})
	}
}
