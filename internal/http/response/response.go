// Package response writes the JSON bodies served by the development catalog API.
//
// The catalog contract returns bare JSON (an array of books, a single book).
// Some deployments wrap payloads in an Envelope instead; Mode selects which.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/bookverseapp/bookverse/internal/errors"
)

// Envelope is the wrapped response structure.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Success bool   `json:"success"`
}

// Mode controls how successful payloads are written.
type Mode int

// Payload modes.
const (
	Bare Mode = iota
	Wrapped
)

// Writer writes responses in one mode.
type Writer struct {
	Logger *slog.Logger
	Mode   Mode
}

// JSON writes data with the given status code.
func (rw Writer) JSON(w http.ResponseWriter, status int, data any) {
	if rw.Mode == Wrapped {
		data = Envelope{Success: status < 400, Data: data}
	}
	rw.write(w, status, data)
}

// Success writes a 200 OK response.
func (rw Writer) Success(w http.ResponseWriter, data any) {
	rw.JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response.
func (rw Writer) Created(w http.ResponseWriter, data any) {
	rw.JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes an error body. Both "error" and "message" carry the text so
// clients reading either key see it.
func (rw Writer) Error(w http.ResponseWriter, status int, message string) {
	rw.write(w, status, Envelope{Success: false, Error: message, Message: message})
}

// HandleError maps a domain error to its HTTP status.
// Validation becomes 400, not found 404, anything else 500.
func (rw Writer) HandleError(w http.ResponseWriter, err error) {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domainerrors.CodeValidation:
			rw.Error(w, http.StatusBadRequest, domainErr.Message)
			return
		case domainerrors.CodeNotFound:
			rw.Error(w, http.StatusNotFound, domainErr.Message)
			return
		}
	}

	if rw.Logger != nil {
		rw.Logger.Error("Unhandled error", "error", err)
	}
	rw.Error(w, http.StatusInternalServerError, "internal server error")
}

func (rw Writer) write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil && rw.Logger != nil {
		rw.Logger.Error("Failed to encode JSON response", "error", err)
	}
}
