package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/mindease/internal/common"
	"github.com/dmitrijs2005/mindease/internal/dbx"
)

const (
	msgNoToken            = "No token provided"
	msgInvalidToken       = "Invalid token"
	msgInvalidCredentials = "Invalid credentials"
	msgSomethingWrong     = "Something went wrong!"
	msgBadBody            = "Invalid request body"
	msgTooManyRequests    = "Too many requests"
	msgNotFound           = "Not found"
	msgMethodNotAllowed   = "Method not allowed"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFor maps an error kind onto a status and a client-safe message.
// Anything unclassified is a 500 with fallback as the message, so driver
// or upstream details never reach the client.
func statusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrDuplicateKey):
		if msg, ok := common.PublicMessage(err); ok {
			return http.StatusBadRequest, msg
		}
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, common.ErrMissingToken):
		return http.StatusUnauthorized, msgNoToken
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, msgInvalidToken
	default:
		return http.StatusInternalServerError, fallback
	}
}

// writeError logs server-side failures and writes the mapped response.
// Store timeouts and lost connections are logged as warnings.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, msg := statusFor(err, fallback)
	if status >= http.StatusInternalServerError {
		l := requestLogger(r.Context(), s.logger)
		if dbx.IsTransient(err) {
			l.Warn(r.Context(), "request failed", "error", err.Error(), "transient", true)
		} else {
			l.Error(r.Context(), "request failed", "error", err.Error())
		}
	}
	writeErrorMessage(w, status, msg)
}
