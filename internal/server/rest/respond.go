// Package rest exposes the public JSON API: the auth endpoints, the note
// endpoints, and the request middleware that gates protected operations.
package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/notevault/internal/common"
)

// envelope is the response shape shared by all endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// writeError translates the domain error taxonomy into a status code and a
// stable caller-visible message. Unknown errors collapse into a generic 500
// so that internal detail never crosses the API boundary.
func writeError(w http.ResponseWriter, err error) {
	status, message := http.StatusInternalServerError, "Internal server error."

	switch {
	case errors.Is(err, common.ErrValidation):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrNotFound):
		status, message = http.StatusNotFound, "Not found."
	case errors.Is(err, common.ErrAlreadyExists):
		status, message = http.StatusBadRequest, "Email already in use."
	case errors.Is(err, common.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "Invalid password."
	case errors.Is(err, common.ErrInvalidOTP):
		status, message = http.StatusBadRequest, "Invalid or expired OTP."
	case errors.Is(err, common.ErrDeliveryFailure):
		status, message = http.StatusBadGateway, "Failed to send OTP email."
	case errors.Is(err, common.ErrRateLimited):
		status, message = http.StatusTooManyRequests, "Too many attempts. Try again later."
	case errors.Is(err, common.ErrTokenExpired):
		status, message = http.StatusUnauthorized, "Token has expired. Please login again."
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrUnauthenticated):
		status, message = http.StatusUnauthorized, "Invalid token."
	case errors.Is(err, common.ErrForbidden):
		status, message = http.StatusForbidden, "Access denied."
	}

	writeJSON(w, status, envelope{Success: false, Message: message})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return common.ErrValidation
	}
	return nil
}
