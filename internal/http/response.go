package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"student-records/internal/services"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Status: statusError, Message: message})
}

// writeServiceError maps expected failures to their status and hides anything else behind a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr services.ServiceError
	if errors.As(err, &svcErr) {
		WriteError(w, svcErr.Status, svcErr.Message)
		return
	}
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	WriteError(w, http.StatusInternalServerError, "Internal server error")
}
