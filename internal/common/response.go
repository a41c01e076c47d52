package common

import (
	"encoding/json"
	"log"
	"net/http"
)

type MessageResponse struct {
	Message string `json:"message"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, MessageResponse{Message: message})
}

// RespondWithDomainError maps a service error to its status code. Internal
// failures are logged server-side and replaced with a generic body.
func RespondWithDomainError(w http.ResponseWriter, err error) {
	code := HTTPStatusFromError(err)
	if code == http.StatusInternalServerError {
		log.Printf("internal error: %v", err)
		RespondWithError(w, code, "Server error")
		return
	}
	RespondWithError(w, code, err.Error())
}

// RespondWithValidationError returns field-level validation messages, e.g.
// {"errors":{"email":"Please include a valid email"}}.
func RespondWithValidationError(w http.ResponseWriter, err error) {
	RespondWithJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": err})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
