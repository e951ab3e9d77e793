package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"class-notifier/internal/notifier"
	"class-notifier/internal/registry"
	"class-notifier/internal/timetable"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Error: message})
}

// writePipelineError maps a pipeline error onto a status code. Anything that is
// not a known client side condition is a 500 with a generic body, the details
// only go to the logs.
func writePipelineError(w http.ResponseWriter, err error) {
	var validationErr *registry.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "Missing required parameters")
	case errors.Is(err, notifier.ErrClassNotFound):
		writeError(w, http.StatusNotFound, "Class not found")
	case errors.Is(err, notifier.ErrNoSportUniform):
		writeError(w, http.StatusNotFound, "No Sport uniform found")
	case errors.Is(err, timetable.ErrMissingCredentials):
		writeError(w, http.StatusNotFound, "Missing portal credentials")
	case errors.Is(err, registry.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
