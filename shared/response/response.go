package response

import (
	"encoding/json"
	"net/http"
)

// Body is the envelope every endpoint answers with.
type Body struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
	Error   bool   `json:"error"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes the envelope with the given status code.
func JSON(w http.ResponseWriter, code int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(Body{
		Message: message,
		Success: success,
		Error:   !success,
		Data:    data,
	})
}

// OK returns 200.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, true, message, data)
}

// Created returns 201.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, true, message, data)
}

// BadRequest returns 400.
func BadRequest(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusBadRequest, false, message, data)
}

// Unauthorized returns 401.
func Unauthorized(w http.ResponseWriter, message string) {
	JSON(w, http.StatusUnauthorized, false, message, nil)
}

// InternalError returns 500.
func InternalError(w http.ResponseWriter, message string) {
	JSON(w, http.StatusInternalServerError, false, message, nil)
}
