package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

func respondJSON(w http.ResponseWriter, logger *utils.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// respondError writes {"error": message}. Errors that are not an AppError are
// reported as a generic 500.
func respondError(w http.ResponseWriter, logger *utils.Logger, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	if appErr, ok := utils.AsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}

	logger.Error("Request error", "status", status, "error", err)
	respondJSON(w, logger, status, map[string]string{"error": message})
}
