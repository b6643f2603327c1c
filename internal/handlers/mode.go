package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/services"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

type ModeHandler struct {
	service services.ModeService
	logger  *utils.Logger
}

func NewModeHandler(service services.ModeService, logger *utils.Logger) *ModeHandler {
	return &ModeHandler{service: service, logger: logger}
}

func (h *ModeHandler) GetMode(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, models.ModeResponse{Mode: h.service.Current()})
}

// SetMode answers failures with the mode still in effect so the page can put
// its control back.
func (h *ModeHandler) SetMode(w http.ResponseWriter, r *http.Request) {
	var req models.ModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.fail(w, utils.NewBadRequestError("Invalid request body"))
		return
	}

	if err := h.service.Set(r.Context(), req.Mode); err != nil {
		h.fail(w, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, models.ModeResponse{Success: true, Mode: req.Mode})
}

func (h *ModeHandler) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"
	if appErr, ok := utils.AsAppError(err); ok {
		status = appErr.StatusCode
		message = appErr.Message
	}

	h.logger.Error("Mode change failed", "status", status, "error", err)
	respondJSON(w, h.logger, status, models.ModeResponse{
		Error: message,
		Mode:  h.service.Current(),
	})
}
