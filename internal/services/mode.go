package services

import (
	"context"
	"fmt"

	"github.com/BerylCAtieno/medical-record-assistant/internal/analyzer"
	"github.com/BerylCAtieno/medical-record-assistant/internal/models"
	"github.com/BerylCAtieno/medical-record-assistant/internal/repository"
	"github.com/BerylCAtieno/medical-record-assistant/internal/utils"
)

type ModeService interface {
	Current() models.ProcessingMode
	Set(ctx context.Context, mode models.ProcessingMode) error
}

type modeService struct {
	settings repository.SettingsRepository
	inferrer analyzer.Inferrer
	logger   *utils.Logger
}

// NewModeService restores the persisted mode, if any, onto the inferrer.
func NewModeService(ctx context.Context, settings repository.SettingsRepository, inf analyzer.Inferrer, logger *utils.Logger) (ModeService, error) {
	saved, ok, err := settings.Get(ctx, repository.SettingInferenceMode)
	if err != nil {
		return nil, fmt.Errorf("failed to load inference mode: %w", err)
	}
	if ok {
		if err := inf.SetMode(models.ProcessingMode(saved)); err != nil {
			logger.Warn("Ignoring persisted inference mode", "mode", saved, "error", err)
		}
	}

	logger.Info("Inference mode", "mode", inf.Mode())
	return &modeService{settings: settings, inferrer: inf, logger: logger}, nil
}

func (s *modeService) Current() models.ProcessingMode {
	return s.inferrer.Mode()
}

func (s *modeService) Set(ctx context.Context, mode models.ProcessingMode) error {
	if !mode.Valid() {
		return utils.NewBadRequestError("Invalid inference mode, must be local or server")
	}
	if err := s.settings.Set(ctx, repository.SettingInferenceMode, string(mode)); err != nil {
		s.logger.Error("Failed to persist inference mode", "error", err, "mode", mode)
		return utils.WrapInternalError("failed to save inference mode", err)
	}
	if err := s.inferrer.SetMode(mode); err != nil {
		return utils.WrapInternalError("failed to switch inference mode", err)
	}

	s.logger.Info("Inference mode changed", "mode", mode)
	return nil
}
