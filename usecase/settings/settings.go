package settings

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/trackdesk/domain"
	"github.com/fastygo/trackdesk/repository"
)

// UseCase reads and writes the typed configuration forms.
type UseCase struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func New(repo repository.SettingsRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{repo: repo, logger: logger}
}

// General returns the stored general form, or defaults when nothing was saved yet.
func (uc *UseCase) General(ctx context.Context) (domain.GeneralSettings, error) {
	s := domain.DefaultGeneralSettings()
	_, at, err := uc.repo.Get(ctx, domain.SettingsGeneral, &s)
	if err != nil {
		uc.logger.Error("load general settings failed", zap.Error(err))
		return domain.GeneralSettings{}, err
	}
	s.UpdatedAt = at
	return s, nil
}

func (uc *UseCase) SaveGeneral(ctx context.Context, s domain.GeneralSettings) (domain.GeneralSettings, error) {
	s.SiteName = strings.TrimSpace(s.SiteName)
	s.SupportEmail = strings.TrimSpace(s.SupportEmail)
	if err := s.Validate(); err != nil {
		return domain.GeneralSettings{}, err
	}
	s.UpdatedAt = time.Time{}
	at, err := uc.repo.Put(ctx, domain.SettingsGeneral, s)
	if err != nil {
		uc.logger.Error("save general settings failed", zap.Error(err))
		return domain.GeneralSettings{}, err
	}
	s.UpdatedAt = at
	uc.logger.Info("general settings saved", zap.Bool("maintenance_mode", s.MaintenanceMode))
	return s, nil
}

// Email returns the stored e-mail form, or defaults when nothing was saved yet.
func (uc *UseCase) Email(ctx context.Context) (domain.EmailSettings, error) {
	s := domain.DefaultEmailSettings()
	_, at, err := uc.repo.Get(ctx, domain.SettingsEmail, &s)
	if err != nil {
		uc.logger.Error("load email settings failed", zap.Error(err))
		return domain.EmailSettings{}, err
	}
	s.UpdatedAt = at
	return s, nil
}

func (uc *UseCase) SaveEmail(ctx context.Context, s domain.EmailSettings) (domain.EmailSettings, error) {
	s.SMTPHost = strings.TrimSpace(s.SMTPHost)
	s.FromAddress = strings.TrimSpace(s.FromAddress)
	if err := s.Validate(); err != nil {
		return domain.EmailSettings{}, err
	}
	s.UpdatedAt = time.Time{}
	at, err := uc.repo.Put(ctx, domain.SettingsEmail, s)
	if err != nil {
		uc.logger.Error("save email settings failed", zap.Error(err))
		return domain.EmailSettings{}, err
	}
	s.UpdatedAt = at
	uc.logger.Info("email settings saved", zap.String("smtp_host", s.SMTPHost))
	return s, nil
}
