package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"motherguard/internal/config"
	"motherguard/internal/models"
	"motherguard/internal/repository"
)

// TelegramNotifier pushes high/critical assessment alerts to the clinical
// team's Telegram channel. A nil notifier is valid and silently does nothing,
// so callers never need to branch on whether alerts are configured.
type TelegramNotifier struct {
	api         *tgbotapi.BotAPI
	chatID      int64
	patientRepo repository.PatientRepository
	logger      *zap.Logger
}

// NewTelegramNotifier creates the notifier, or (nil, nil) when alerts are
// disabled or no token is configured.
func NewTelegramNotifier(cfg *config.Config, patientRepo repository.PatientRepository, logger *zap.Logger) (*TelegramNotifier, error) {
	if !cfg.Alerts.Enabled || cfg.Alerts.TelegramBotToken == "" {
		logger.Info("Telegram alert notifier is disabled (alerts.enabled=false or token is empty)")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Alerts.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram alert notifier authorized", zap.String("username", botAPI.Self.UserName))

	return &TelegramNotifier{
		api:         botAPI,
		chatID:      cfg.Alerts.TelegramChatID,
		patientRepo: patientRepo,
		logger:      logger,
	}, nil
}

// NotifyAssessment formats and sends one alert message for an assessment.
func (n *TelegramNotifier) NotifyAssessment(ctx context.Context, a *models.RiskAssessment) error {
	if n == nil {
		return nil
	}

	patientName := fmt.Sprintf("patient #%d", a.PatientID)
	if patient, err := n.patientRepo.GetPatientByID(a.PatientID); err == nil {
		patientName = patient.FullName
	} else {
		n.logger.Warn("Failed to resolve patient name for alert",
			zap.Int64("patient_id", a.PatientID), zap.Error(err))
	}

	text := fmt.Sprintf("⚠️ %s risk for %s\nAssessed at %s\n%s",
		a.OverallRiskLevel, patientName,
		a.CalculatedAt.Format("2006-01-02 15:04"),
		formatFactors(a))

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send alert message: %w", err)
	}
	return nil
}

func formatFactors(a *models.RiskAssessment) string {
	out := ""
	for _, factor := range models.Factors {
		score := a.FactorScoreFor(factor)
		if !score.Available {
			continue
		}
		out += fmt.Sprintf("%s: %.0f%%\n", factor, score.Value*100)
	}
	return out
}
