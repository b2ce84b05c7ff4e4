// Package notify pushes staffing alerts to an external webhook.
package notify

import (
	"context"
	"fmt"
	"time"

	"abst-data/internal/config"
	"abst-data/internal/domain"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// understaffedPayload webhook body for a batch of understaffed shifts.
type understaffedPayload struct {
	Event     string            `json:"event"`
	Timestamp string            `json:"timestamp"`
	Shifts    []understaffedRow `json:"shifts"`
}

type understaffedRow struct {
	ShiftID       string `json:"shift_id"`
	Date          string `json:"date"`
	TemplateName  string `json:"template_name"`
	ShiftType     string `json:"shift_type"`
	RequiredStaff int    `json:"required_staff"`
	AssignedStaff int    `json:"assigned_staff"`
}

// WebhookNotifier posts understaffed-shift alerts as JSON.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	logger     *zap.Logger
	now        func() time.Time
}

// NewWebhookNotifier returns nil when alerts are disabled so callers can
// treat the notifier as optional.
func NewWebhookNotifier(cfg config.NotifyConfig, logger *zap.Logger) *WebhookNotifier {
	if !cfg.Enabled || cfg.WebhookURL == "" {
		return nil
	}
	timeout := cfg.TimeoutSec
	if timeout <= 0 {
		timeout = 5
	}
	client := resty.New().
		SetTimeout(time.Duration(timeout) * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json")

	return &WebhookNotifier{
		httpClient: client,
		url:        cfg.WebhookURL,
		logger:     logger,
		now:        time.Now,
	}
}

func (n *WebhookNotifier) NotifyUnderstaffed(ctx context.Context, shifts []*domain.Shift) error {
	if len(shifts) == 0 {
		return nil
	}

	payload := understaffedPayload{
		Event:     "shifts.understaffed",
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}
	for _, shift := range shifts {
		payload.Shifts = append(payload.Shifts, understaffedRow{
			ShiftID:       shift.ShiftID,
			Date:          shift.Date.Format("2006-01-02"),
			TemplateName:  shift.TemplateName,
			ShiftType:     shift.ShiftType,
			RequiredStaff: shift.RequiredStaffCount,
			AssignedStaff: shift.AssignedCount,
		})
	}

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to post understaffed alert: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("understaffed alert rejected: status %d", resp.StatusCode())
	}

	n.logger.Info("understaffed alert sent",
		zap.Int("shift_count", len(shifts)),
		zap.Int("status", resp.StatusCode()))
	return nil
}
