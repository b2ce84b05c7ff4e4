package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"abst-data/internal/config"
	"abst-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWebhookNotifier_DisabledReturnsNil(t *testing.T) {
	assert.Nil(t, NewWebhookNotifier(config.NotifyConfig{Enabled: false}, zap.NewNop()))
	assert.Nil(t, NewWebhookNotifier(config.NotifyConfig{Enabled: true, WebhookURL: ""}, zap.NewNop()))
}

func TestNotifyUnderstaffed_PostsPayload(t *testing.T) {
	var got understaffedPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotifyConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		TimeoutSec: 2,
	}, zap.NewNop())
	require.NotNil(t, notifier)
	notifier.now = func() time.Time { return time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC) }

	err := notifier.NotifyUnderstaffed(context.Background(), []*domain.Shift{
		{
			ShiftID:            "sh1",
			Date:               time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC),
			TemplateName:       "Day Shift",
			ShiftType:          domain.ShiftTypeDay,
			RequiredStaffCount: 3,
			AssignedCount:      1,
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "shifts.understaffed", got.Event)
	assert.Equal(t, "2026-08-25T12:00:00Z", got.Timestamp)
	require.Len(t, got.Shifts, 1)
	assert.Equal(t, "sh1", got.Shifts[0].ShiftID)
	assert.Equal(t, "2026-08-26", got.Shifts[0].Date)
	assert.Equal(t, 3, got.Shifts[0].RequiredStaff)
	assert.Equal(t, 1, got.Shifts[0].AssignedStaff)
}

func TestNotifyUnderstaffed_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotifyConfig{Enabled: true, WebhookURL: server.URL}, zap.NewNop())
	require.NotNil(t, notifier)

	err := notifier.NotifyUnderstaffed(context.Background(), []*domain.Shift{{ShiftID: "sh1"}})
	assert.ErrorContains(t, err, "status 502")
}

func TestNotifyUnderstaffed_EmptyBatchNoCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(config.NotifyConfig{Enabled: true, WebhookURL: server.URL}, zap.NewNop())
	require.NoError(t, notifier.NotifyUnderstaffed(context.Background(), nil))
	assert.False(t, called)
}
