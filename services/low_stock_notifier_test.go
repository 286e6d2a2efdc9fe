package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"inventory-order-service/models"
	"inventory-order-service/sender"
	"inventory-order-service/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ---- mock senders ----

type mockEmailSender struct {
	failures int
	calls    int
	to       []string
	subject  string
	body     string
}

func (m *mockEmailSender) SendEmail(_ context.Context, to, subject, body string) (sender.SendResult, error) {
	m.calls++
	if m.calls <= m.failures {
		return sender.SendResult{}, errors.New("smtp unavailable")
	}
	m.to = append(m.to, to)
	m.subject, m.body = subject, body
	return sender.SendResult{MessageID: "email-1"}, nil
}

type mockSMSSender struct {
	calls int
	err   error
}

func (m *mockSMSSender) SendSMS(_ context.Context, to, msg string) (sender.SendResult, error) {
	m.calls++
	return sender.SendResult{MessageID: "sms-1"}, m.err
}

type mockSNS struct {
	topic   string
	payload []byte
}

func (m *mockSNS) Publish(_ context.Context, topicArn, subject string, message []byte) (string, error) {
	m.topic = topicArn
	m.payload = append([]byte(nil), message...)
	return "sns-1", nil
}

type mockAlertRepo struct {
	mu     sync.Mutex
	alerts []models.LowStockAlert
}

func (m *mockAlertRepo) SaveLog(_ context.Context, alert *models.LowStockAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alerts = append(m.alerts, *alert)
	return nil
}

func (m *mockAlertRepo) GetLogs(_ context.Context, _ models.AlertFilter) ([]models.LowStockAlert, int64, error) {
	return m.alerts, int64(len(m.alerts)), nil
}

func lowProduct(stock int) models.Product {
	return models.Product{
		ID:           uuid.New(),
		Name:         "Wireless Mouse",
		SKU:          "MOU-1",
		Price:        decimal.NewFromInt(20),
		CurrentStock: stock,
	}
}

func TestLowStockNotifier_SendsOnEveryChannel(t *testing.T) {
	email := &mockEmailSender{}
	sms := &mockSMSSender{}
	sns := &mockSNS{}
	alerts := &mockAlertRepo{}
	n := services.NewLowStockNotifier(services.NotifierConfig{
		EmailRecipients: []string{"ops@shop.local", "buyer@shop.local"},
		SMSRecipients:   []string{"+15550001"},
		SNSTopicARN:     "arn:aws:sns:us-east-1:000000000000:low-stock",
	}, email, sms, sns, alerts, nil, zap.NewNop())

	n.Notify(context.Background(), lowProduct(2))

	assert.Equal(t, []string{"ops@shop.local", "buyer@shop.local"}, email.to)
	assert.Equal(t, "LOW STOCK ALERT: Wireless Mouse", email.subject)
	assert.Equal(t, "The stock for Wireless Mouse (SKU: MOU-1) has dropped to 2. Please place a new order with the supplier immediately.", email.body)
	assert.Equal(t, 1, sms.calls)

	var evt models.LowStockEvent
	require.NoError(t, json.Unmarshal(sns.payload, &evt))
	assert.Equal(t, models.EventLowStock, evt.EventType)
	assert.Equal(t, 2, evt.Stock)
	assert.Equal(t, services.DefaultLowStockThreshold, evt.Threshold)

	require.Len(t, alerts.alerts, 4)
	for _, a := range alerts.alerts {
		assert.Equal(t, models.AlertStatusSent, a.Status)
		assert.Equal(t, 2, a.StockLevel)
	}
}

func TestLowStockNotifier_AtOrAboveThresholdIsSilent(t *testing.T) {
	email := &mockEmailSender{}
	alerts := &mockAlertRepo{}
	n := services.NewLowStockNotifier(services.NotifierConfig{
		EmailRecipients: []string{"ops@shop.local"},
	}, email, nil, nil, alerts, nil, zap.NewNop())

	n.Notify(context.Background(), lowProduct(5))

	assert.Zero(t, email.calls)
	assert.Empty(t, alerts.alerts)
}

func TestLowStockNotifier_RetriesThenSucceeds(t *testing.T) {
	email := &mockEmailSender{failures: 2}
	alerts := &mockAlertRepo{}
	n := services.NewLowStockNotifier(services.NotifierConfig{
		EmailRecipients: []string{"ops@shop.local"},
	}, email, nil, nil, alerts, nil, zap.NewNop())

	n.Notify(context.Background(), lowProduct(0))

	assert.Equal(t, 3, email.calls)
	require.Len(t, alerts.alerts, 1)
	assert.Equal(t, models.AlertStatusSent, alerts.alerts[0].Status)
	assert.Equal(t, 2, alerts.alerts[0].RetryCount)
}

func TestLowStockNotifier_FailureIsRecordedAndSwallowed(t *testing.T) {
	sms := &mockSMSSender{err: errors.New("twilio down")}
	alerts := &mockAlertRepo{}
	n := services.NewLowStockNotifier(services.NotifierConfig{
		SMSRecipients: []string{"+15550001"},
		Threshold:     10,
	}, nil, sms, nil, alerts, nil, zap.NewNop())

	n.Notify(context.Background(), lowProduct(7))

	assert.Equal(t, 3, sms.calls)
	require.Len(t, alerts.alerts, 1)
	assert.Equal(t, models.AlertStatusFailed, alerts.alerts[0].Status)
	assert.Equal(t, "twilio down", alerts.alerts[0].Error)
	assert.Equal(t, models.ChannelSMS, alerts.alerts[0].Channel)
}
