package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-order-service/models"
	awspkg "inventory-order-service/pkg/aws"
	"inventory-order-service/repository"
	"inventory-order-service/sender"

	"go.uber.org/zap"
)

const (
	DefaultLowStockThreshold = 5
	defaultAlertAttempts     = 3
)

type NotifierConfig struct {
	Threshold       int
	EmailRecipients []string
	SMSRecipients   []string
	SNSTopicARN     string
	MaxAttempts     int
	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration
}

// LowStockNotifier alerts on every configured channel when a product's
// stock has dropped below the threshold. It never returns an error: every
// outcome is logged and stored as a LowStockAlert.
type LowStockNotifier struct {
	cfg     NotifierConfig
	email   sender.EmailSender
	sms     sender.SMSSender
	sns     awspkg.SNSPublisher
	alerts  repository.AlertRepository
	metrics MetricsRecorder
	logger  *zap.Logger
}

// NewLowStockNotifier builds a notifier. Any sender may be nil, which
// disables that channel.
func NewLowStockNotifier(
	cfg NotifierConfig,
	email sender.EmailSender,
	sms sender.SMSSender,
	sns awspkg.SNSPublisher,
	alerts repository.AlertRepository,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *LowStockNotifier {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultLowStockThreshold
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultAlertAttempts
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &LowStockNotifier{
		cfg:     cfg,
		email:   email,
		sms:     sms,
		sns:     sns,
		alerts:  alerts,
		metrics: metrics,
		logger:  logger,
	}
}

func (n *LowStockNotifier) Threshold() int {
	return n.cfg.Threshold
}

func LowStockSubject(p models.Product) string {
	return fmt.Sprintf("LOW STOCK ALERT: %s", p.Name)
}

func LowStockBody(p models.Product) string {
	return fmt.Sprintf("The stock for %s (SKU: %s) has dropped to %d. Please place a new order with the supplier immediately.",
		p.Name, p.SKU, p.CurrentStock)
}

// Notify looks at the product's stock as committed and alerts when it is
// below the threshold.
func (n *LowStockNotifier) Notify(ctx context.Context, product models.Product) {
	if product.CurrentStock >= n.cfg.Threshold {
		return
	}

	subject := LowStockSubject(product)
	body := LowStockBody(product)

	n.logger.Warn("product stock below threshold",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
		zap.Int("stock", product.CurrentStock),
		zap.Int("threshold", n.cfg.Threshold),
	)
	if err := n.metrics.RecordValue(ctx, awspkg.MetricInventoryLow, float64(product.CurrentStock),
		map[string]string{"SKU": product.SKU}); err != nil {
		n.logger.Debug("failed to record metric", zap.Error(err))
	}

	if n.email != nil {
		for _, to := range n.cfg.EmailRecipients {
			n.sendWithRetry(ctx, models.ChannelEmail, to, subject, product, func(ctx context.Context) (string, error) {
				res, err := n.email.SendEmail(ctx, to, subject, body)
				return res.MessageID, err
			})
		}
	}

	if n.sms != nil {
		for _, to := range n.cfg.SMSRecipients {
			n.sendWithRetry(ctx, models.ChannelSMS, to, subject, product, func(ctx context.Context) (string, error) {
				res, err := n.sms.SendSMS(ctx, to, body)
				return res.MessageID, err
			})
		}
	}

	if n.sns != nil && n.cfg.SNSTopicARN != "" {
		payload, err := json.Marshal(models.LowStockEvent{
			EventType: models.EventLowStock,
			ProductID: product.ID.String(),
			Name:      product.Name,
			SKU:       product.SKU,
			Stock:     product.CurrentStock,
			Threshold: n.cfg.Threshold,
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			n.logger.Error("failed to encode low stock event", zap.Error(err))
			return
		}
		n.sendWithRetry(ctx, models.ChannelSNS, n.cfg.SNSTopicARN, subject, product, func(ctx context.Context) (string, error) {
			return n.sns.Publish(ctx, n.cfg.SNSTopicARN, subject, payload)
		})
	}
}

func (n *LowStockNotifier) sendWithRetry(
	ctx context.Context,
	channel, to, subject string,
	product models.Product,
	send func(ctx context.Context) (string, error),
) {
	var lastErr error
	var messageID string
	attempts := 0

	for attempt := 0; attempt < n.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * n.cfg.RetryBackoff):
			case <-ctx.Done():
				lastErr = ctx.Err()
			}
			if ctx.Err() != nil {
				break
			}
		}

		attempts++
		messageID, lastErr = send(ctx)
		if lastErr == nil {
			break
		}

		n.logger.Warn("low stock alert attempt failed",
			zap.String("channel", channel),
			zap.String("sku", product.SKU),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr),
		)
	}

	status := models.AlertStatusSent
	errMsg := ""
	metric := awspkg.MetricLowStockAlerts
	if lastErr != nil {
		status = models.AlertStatusFailed
		errMsg = lastErr.Error()
		metric = awspkg.MetricLowStockFailures
	}

	n.logger.Info("low stock alert processed",
		zap.String("channel", channel),
		zap.String("sku", product.SKU),
		zap.String("status", status),
		zap.String("message_id", messageID),
	)
	if err := n.metrics.RecordCount(ctx, metric, map[string]string{"Channel": channel}); err != nil {
		n.logger.Debug("failed to record metric", zap.Error(err))
	}

	if n.alerts == nil {
		return
	}
	retries := attempts - 1
	if retries < 0 {
		retries = 0
	}
	entry := &models.LowStockAlert{
		ProductID:  product.ID,
		SKU:        product.SKU,
		Channel:    channel,
		Recipient:  to,
		Subject:    subject,
		StockLevel: product.CurrentStock,
		Status:     status,
		Error:      errMsg,
		RetryCount: retries,
	}
	// The request context may already be done; the log row is written anyway.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := n.alerts.SaveLog(saveCtx, entry); err != nil {
		n.logger.Error("failed to save low stock alert", zap.Error(err))
	}
}
