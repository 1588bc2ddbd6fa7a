package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/config"
	"github.com/tommy0419Mitsuyasu/HONMOKU-SHIHUTO-2026/internal/events"
)

const (
	webhookTimeout      = 5 * time.Second
	maxWebhooksInFlight = 16
)

// Mailer delivers a single plain-text message.
type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

// logMailer records outgoing mail in the log without the body.
type logMailer struct {
	logger *zap.Logger
}

func (m logMailer) Send(_ context.Context, from, to, subject, _ string) error {
	m.logger.Info("mail queued", zap.String("from", from), zap.String("to", to), zap.String("subject", subject))
	return nil
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	mailer     Mailer
	webhook    *resty.Client
	inflight   chan struct{}
	pending    sync.WaitGroup
}

// NewNotificationService creates the service. A nil mailer logs messages instead of sending them.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, mailer Mailer) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if mailer == nil {
		mailer = logMailer{logger: logger}
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		mailer:     mailer,
		webhook: resty.New().
			SetTimeout(webhookTimeout).
			SetHeader("Content-Type", "application/json"),
		inflight: make(chan struct{}, maxWebhooksInFlight),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventShiftRequestSubmitted, n.handleRequestSubmitted)
	n.dispatcher.Subscribe(events.EventShiftRequestDecided, n.handleRequestDecided)
	n.dispatcher.Subscribe(events.EventShiftRequestsBulkApproved, n.handleBulkApproved)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordReset)
}

func (n *NotificationService) handleRequestSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ShiftRequestSubmitted", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.deliverWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleRequestDecided(ctx context.Context, event events.Event) error {
	n.logger.Info("ShiftRequestDecided", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.deliverWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handleBulkApproved(ctx context.Context, event events.Event) error {
	n.logger.Info("ShiftRequestsBulkApproved", zap.String("event_id", event.ID), zap.Any("payload", event.Payload))
	n.deliverWebhook(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordReset(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("PasswordResetRequested", zap.String("event_id", event.ID), zap.Int64("user_id", payload.UserID))

	body := fmt.Sprintf(
		"%s さん\n\nパスワード再設定のリクエストを受け付けました。\n以下のリンクから新しいパスワードを設定してください。\n\n%s\n\n有効期限: %s\nこのメールに心当たりがない場合は破棄してください。\n",
		payload.Name, payload.ResetURL, payload.ExpiresAt.Format(time.RFC3339),
	)
	return n.mailer.Send(ctx, n.cfg.EmailFrom, payload.Email, "パスワード再設定のご案内", body)
}

// deliverWebhook posts the event in the background so request handlers never
// wait on the receiver. Events beyond maxWebhooksInFlight are dropped with a warning.
func (n *NotificationService) deliverWebhook(ctx context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	select {
	case n.inflight <- struct{}{}:
	default:
		n.logger.Warn("webhook dropped, too many in flight",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return
	}

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		defer func() { <-n.inflight }()
		postCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), webhookTimeout)
		defer cancel()
		if err := n.postWebhook(postCtx, event); err != nil {
			n.logger.Warn("webhook delivery failed",
				zap.String("event_id", event.ID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}()
}

// Wait blocks until background webhook deliveries have finished.
func (n *NotificationService) Wait() {
	n.pending.Wait()
}

// postWebhook forwards the event as JSON when a webhook is configured.
func (n *NotificationService) postWebhook(ctx context.Context, event events.Event) error {
	target := strings.TrimSpace(n.cfg.WebhookURL)
	if target == "" {
		return nil
	}
	resp, err := n.webhook.R().
		SetContext(ctx).
		SetBody(event).
		Post(target)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook responded %d", resp.StatusCode())
	}
	n.logger.Debug("webhook delivered",
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.Int("status", resp.StatusCode()))
	return nil
}
