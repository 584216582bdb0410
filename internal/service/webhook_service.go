package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hiresync/validation-queue-api/internal/models"
	"github.com/hiresync/validation-queue-api/pkg/config"
	"github.com/hiresync/validation-queue-api/pkg/jobs"
)

const webhookEventName = "candidate_validated"

type webhookPayload struct {
	Event     string           `json:"event"`
	Timestamp time.Time        `json:"timestamp"`
	Data      models.Candidate `json:"data"`
}

// WebhookService delivers fire-and-forget validation notifications to the
// operator-configured URL. Delivery is single-attempt: a failure is logged
// and counted, never retried, and never fails the validation that caused it.
// An empty URL disables the service.
type WebhookService struct {
	cfg     config.WebhookConfig
	client  *http.Client
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
}

// NewWebhookService constructs the notifier.
func NewWebhookService(cfg config.WebhookConfig, metrics *MetricsService, logger *zap.Logger) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	s := &WebhookService{
		cfg:     cfg,
		client:  &http.Client{Timeout: timeout},
		metrics: metrics,
		logger:  logger,
	}
	s.queue = jobs.NewQueue("webhook", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: 0,
		Logger:     logger,
	})
	return s
}

// Enabled reports whether a target URL is configured.
func (s *WebhookService) Enabled() bool {
	return s.cfg.URL != ""
}

// Start launches the delivery workers.
func (s *WebhookService) Start(ctx context.Context) {
	if !s.Enabled() {
		s.logger.Info("webhook notifier disabled, no URL configured")
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the delivery workers.
func (s *WebhookService) Stop() {
	if s.Enabled() {
		s.queue.Stop()
	}
}

// NotifyValidated enqueues a notification for a freshly validated candidate.
func (s *WebhookService) NotifyValidated(candidate models.Candidate) {
	if !s.Enabled() {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:   uuid.NewString(),
		Type: webhookEventName,
		Payload: webhookPayload{
			Event:     webhookEventName,
			Timestamp: time.Now().UTC(),
			Data:      candidate,
		},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue webhook notification", zap.Error(err))
		s.metrics.RecordWebhookDelivery(false)
	}
}

func (s *WebhookService) deliver(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(webhookPayload)
	if !ok {
		return fmt.Errorf("unexpected webhook payload type %T", job.Payload)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.metrics.RecordWebhookDelivery(false)
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		s.metrics.RecordWebhookDelivery(false)
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.metrics.RecordWebhookDelivery(false)
		s.logger.Warn("webhook delivery failed",
			zap.String("candidate", payload.Data.Code), zap.Error(err))
		return nil // best effort, no retry
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		s.metrics.RecordWebhookDelivery(false)
		s.logger.Warn("webhook delivery rejected",
			zap.String("candidate", payload.Data.Code), zap.Int("status", resp.StatusCode))
		return nil
	}

	s.metrics.RecordWebhookDelivery(true)
	return nil
}
