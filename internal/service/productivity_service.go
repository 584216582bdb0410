package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/hiresync/validation-queue-api/internal/bus"
	"github.com/hiresync/validation-queue-api/internal/models"
	appErrors "github.com/hiresync/validation-queue-api/pkg/errors"
)

const (
	productivityCacheKeyAll    = "productivity:all"
	productivityCachePattern   = "productivity:*"
	productivityCacheKeyPrefix = "productivity:analyst:"
)

type productivityStore interface {
	AggregateByAnalyst(ctx context.Context) ([]models.AnalystProductivity, error)
	EventsByAnalyst(ctx context.Context, analyst string) ([]models.ValidationEvent, error)
}

type productivityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// ProductivityServiceConfig tunes caching and the polling fallback.
type ProductivityServiceConfig struct {
	CacheTTL     time.Duration
	PollInterval time.Duration
}

// ProductivityService derives per-analyst counters from the audit trail.
// It prefers the precomputed SQL aggregate and falls back to aggregating raw
// events in process. Aggregates are cached; a push notification or the next
// poll cycle invalidates them, so consumers may observe staleness up to one
// poll interval.
type ProductivityService struct {
	repo   productivityStore
	cache  productivityCache
	events bus.Bus
	logger *zap.Logger
	now    func() time.Time
	cfg    ProductivityServiceConfig
}

// NewProductivityService constructs the service.
func NewProductivityService(repo productivityStore, cache productivityCache, events bus.Bus, logger *zap.Logger, cfg ProductivityServiceConfig) *ProductivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Hour
	}
	return &ProductivityService{
		repo:   repo,
		cache:  cache,
		events: events,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		cfg:    cfg,
	}
}

// All returns productivity counters for every analyst.
func (s *ProductivityService) All(ctx context.Context) ([]models.AnalystProductivity, error) {
	var cached []models.AnalystProductivity
	if err := s.cache.Get(ctx, productivityCacheKeyAll, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("productivity cache read failed", zap.Error(err))
	}

	aggregates, err := s.repo.AggregateByAnalyst(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate productivity")
	}
	generatedAt := s.now()
	for i := range aggregates {
		aggregates[i].GeneratedAt = generatedAt
	}

	if err := s.cache.Set(ctx, productivityCacheKeyAll, aggregates, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("productivity cache write failed", zap.Error(err))
	}
	return aggregates, nil
}

// ForAnalyst returns counters for one analyst, matched by identity or
// display name. When the precomputed aggregate is unavailable the raw events
// are aggregated in process.
func (s *ProductivityService) ForAnalyst(ctx context.Context, analyst string) (*models.AnalystProductivity, error) {
	key := productivityCacheKeyPrefix + analyst
	var cached models.AnalystProductivity
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("productivity cache read failed", zap.Error(err))
	}

	result, err := s.forAnalystUncached(ctx, analyst)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, result, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("productivity cache write failed", zap.Error(err))
	}
	return result, nil
}

func (s *ProductivityService) forAnalystUncached(ctx context.Context, analyst string) (*models.AnalystProductivity, error) {
	aggregates, err := s.repo.AggregateByAnalyst(ctx)
	if err == nil {
		for i := range aggregates {
			if aggregates[i].Analyst == analyst {
				aggregates[i].GeneratedAt = s.now()
				return &aggregates[i], nil
			}
		}
		// analyst has no recorded activity yet
		return &models.AnalystProductivity{Analyst: analyst, GeneratedAt: s.now()}, nil
	}
	s.logger.Warn("precomputed aggregate unavailable, falling back to raw events", zap.Error(err))

	events, fallbackErr := s.repo.EventsByAnalyst(ctx, analyst)
	if fallbackErr != nil {
		return nil, appErrors.Wrap(fallbackErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load analyst events")
	}
	result := AggregateEvents(analyst, events)
	result.GeneratedAt = s.now()
	return &result, nil
}

// AggregateEvents derives the counters from raw events. Validations are
// attributed by validator identity or name; rollbacks by the performer,
// regardless of who validated originally.
func AggregateEvents(analyst string, events []models.ValidationEvent) models.AnalystProductivity {
	result := models.AnalystProductivity{Analyst: analyst}

	var durationTotal int64
	for _, event := range events {
		if event.Rollback {
			if matches(analyst, event.RollbackByID) || matches(analyst, event.RollbackByName) {
				result.TotalRollbacks++
			}
			continue
		}
		if event.ValidatorID == analyst || event.ValidatorName == analyst {
			result.TotalValidated++
			durationTotal += event.DurationSeconds
		}
	}
	if result.TotalValidated > 0 {
		result.AvgDurationSeconds = float64(durationTotal) / float64(result.TotalValidated)
	}
	return result
}

func matches(analyst string, value *string) bool {
	return value != nil && *value == analyst
}

// Start wires the push channel and the polling fallback: both invalidate the
// cache so the next read recomputes. Runs until the context is cancelled.
func (s *ProductivityService) Start(ctx context.Context) {
	go func() {
		var notifications <-chan bus.Event
		cancel := func() {}
		if s.events != nil {
			notifications, cancel = s.events.Subscribe(ctx)
		}
		defer cancel()

		ticker := time.NewTicker(s.cfg.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-notifications:
				if !ok {
					notifications = nil
					continue
				}
				s.invalidate(ctx, fmt.Sprintf("push:%s", event.Kind))
			case <-ticker.C:
				s.invalidate(ctx, "poll")
			}
		}
	}()
}

func (s *ProductivityService) invalidate(ctx context.Context, reason string) {
	if err := s.cache.DeleteByPattern(ctx, productivityCachePattern); err != nil {
		s.logger.Warn("productivity cache invalidation failed",
			zap.String("reason", reason), zap.Error(err))
		return
	}
	s.logger.Debug("productivity cache invalidated", zap.String("reason", reason))
}
