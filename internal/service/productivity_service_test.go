package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiresync/validation-queue-api/internal/models"
	appErrors "github.com/hiresync/validation-queue-api/pkg/errors"
)

type productivityStoreStub struct {
	aggregates    []models.AnalystProductivity
	aggregateErr  error
	events        []models.ValidationEvent
	eventsErr     error
	aggregateCall int
}

func (s *productivityStoreStub) AggregateByAnalyst(ctx context.Context) ([]models.AnalystProductivity, error) {
	s.aggregateCall++
	if s.aggregateErr != nil {
		return nil, s.aggregateErr
	}
	return s.aggregates, nil
}

func (s *productivityStoreStub) EventsByAnalyst(ctx context.Context, analyst string) ([]models.ValidationEvent, error) {
	if s.eventsErr != nil {
		return nil, s.eventsErr
	}
	return s.events, nil
}

type cacheStub struct {
	entries map[string]string
	getErr  error
}

func newCacheStub() *cacheStub {
	return &cacheStub{entries: make(map[string]string)}
}

func (c *cacheStub) Get(ctx context.Context, key string, dest interface{}) error {
	if c.getErr != nil {
		return c.getErr
	}
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (c *cacheStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = string(raw)
	return nil
}

func (c *cacheStub) DeleteByPattern(ctx context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	return nil
}

func rollbackEvent(by string, validator string) models.ValidationEvent {
	at := time.Date(2024, 3, 10, 10, 0, 0, 0, time.UTC)
	return models.ValidationEvent{
		ValidatorID:    validator,
		ValidatorName:  validator,
		Rollback:       true,
		RollbackAt:     &at,
		RollbackByID:   &by,
		RollbackByName: &by,
	}
}

func TestAggregateEvents(t *testing.T) {
	events := []models.ValidationEvent{
		{ValidatorID: "ana", ValidatorName: "Ana Lima", DurationSeconds: 60},
		{ValidatorID: "ana", ValidatorName: "Ana Lima", DurationSeconds: 120},
		{ValidatorID: "bruno", ValidatorName: "Bruno Costa", DurationSeconds: 30},
		rollbackEvent("ana", "bruno"),
	}

	result := AggregateEvents("ana", events)
	assert.Equal(t, "ana", result.Analyst)
	assert.Equal(t, 2, result.TotalValidated)
	assert.InDelta(t, 90.0, result.AvgDurationSeconds, 0.001)
	assert.Equal(t, 1, result.TotalRollbacks)

	// rolled-back validations no longer count for the original validator
	bruno := AggregateEvents("bruno", events)
	assert.Equal(t, 1, bruno.TotalValidated)
	assert.Zero(t, bruno.TotalRollbacks)
}

func TestAggregateEventsNoActivity(t *testing.T) {
	result := AggregateEvents("carla", nil)
	assert.Equal(t, "carla", result.Analyst)
	assert.Zero(t, result.TotalValidated)
	assert.Zero(t, result.AvgDurationSeconds)
	assert.Zero(t, result.TotalRollbacks)
}

func TestProductivityServiceAllCaches(t *testing.T) {
	store := &productivityStoreStub{aggregates: []models.AnalystProductivity{
		{Analyst: "ana", TotalValidated: 5, AvgDurationSeconds: 42, TotalRollbacks: 1},
	}}
	cache := newCacheStub()
	svc := NewProductivityService(store, cache, nil, nil, ProductivityServiceConfig{})

	first, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "ana", first[0].Analyst)
	assert.Equal(t, 1, store.aggregateCall)

	// second read is served from cache
	second, err := svc.All(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, store.aggregateCall)
}

func TestProductivityServiceForAnalyst(t *testing.T) {
	store := &productivityStoreStub{aggregates: []models.AnalystProductivity{
		{Analyst: "ana", TotalValidated: 5},
		{Analyst: "bruno", TotalValidated: 2},
	}}
	svc := NewProductivityService(store, newCacheStub(), nil, nil, ProductivityServiceConfig{})

	result, err := svc.ForAnalyst(context.Background(), "bruno")
	require.NoError(t, err)
	assert.Equal(t, "bruno", result.Analyst)
	assert.Equal(t, 2, result.TotalValidated)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestProductivityServiceForAnalystWithoutActivity(t *testing.T) {
	store := &productivityStoreStub{aggregates: []models.AnalystProductivity{
		{Analyst: "ana", TotalValidated: 5},
	}}
	svc := NewProductivityService(store, newCacheStub(), nil, nil, ProductivityServiceConfig{})

	result, err := svc.ForAnalyst(context.Background(), "carla")
	require.NoError(t, err)
	assert.Equal(t, "carla", result.Analyst)
	assert.Zero(t, result.TotalValidated)
	assert.Zero(t, result.TotalRollbacks)
}

func TestProductivityServiceFallsBackToRawEvents(t *testing.T) {
	store := &productivityStoreStub{
		aggregateErr: errors.New("relation does not exist"),
		events: []models.ValidationEvent{
			{ValidatorID: "ana", ValidatorName: "Ana Lima", DurationSeconds: 50},
			{ValidatorID: "ana", ValidatorName: "Ana Lima", DurationSeconds: 70},
		},
	}
	svc := NewProductivityService(store, newCacheStub(), nil, nil, ProductivityServiceConfig{})

	result, err := svc.ForAnalyst(context.Background(), "ana")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalValidated)
	assert.InDelta(t, 60.0, result.AvgDurationSeconds, 0.001)
}

func TestProductivityServiceAggregateErrorSurfaces(t *testing.T) {
	store := &productivityStoreStub{aggregateErr: errors.New("boom")}
	svc := NewProductivityService(store, newCacheStub(), nil, nil, ProductivityServiceConfig{})

	_, err := svc.All(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestProductivityServiceCacheInvalidation(t *testing.T) {
	store := &productivityStoreStub{aggregates: []models.AnalystProductivity{{Analyst: "ana"}}}
	cache := newCacheStub()
	svc := NewProductivityService(store, cache, nil, nil, ProductivityServiceConfig{})

	_, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, cache.entries)

	svc.invalidate(context.Background(), "poll")
	assert.Empty(t, cache.entries)

	// next read recomputes
	_, err = svc.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, store.aggregateCall)
}
